package dict

// techSynonyms 全小写别名 → 标准展示名。查询不区分大小写，输出保留标准写法。
var techSynonyms = map[string]string{
	"react.js":      "React",
	"reactjs":       "React",
	"react":         "React",
	"vue.js":        "Vue",
	"vuejs":         "Vue",
	"vue":           "Vue",
	"vue2":          "Vue",
	"vue3":          "Vue",
	"angular.js":    "Angular",
	"angularjs":     "Angular",
	"angular":       "Angular",
	"svelte":        "Svelte",
	"next.js":       "Next.js",
	"nextjs":        "Next.js",
	"next":          "Next.js",
	"nuxt.js":       "Nuxt.js",
	"nuxtjs":        "Nuxt.js",
	"nuxt":          "Nuxt.js",
	"node.js":       "Node.js",
	"nodejs":        "Node.js",
	"node":          "Node.js",
	"express.js":    "Express",
	"expressjs":     "Express",
	"express":       "Express",
	"nestjs":        "NestJS",
	"nest.js":       "NestJS",
	"nest":          "NestJS",
	"typescript":    "TypeScript",
	"ts":            "TypeScript",
	"javascript":    "JavaScript",
	"js":            "JavaScript",
	"python":        "Python",
	"py":            "Python",
	"golang":        "Go",
	"go":            "Go",
	"java":          "Java",
	"rust":          "Rust",
	"c++":           "C++",
	"cpp":           "C++",
	"c#":            "C#",
	"csharp":        "C#",
	"php":           "PHP",
	"ruby":          "Ruby",
	"kotlin":        "Kotlin",
	"swift":         "Swift",
	"dart":          "Dart",
	"scala":         "Scala",
	"elixir":        "Elixir",
	"lua":           "Lua",
	"r":             "R",
	"spring":        "Spring",
	"spring boot":   "Spring Boot",
	"springboot":    "Spring Boot",
	"django":        "Django",
	"fastapi":       "FastAPI",
	"flask":         "Flask",
	"gin":           "Gin",
	"fiber":         "Fiber",
	"laravel":       "Laravel",
	"rails":         "Rails",
	"ruby on rails": "Rails",
	"mysql":         "MySQL",
	"postgresql":    "PostgreSQL",
	"postgres":      "PostgreSQL",
	"pg":            "PostgreSQL",
	"mongodb":       "MongoDB",
	"mongo":         "MongoDB",
	"redis":         "Redis",
	"elasticsearch": "Elasticsearch",
	"es":            "Elasticsearch",
	"sqlite":        "SQLite",
	"cassandra":     "Cassandra",
	"clickhouse":    "ClickHouse",
	"tidb":          "TiDB",
	"aws":           "AWS",
	"docker":        "Docker",
	"kubernetes":    "Kubernetes",
	"k8s":           "Kubernetes",
	"linux":         "Linux",
	"ci/cd":         "CI/CD",
	"cicd":          "CI/CD",
	"jenkins":       "Jenkins",
	"terraform":     "Terraform",
	"ansible":       "Ansible",
	"nginx":         "Nginx",
	"graphql":       "GraphQL",
	"grpc":          "gRPC",
	"kafka":         "Kafka",
	"rabbitmq":      "RabbitMQ",
	"rocketmq":      "RocketMQ",
	"etcd":          "etcd",
	"pytorch":       "PyTorch",
	"tensorflow":    "TensorFlow",
	"llm":           "LLM",
	"nlp":           "NLP",
	"大模型":           "LLM",
	"机器学习":          "ML",
	"深度学习":          "Deep Learning",
	"react native":  "React Native",
	"reactnative":   "React Native",
	"flutter":       "Flutter",
	"electron":      "Electron",
	"ios":           "iOS",
	"android":       "Android",
	"安卓":            "Android",
	"webpack":       "Webpack",
	"vite":          "Vite",
	"tailwindcss":   "Tailwind CSS",
	"tailwind css":  "Tailwind CSS",
	"tailwind":      "Tailwind CSS",
	"three.js":      "Three.js",
	"threejs":       "Three.js",
	"hadoop":        "Hadoop",
	"spark":         "Spark",
	"flink":         "Flink",
	"hive":          "Hive",
	"hbase":         "HBase",
	"selenium":      "Selenium",
	"playwright":    "Playwright",
	"cypress":       "Cypress",
	"jest":          "Jest",
	"jmeter":        "JMeter",
}

// techCategoryGroups 分类 → 标准技术名列表，构建时反转为 tech → 分类。
// 未收录的技术落入「其他」，由 TechCategoryOf 兜底。
var techCategoryGroups = map[string][]string{
	"语言": {
		"TypeScript", "JavaScript", "Python", "Go", "Java", "Rust", "C++", "C#",
		"PHP", "Ruby", "Kotlin", "Swift", "Dart", "Scala", "Elixir", "Lua", "R",
	},
	"前端": {
		"React", "Vue", "Angular", "Svelte", "Next.js", "Nuxt.js",
		"Webpack", "Vite", "Tailwind CSS", "Three.js",
	},
	"后端": {
		"Node.js", "Spring", "Spring Boot", "Django", "FastAPI", "Flask",
		"Express", "Gin", "Fiber", "NestJS", "Laravel", "Rails",
	},
	"数据库": {
		"MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch", "SQLite",
		"Cassandra", "ClickHouse", "TiDB",
	},
	"云/DevOps": {
		"AWS", "Docker", "Kubernetes", "Linux", "CI/CD", "Jenkins",
		"Terraform", "Ansible", "Nginx",
	},
	"AI/ML": {
		"PyTorch", "TensorFlow", "LLM", "NLP", "ML", "Deep Learning",
	},
	"移动端": {
		"iOS", "Android", "React Native", "Flutter", "Electron",
	},
	"大数据": {
		"Hadoop", "Spark", "Flink", "Hive", "HBase",
	},
	"中间件": {
		"GraphQL", "gRPC", "Kafka", "RabbitMQ", "RocketMQ", "etcd",
	},
	"测试": {
		"Selenium", "Playwright", "Cypress", "Jest", "JMeter",
	},
}

// techNoise 技术栈噪音词：岗位名、软技能、过于宽泛的缩写。
// 命中后整体排除，不参与技术榜单。先按原样匹配，再按小写匹配。
var techNoise = map[string]struct{}{
	"前端":      {},
	"后端":      {},
	"全栈":      {},
	"前端开发":    {},
	"后端开发":    {},
	"客户端":     {},
	"服务端":     {},
	"架构":      {},
	"架构设计":    {},
	"开发":      {},
	"编程":      {},
	"工程师":     {},
	"程序员":     {},
	"算法":      {},
	"数据结构":    {},
	"计算机基础":   {},
	"沟通能力":    {},
	"团队合作":    {},
	"团队协作":    {},
	"学习能力":    {},
	"责任心":     {},
	"英语":      {},
	"english": {},
	"http":    {},
	"https":   {},
	"tcp":     {},
	"tcp/ip":  {},
	"api":     {},
	"restful": {},
	"rest":    {},
	"sql":     {},
	"git":     {},
	"github":  {},
	"oop":     {},
	"web":     {},
	"app":     {},
	"ai":      {},
}
