package dict

// categoryCanonical 岗位分类的封闭集合，与解析提示词中的枚举一致。
var categoryCanonical = []string{
	"前端", "后端", "全栈", "AI/ML", "数据", "DevOps", "移动端",
	"测试", "安全", "产品", "设计", "运营", "其他",
}

// categorySynonyms 来源分类 → 标准分类。Exclude 条目表示非技术岗，
// 整体排除（不计入分类维度，但仍计入帖子总数）。
var categorySynonyms = map[string]CategoryMapping{
	"前端开发":   {Name: "前端"},
	"web前端":  {Name: "前端"},
	"大前端":    {Name: "前端"},
	"后端开发":   {Name: "后端"},
	"服务端":    {Name: "后端"},
	"服务器端":   {Name: "后端"},
	"后台":     {Name: "后端"},
	"全栈开发":   {Name: "全栈"},
	"算法":     {Name: "AI/ML"},
	"机器学习":   {Name: "AI/ML"},
	"深度学习":   {Name: "AI/ML"},
	"大模型":    {Name: "AI/ML"},
	"nlp":    {Name: "AI/ML"},
	"数据分析":   {Name: "数据"},
	"数据开发":   {Name: "数据"},
	"数据工程":   {Name: "数据"},
	"数仓":     {Name: "数据"},
	"大数据":    {Name: "数据"},
	"运维":     {Name: "DevOps"},
	"sre":    {Name: "DevOps"},
	"基础架构":   {Name: "DevOps"},
	"客户端":    {Name: "移动端"},
	"ios":    {Name: "移动端"},
	"android": {Name: "移动端"},
	"安卓":     {Name: "移动端"},
	"移动开发":   {Name: "移动端"},
	"qa":     {Name: "测试"},
	"质量":     {Name: "测试"},
	"测试开发":   {Name: "测试"},
	"安全工程":   {Name: "安全"},
	"网络安全":   {Name: "安全"},
	"产品经理":   {Name: "产品"},
	"ui":     {Name: "设计"},
	"ue":     {Name: "设计"},
	"ux":     {Name: "设计"},
	"视觉设计":   {Name: "设计"},
	"市场":     {Name: "运营"},
	"内容运营":   {Name: "运营"},

	// 非技术岗，整体排除
	"人事": {Exclude: true},
	"hr": {Exclude: true},
	"法务": {Exclude: true},
	"财务": {Exclude: true},
	"会计": {Exclude: true},
	"销售": {Exclude: true},
	"商务": {Exclude: true},
	"行政": {Exclude: true},
	"客服": {Exclude: true},
	"招聘": {Exclude: true},
}

// experienceBuckets 经验要求的固定分桶，趋势输出对每个桶都给出序列。
var experienceBuckets = []string{
	"不限", "应届/实习", "1-3年", "3-5年", "5-10年", "10年以上", "其他",
}

// educationBuckets 学历要求的固定分桶。
var educationBuckets = []string{
	"不限", "大专及以上", "本科及以上", "硕士及以上", "博士", "其他",
}
