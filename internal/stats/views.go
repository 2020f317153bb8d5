package stats

// 六份聚合视图的输出结构，字段名与前端数据文件一一对应。
// 所有切片与 map 都保证非 nil，空数据序列化为 [] / {} 而不是 null。

// RankEntry 排名条目，所有榜单按 count 降序。
type RankEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthCount 月度计数点。稠密序列在完整月份区间内每月一条，缺数补零。
type MonthCount struct {
	YearMonth string `json:"yearMonth"`
	Count     int    `json:"count"`
}

// MonthRate 带占比的月度计数点，百分比保留两位小数。
type MonthRate struct {
	YearMonth  string  `json:"yearMonth"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DateRange 数据覆盖的月份区间。
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overview 首页总览。
type Overview struct {
	TotalPostings      int         `json:"totalPostings"`
	TotalMonths        int         `json:"totalMonths"`
	DateRange          DateRange   `json:"dateRange"`
	TopCities          []RankEntry `json:"topCities"`
	TopTechStack       []RankEntry `json:"topTechStack"`
	TopCompanies       []RankEntry `json:"topCompanies"`
	RemotePercentage   float64     `json:"remotePercentage"`
	OverseasPercentage float64     `json:"overseasPercentage"`
}

// MonthlyStats 单月横截面统计。
type MonthlyStats struct {
	YearMonth     string         `json:"yearMonth"`
	TotalPostings int            `json:"totalPostings"`
	ByCity        map[string]int `json:"byCity"`
	ByTechStack   map[string]int `json:"byTechStack"`
	ByCategory    map[string]int `json:"byCategory"`
	ByCompanyType map[string]int `json:"byCompanyType"`
	RemoteCount   int            `json:"remoteCount"`
	OverseasCount int            `json:"overseasCount"`
}

// CityStats 城市维度：完整排名 + 前 20 城市的月度趋势。
type CityStats struct {
	Rankings []RankEntry             `json:"rankings"`
	Trends   map[string][]MonthCount `json:"trends"`
}

// TechStats 技术维度：长尾抑制后的排名、前 20 技术趋势、按分类归组。
type TechStats struct {
	Rankings   []RankEntry             `json:"rankings"`
	Trends     map[string][]MonthCount `json:"trends"`
	ByCategory map[string][]RankEntry  `json:"byCategory"`
}

// SalaryBucket 薪资分档计数，输出时省略计数为零的档。
type SalaryBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// CompanyStats 公司维度。
type CompanyStats struct {
	Rankings           []RankEntry    `json:"rankings"`
	ByType             map[string]int `json:"byType"`
	SalaryDistribution []SalaryBucket `json:"salaryDistribution"`
	SalaryValidSamples int            `json:"salaryValidSamples"`
}

// TrendStats 趋势维度，全部为稠密月度序列。
type TrendStats struct {
	PostingTrend    []MonthCount            `json:"postingTrend"`
	CategoryTrend   map[string][]MonthCount `json:"categoryTrend"`
	RemoteTrend     []MonthRate             `json:"remoteTrend"`
	OverseasTrend   []MonthRate             `json:"overseasTrend"`
	ExperienceTrend map[string][]MonthCount `json:"experienceTrend"`
	EducationTrend  map[string][]MonthCount `json:"educationTrend"`
}

// Result 一次聚合产出的全部六份视图。
type Result struct {
	Overview Overview       `json:"overview"`
	Monthly  []MonthlyStats `json:"monthly"`
	City     CityStats      `json:"city"`
	Tech     TechStats      `json:"tech"`
	Company  CompanyStats   `json:"company"`
	Trend    TrendStats     `json:"trend"`
}

// Empty 返回零值但结构完整的视图集合，空输入时使用，
// 下游渲染不需要判空。
func Empty() Result {
	return Result{
		Overview: Overview{
			TopCities:    []RankEntry{},
			TopTechStack: []RankEntry{},
			TopCompanies: []RankEntry{},
		},
		Monthly: []MonthlyStats{},
		City: CityStats{
			Rankings: []RankEntry{},
			Trends:   map[string][]MonthCount{},
		},
		Tech: TechStats{
			Rankings:   []RankEntry{},
			Trends:     map[string][]MonthCount{},
			ByCategory: map[string][]RankEntry{},
		},
		Company: CompanyStats{
			Rankings:           []RankEntry{},
			ByType:             map[string]int{},
			SalaryDistribution: []SalaryBucket{},
		},
		Trend: TrendStats{
			PostingTrend:    []MonthCount{},
			CategoryTrend:   map[string][]MonthCount{},
			RemoteTrend:     []MonthRate{},
			OverseasTrend:   []MonthRate{},
			ExperienceTrend: map[string][]MonthCount{},
			EducationTrend:  map[string][]MonthCount{},
		},
	}
}
