// Package dict 存放全部归一化字典。字典与逻辑分离，新增框架或城市
// 只改这里，不碰归一化代码。运行期只读，测试可以注入缩小版。
package dict

import "math"

// CategoryMapping 岗位分类同义词映射结果。Exclude 为 true 表示该来源
// 分类（如人事、销售等非技术岗）应整体排除，而不是落入兜底分类。
type CategoryMapping struct {
	Name    string
	Exclude bool
}

// ProvinceCapital 省份到省会的回退映射。按切片顺序前缀匹配，
// 保证归一化结果确定。
type ProvinceCapital struct {
	Province string
	Capital  string
}

// CityDistricts 一座城市及其可识别的区域/地标子串。
type CityDistricts struct {
	City      string
	Districts []string
}

// SalaryBand 月薪分档。Upper 为平均月薪（千元）的上界，不含；
// 最后一档为 +Inf。
type SalaryBand struct {
	Label string
	Upper float64
}

// Tables 聚合全部字典，作为不可变配置注入归一化函数。
type Tables struct {
	TechSynonyms   map[string]string
	TechCategories map[string]string
	TechNoise      map[string]struct{}
	TechMaxRunes   int

	CanonicalCities  []string
	Districts        []CityDistricts
	ProvinceCapitals []ProvinceCapital
	MultiCity        map[string][]string
	InvalidLocations map[string]struct{}
	RemoteMarkers    []string
	OverseasCities   map[string]string

	CategoryCanonical []string
	CategorySynonyms  map[string]CategoryMapping
	CategoryFallback  string

	ExperienceBuckets []string
	EducationBuckets  []string

	SalaryBands []SalaryBand
}

// RemoteCity 远程办公在城市维度下的标准名。
const RemoteCity = "远程"

// TechCategoryOf 返回标准技术名所属分类，未收录的落入「其他」。
// 查询总是有结果，不会失败。
func (t Tables) TechCategoryOf(name string) string {
	if cat, ok := t.TechCategories[name]; ok {
		return cat
	}
	return "其他"
}

// SalaryBandOf 按 [min,max] 的平均值返回所属分档标签，区间左闭右开。
func (t Tables) SalaryBandOf(minK, maxK float64) string {
	avg := (minK + maxK) / 2
	for _, band := range t.SalaryBands {
		if avg < band.Upper {
			return band.Label
		}
	}
	// 表尾恒为 +Inf，只有空表才会走到这里
	return ""
}

// Default 返回内置的完整字典。
func Default() Tables {
	return Tables{
		TechSynonyms:   techSynonyms,
		TechCategories: buildTechCategories(),
		TechNoise:      techNoise,
		TechMaxRunes:   30,

		CanonicalCities:  canonicalCities,
		Districts:        cityDistricts,
		ProvinceCapitals: provinceCapitals,
		MultiCity:        multiCityShorthand,
		InvalidLocations: invalidLocations,
		RemoteMarkers:    remoteMarkers,
		OverseasCities:   overseasCities,

		CategoryCanonical: categoryCanonical,
		CategorySynonyms:  categorySynonyms,
		CategoryFallback:  "其他",

		ExperienceBuckets: experienceBuckets,
		EducationBuckets:  educationBuckets,

		SalaryBands: []SalaryBand{
			{Label: "<10k", Upper: 10},
			{Label: "10k-15k", Upper: 15},
			{Label: "15k-20k", Upper: 20},
			{Label: "20k-25k", Upper: 25},
			{Label: "25k-30k", Upper: 30},
			{Label: "30k-40k", Upper: 40},
			{Label: "40k-50k", Upper: 50},
			{Label: "50k+", Upper: math.Inf(1)},
		},
	}
}

func buildTechCategories() map[string]string {
	out := make(map[string]string, 128)
	for cat, techs := range techCategoryGroups {
		for _, t := range techs {
			out[t] = cat
		}
	}
	return out
}
