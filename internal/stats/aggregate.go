// Package stats 实现聚合引擎：把全量 JobPosting 记录归并为六份视图。
// 引擎是纯函数：无 I/O、无共享状态、单线程跑完，重复执行产出完全一致。
package stats

import (
	"math"
	"sort"

	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
)

// 榜单与趋势的噪音阈值。低频技术/分类进入原始计数，但不进入发布的
// 排名与趋势，避免图表长尾噪音。
const (
	techMinCount     = 3
	categoryMinCount = 5
	topCityTrends    = 20
	topTechTrends    = 20
	topNOverview     = 10
)

// unknownMonth 缺失月份的兜底桶。"u" 的字典序排在所有 "YYYY-MM" 之后，
// 普通字符串排序即可保证它落在最后。
const unknownMonth = "unknown"

// Aggregator 聚合引擎。
type Aggregator struct {
	norm *normalize.Normalizer
}

// New 创建聚合引擎。
func New(n *normalize.Normalizer) *Aggregator {
	return &Aggregator{norm: n}
}

// monthTally 单个月份桶的全部计数。
type monthTally struct {
	postings    []model.JobPosting
	city        *counter
	tech        *counter
	category    *counter
	companyType *counter
	experience  *counter
	education   *counter
	remote      int
	overseas    int
}

// Aggregate 对输入集合做一次全量聚合。输入为空时返回完整的零值模板。
// 输入顺序影响同分条目的先后，但不影响任何计数。
func (a *Aggregator) Aggregate(postings []model.JobPosting) Result {
	if len(postings) == 0 {
		return Empty()
	}

	months, tallies := a.groupByMonth(postings)

	global := a.globalTally(postings)

	result := Result{
		Monthly: a.monthlyStats(months, tallies),
		City:    a.cityStats(months, tallies, global),
		Tech:    a.techStats(months, tallies, global),
		Company: a.companyStats(global),
		Trend:   a.trendStats(months, tallies, global),
	}
	result.Overview = a.overview(postings, months, global)
	return result
}

func (a *Aggregator) groupByMonth(postings []model.JobPosting) ([]string, map[string]*monthTally) {
	tallies := make(map[string]*monthTally)
	var months []string

	for _, p := range postings {
		ym := p.YearMonth
		if ym == "" {
			ym = unknownMonth
		}
		tally, ok := tallies[ym]
		if !ok {
			tally = &monthTally{
				city:        newCounter(),
				tech:        newCounter(),
				category:    newCounter(),
				companyType: newCounter(),
				experience:  newCounter(),
				education:   newCounter(),
			}
			tallies[ym] = tally
			months = append(months, ym)
		}
		tally.postings = append(tally.postings, p)
		a.tallyPosting(tally, p)
	}

	sort.Strings(months)
	return months, tallies
}

// tallyPosting 把一条记录计入月份桶。源列表按自然顺序遍历：
// 同一条记录里重复出现的相同原始值会各自计数一次，这一行为
// 与既有面板口径一致，保持不变。
func (a *Aggregator) tallyPosting(t *monthTally, p model.JobPosting) {
	for _, loc := range p.Location {
		for _, city := range a.norm.City(loc) {
			t.city.add(city)
		}
	}
	for _, tech := range p.TechStack {
		if name, ok := a.norm.Tech(tech); ok {
			t.tech.add(name)
		}
	}
	for _, pos := range p.Positions {
		if cat, ok := a.norm.Category(pos.Category); ok {
			t.category.add(cat)
		}
	}
	if p.CompanyType != "" {
		t.companyType.add(p.CompanyType)
	}
	if p.ExperienceReq != "" {
		t.experience.add(a.norm.Experience(p.ExperienceReq))
	}
	if p.EducationReq != "" {
		t.education.add(a.norm.Education(p.EducationReq))
	}
	if p.IsRemote {
		t.remote++
	}
	if p.IsOverseas {
		t.overseas++
	}
}

// globalTally 全量维度计数，含只在全局统计的公司名与薪资分档。
type globalCounts struct {
	city        *counter
	tech        *counter
	category    *counter
	companyType *counter
	company     *counter
	experience  *counter
	education   *counter
	salaryBand  *counter
	salaryValid int
	remote      int
	overseas    int
}

func (a *Aggregator) globalTally(postings []model.JobPosting) globalCounts {
	g := globalCounts{
		city:        newCounter(),
		tech:        newCounter(),
		category:    newCounter(),
		companyType: newCounter(),
		company:     newCounter(),
		experience:  newCounter(),
		education:   newCounter(),
		salaryBand:  newCounter(),
	}
	for _, p := range postings {
		for _, loc := range p.Location {
			for _, city := range a.norm.City(loc) {
				g.city.add(city)
			}
		}
		for _, tech := range p.TechStack {
			if name, ok := a.norm.Tech(tech); ok {
				g.tech.add(name)
			}
		}
		for _, pos := range p.Positions {
			if cat, ok := a.norm.Category(pos.Category); ok {
				g.category.add(cat)
			}
		}
		if p.CompanyType != "" {
			g.companyType.add(p.CompanyType)
		}
		if p.Company != "" {
			g.company.add(p.Company)
		}
		if p.ExperienceReq != "" {
			g.experience.add(a.norm.Experience(p.ExperienceReq))
		}
		if p.EducationReq != "" {
			g.education.add(a.norm.Education(p.EducationReq))
		}
		if p.IsRemote {
			g.remote++
		}
		if p.IsOverseas {
			g.overseas++
		}
		if p.SalaryRange != "" {
			if minK, maxK, ok := a.norm.SalaryMonthlyK(p.SalaryRange); ok {
				g.salaryValid++
				g.salaryBand.add(a.norm.SalaryBand(minK, maxK))
			}
		}
	}
	return g
}

func (a *Aggregator) overview(postings []model.JobPosting, months []string, g globalCounts) Overview {
	total := len(postings)
	o := Overview{
		TotalPostings: total,
		TotalMonths:   len(months),
		TopCities:     g.city.top(topNOverview),
		TopTechStack:  g.tech.top(topNOverview),
		TopCompanies:  g.company.top(topNOverview),
	}
	if len(months) > 0 {
		o.DateRange = DateRange{Start: months[0], End: months[len(months)-1]}
	}
	if total > 0 {
		o.RemotePercentage = round2(float64(g.remote) / float64(total) * 100)
		o.OverseasPercentage = round2(float64(g.overseas) / float64(total) * 100)
	}
	return o
}

func (a *Aggregator) monthlyStats(months []string, tallies map[string]*monthTally) []MonthlyStats {
	out := make([]MonthlyStats, 0, len(months))
	for _, ym := range months {
		t := tallies[ym]
		out = append(out, MonthlyStats{
			YearMonth:     ym,
			TotalPostings: len(t.postings),
			ByCity:        t.city.toMap(),
			ByTechStack:   t.tech.toMap(),
			ByCategory:    t.category.toMap(),
			ByCompanyType: t.companyType.toMap(),
			RemoteCount:   t.remote,
			OverseasCount: t.overseas,
		})
	}
	return out
}

func (a *Aggregator) cityStats(months []string, tallies map[string]*monthTally, g globalCounts) CityStats {
	rankings := g.city.sorted()

	trends := make(map[string][]MonthCount, topCityTrends)
	for i, entry := range rankings {
		if i >= topCityTrends {
			break
		}
		trends[entry.Name] = denseSeries(months, func(ym string) int {
			return tallies[ym].city.get(entry.Name)
		})
	}

	return CityStats{Rankings: rankings, Trends: trends}
}

func (a *Aggregator) techStats(months []string, tallies map[string]*monthTally, g globalCounts) TechStats {
	// 长尾抑制：低于阈值的技术保留在原始计数里，但不进入发布榜单
	all := g.tech.sorted()
	rankings := make([]RankEntry, 0, len(all))
	for _, entry := range all {
		if entry.Count >= techMinCount {
			rankings = append(rankings, entry)
		}
	}

	trends := make(map[string][]MonthCount, topTechTrends)
	for i, entry := range rankings {
		if i >= topTechTrends {
			break
		}
		trends[entry.Name] = denseSeries(months, func(ym string) int {
			return tallies[ym].tech.get(entry.Name)
		})
	}

	tables := a.norm.Tables()
	byCategory := make(map[string][]RankEntry)
	for _, entry := range rankings {
		cat := tables.TechCategoryOf(entry.Name)
		byCategory[cat] = append(byCategory[cat], entry)
	}

	return TechStats{Rankings: rankings, Trends: trends, ByCategory: byCategory}
}

func (a *Aggregator) companyStats(g globalCounts) CompanyStats {
	tables := a.norm.Tables()
	distribution := make([]SalaryBucket, 0, len(tables.SalaryBands))
	for _, band := range tables.SalaryBands {
		if count := g.salaryBand.get(band.Label); count > 0 {
			distribution = append(distribution, SalaryBucket{Range: band.Label, Count: count})
		}
	}

	return CompanyStats{
		Rankings:           g.company.sorted(),
		ByType:             g.companyType.toMap(),
		SalaryDistribution: distribution,
		SalaryValidSamples: g.salaryValid,
	}
}

func (a *Aggregator) trendStats(months []string, tallies map[string]*monthTally, g globalCounts) TrendStats {
	posting := denseSeries(months, func(ym string) int {
		return len(tallies[ym].postings)
	})

	// 分类趋势只保留全局计数达到阈值的分类
	categoryTrend := make(map[string][]MonthCount)
	for _, key := range g.category.order {
		if g.category.get(key) < categoryMinCount {
			continue
		}
		name := key
		categoryTrend[name] = denseSeries(months, func(ym string) int {
			return tallies[ym].category.get(name)
		})
	}

	remote := make([]MonthRate, 0, len(months))
	overseas := make([]MonthRate, 0, len(months))
	for _, ym := range months {
		t := tallies[ym]
		total := len(t.postings)
		remote = append(remote, MonthRate{YearMonth: ym, Count: t.remote, Percentage: ratePercent(t.remote, total)})
		overseas = append(overseas, MonthRate{YearMonth: ym, Count: t.overseas, Percentage: ratePercent(t.overseas, total)})
	}

	// 经验与学历是固定枚举：每个桶都有序列，必要时全零
	tables := a.norm.Tables()
	experienceTrend := make(map[string][]MonthCount, len(tables.ExperienceBuckets))
	for _, bucket := range tables.ExperienceBuckets {
		name := bucket
		experienceTrend[name] = denseSeries(months, func(ym string) int {
			return tallies[ym].experience.get(name)
		})
	}
	educationTrend := make(map[string][]MonthCount, len(tables.EducationBuckets))
	for _, bucket := range tables.EducationBuckets {
		name := bucket
		educationTrend[name] = denseSeries(months, func(ym string) int {
			return tallies[ym].education.get(name)
		})
	}

	return TrendStats{
		PostingTrend:    posting,
		CategoryTrend:   categoryTrend,
		RemoteTrend:     remote,
		OverseasTrend:   overseas,
		ExperienceTrend: experienceTrend,
		EducationTrend:  educationTrend,
	}
}

// denseSeries 在完整月份区间上生成稠密序列，缺数补零。
func denseSeries(months []string, count func(string) int) []MonthCount {
	out := make([]MonthCount, 0, len(months))
	for _, ym := range months {
		out = append(out, MonthCount{YearMonth: ym, Count: count(ym)})
	}
	return out
}

func ratePercent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(count) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
