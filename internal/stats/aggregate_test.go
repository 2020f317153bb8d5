package stats

import (
	"bytes"
	"encoding/json"
	"testing"

	"hiring-insight/internal/dict"
	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
)

func newTestAggregator() *Aggregator {
	return New(normalize.New(dict.Default()))
}

func samplePostings() []model.JobPosting {
	return []model.JobPosting{
		{
			ID:        "100-1",
			YearMonth: "2024-05",
			Company:   "甲公司",
			Positions: []model.Position{{Title: "前端工程师", Category: "前端"}},
			Location:  []string{"北京"},
			TechStack: []string{"react"},
		},
		{
			ID:          "100-2",
			YearMonth:   "2024-05",
			Company:     "乙公司",
			Positions:   []model.Position{{Title: "全栈工程师", Category: "全栈"}},
			Location:    []string{"远程"},
			IsRemote:    true,
			TechStack:   []string{"React", "Vue"},
			SalaryRange: "20k-35k",
		},
		{
			ID:        "101-1",
			YearMonth: "2024-06",
			Company:   "甲公司",
			Positions: []model.Position{{Title: "前端工程师", Category: "前端"}},
			Location:  []string{"上海"},
			TechStack: []string{"Vue"},
		},
	}
}

func TestAggregateOverview(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	o := r.Overview
	if o.TotalPostings != 3 {
		t.Fatalf("totalPostings = %d, 期望 3", o.TotalPostings)
	}
	if o.TotalMonths != 2 {
		t.Fatalf("totalMonths = %d, 期望 2", o.TotalMonths)
	}
	if o.DateRange.Start != "2024-05" || o.DateRange.End != "2024-06" {
		t.Fatalf("dateRange = %+v", o.DateRange)
	}
	if o.RemotePercentage != 33.33 {
		t.Fatalf("remotePercentage = %v, 期望 33.33", o.RemotePercentage)
	}
	if o.OverseasPercentage != 0 {
		t.Fatalf("overseasPercentage = %v, 期望 0", o.OverseasPercentage)
	}
	if len(o.TopCompanies) == 0 || o.TopCompanies[0].Name != "甲公司" || o.TopCompanies[0].Count != 2 {
		t.Fatalf("topCompanies = %+v", o.TopCompanies)
	}
	// 概览榜单不做阈值过滤，低频技术也会出现
	if len(o.TopTechStack) != 2 {
		t.Fatalf("topTechStack = %+v", o.TopTechStack)
	}
}

func TestAggregateMonthly(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	if len(r.Monthly) != 2 {
		t.Fatalf("monthly 条数 = %d", len(r.Monthly))
	}
	may := r.Monthly[0]
	if may.YearMonth != "2024-05" || may.TotalPostings != 2 {
		t.Fatalf("五月桶 = %+v", may)
	}
	if may.ByCity["北京"] != 1 || may.ByCity[dict.RemoteCity] != 1 {
		t.Fatalf("byCity = %v", may.ByCity)
	}
	if may.ByTechStack["React"] != 2 || may.ByTechStack["Vue"] != 1 {
		t.Fatalf("byTechStack = %v", may.ByTechStack)
	}
	if may.RemoteCount != 1 {
		t.Fatalf("remoteCount = %d", may.RemoteCount)
	}
	jun := r.Monthly[1]
	if jun.YearMonth != "2024-06" || jun.TotalPostings != 1 {
		t.Fatalf("六月桶 = %+v", jun)
	}
}

func TestAggregateTechThreshold(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	// React 与 Vue 全局各 2 次，低于阈值，不进入榜单及衍生视图
	if len(r.Tech.Rankings) != 0 {
		t.Fatalf("tech rankings = %+v, 期望为空", r.Tech.Rankings)
	}
	if len(r.Tech.Trends) != 0 {
		t.Fatalf("tech trends = %+v, 期望为空", r.Tech.Trends)
	}
	if len(r.Tech.ByCategory) != 0 {
		t.Fatalf("tech byCategory = %+v, 期望为空", r.Tech.ByCategory)
	}
	// 月度原始计数不受阈值影响
	if r.Monthly[0].ByTechStack["React"] != 2 {
		t.Fatalf("月度原始计数被阈值误伤: %v", r.Monthly[0].ByTechStack)
	}
}

func TestAggregateTechSurvivesThreshold(t *testing.T) {
	t.Parallel()

	var postings []model.JobPosting
	for i := 0; i < 3; i++ {
		postings = append(postings, model.JobPosting{
			YearMonth: "2024-05",
			TechStack: []string{"Go"},
		})
	}
	postings = append(postings, model.JobPosting{
		YearMonth: "2024-06",
		TechStack: []string{"Zig"},
	})

	r := newTestAggregator().Aggregate(postings)

	if len(r.Tech.Rankings) != 1 || r.Tech.Rankings[0].Name != "Go" || r.Tech.Rankings[0].Count != 3 {
		t.Fatalf("rankings = %+v", r.Tech.Rankings)
	}
	trend, ok := r.Tech.Trends["Go"]
	if !ok {
		t.Fatalf("缺少 Go 的趋势序列")
	}
	// 稠密序列：没出现的月份补零
	want := []MonthCount{{YearMonth: "2024-05", Count: 3}, {YearMonth: "2024-06", Count: 0}}
	if len(trend) != 2 || trend[0] != want[0] || trend[1] != want[1] {
		t.Fatalf("trend = %+v", trend)
	}
	entries, ok := r.Tech.ByCategory["后端"]
	if !ok || len(entries) != 1 || entries[0].Name != "Go" {
		t.Fatalf("byCategory = %+v", r.Tech.ByCategory)
	}
}

func TestAggregateCityTrendsDense(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	trend, ok := r.City.Trends["北京"]
	if !ok {
		t.Fatalf("缺少北京的趋势序列")
	}
	if len(trend) != 2 || trend[0].Count != 1 || trend[1].Count != 0 {
		t.Fatalf("北京趋势 = %+v", trend)
	}
	if len(r.City.Rankings) != 3 {
		t.Fatalf("city rankings = %+v", r.City.Rankings)
	}
}

func TestAggregateCompanyStats(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	c := r.Company
	if c.SalaryValidSamples != 1 {
		t.Fatalf("salaryValidSamples = %d", c.SalaryValidSamples)
	}
	// 20k-35k 均值 27.5 落在 25k-30k 档
	if len(c.SalaryDistribution) != 1 || c.SalaryDistribution[0].Range != "25k-30k" {
		t.Fatalf("salaryDistribution = %+v", c.SalaryDistribution)
	}
	if len(c.Rankings) != 2 || c.Rankings[0].Name != "甲公司" {
		t.Fatalf("company rankings = %+v", c.Rankings)
	}
}

func TestAggregateTrendFixedBuckets(t *testing.T) {
	t.Parallel()

	postings := []model.JobPosting{
		{YearMonth: "2024-05", ExperienceReq: "3-5年", EducationReq: "本科"},
		{YearMonth: "2024-06"},
	}
	r := newTestAggregator().Aggregate(postings)

	tables := dict.Default()
	if len(r.Trend.ExperienceTrend) != len(tables.ExperienceBuckets) {
		t.Fatalf("经验趋势桶数 = %d, 期望 %d", len(r.Trend.ExperienceTrend), len(tables.ExperienceBuckets))
	}
	if len(r.Trend.EducationTrend) != len(tables.EducationBuckets) {
		t.Fatalf("学历趋势桶数 = %d, 期望 %d", len(r.Trend.EducationTrend), len(tables.EducationBuckets))
	}
	series := r.Trend.ExperienceTrend["3-5年"]
	if len(series) != 2 || series[0].Count != 1 || series[1].Count != 0 {
		t.Fatalf("3-5年序列 = %+v", series)
	}
	// 空字段不计入任何桶
	zero := r.Trend.EducationTrend["博士"]
	if zero[0].Count != 0 || zero[1].Count != 0 {
		t.Fatalf("博士序列 = %+v", zero)
	}
}

func TestAggregateRemoteTrendRates(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(samplePostings())

	if len(r.Trend.RemoteTrend) != 2 {
		t.Fatalf("remoteTrend = %+v", r.Trend.RemoteTrend)
	}
	may := r.Trend.RemoteTrend[0]
	if may.Count != 1 || may.Percentage != 50 {
		t.Fatalf("五月远程占比 = %+v", may)
	}
	jun := r.Trend.RemoteTrend[1]
	if jun.Count != 0 || jun.Percentage != 0 {
		t.Fatalf("六月远程占比 = %+v", jun)
	}
}

func TestAggregateCategoryTrendThreshold(t *testing.T) {
	t.Parallel()

	var postings []model.JobPosting
	for i := 0; i < 5; i++ {
		postings = append(postings, model.JobPosting{
			YearMonth: "2024-05",
			Positions: []model.Position{{Category: "后端"}},
		})
	}
	postings = append(postings, model.JobPosting{
		YearMonth: "2024-05",
		Positions: []model.Position{{Category: "测试"}},
	})

	r := newTestAggregator().Aggregate(postings)

	if _, ok := r.Trend.CategoryTrend["后端"]; !ok {
		t.Fatalf("后端达到阈值却缺席: %+v", r.Trend.CategoryTrend)
	}
	if _, ok := r.Trend.CategoryTrend["测试"]; ok {
		t.Fatalf("测试未达阈值却出现: %+v", r.Trend.CategoryTrend)
	}
}

func TestAggregateUnknownMonthSortsLast(t *testing.T) {
	t.Parallel()

	postings := []model.JobPosting{
		{YearMonth: ""},
		{YearMonth: "2024-05"},
	}
	r := newTestAggregator().Aggregate(postings)

	if len(r.Monthly) != 2 {
		t.Fatalf("monthly 条数 = %d", len(r.Monthly))
	}
	if r.Monthly[0].YearMonth != "2024-05" || r.Monthly[1].YearMonth != "unknown" {
		t.Fatalf("月份顺序 = %s, %s", r.Monthly[0].YearMonth, r.Monthly[1].YearMonth)
	}
	if r.Overview.DateRange.End != "unknown" {
		t.Fatalf("dateRange = %+v", r.Overview.DateRange)
	}
}

func TestAggregateRepeatedRawValuesCountEach(t *testing.T) {
	t.Parallel()

	postings := []model.JobPosting{
		{
			YearMonth: "2024-05",
			TechStack: []string{"react", "React", "reactjs"},
		},
	}
	r := newTestAggregator().Aggregate(postings)

	// 同一条记录里的同义重复各计一次
	if r.Monthly[0].ByTechStack["React"] != 3 {
		t.Fatalf("byTechStack = %v, 期望 React 计 3", r.Monthly[0].ByTechStack)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	t.Parallel()

	r := newTestAggregator().Aggregate(nil)

	if r.Overview.TotalPostings != 0 || r.Overview.TotalMonths != 0 {
		t.Fatalf("overview = %+v", r.Overview)
	}
	if r.Monthly == nil || len(r.Monthly) != 0 {
		t.Fatalf("monthly 应为非 nil 空切片")
	}
	if r.City.Rankings == nil || r.City.Trends == nil {
		t.Fatalf("city 模板存在 nil 集合")
	}
	if r.Tech.Rankings == nil || r.Tech.Trends == nil || r.Tech.ByCategory == nil {
		t.Fatalf("tech 模板存在 nil 集合")
	}
	if r.Company.Rankings == nil || r.Company.ByType == nil || r.Company.SalaryDistribution == nil {
		t.Fatalf("company 模板存在 nil 集合")
	}
	if r.Trend.PostingTrend == nil || r.Trend.RemoteTrend == nil || r.Trend.OverseasTrend == nil {
		t.Fatalf("trend 模板存在 nil 集合")
	}
}

func TestAggregateConservation(t *testing.T) {
	t.Parallel()

	postings := samplePostings()
	r := newTestAggregator().Aggregate(postings)

	sum := 0
	for _, m := range r.Monthly {
		sum += m.TotalPostings
	}
	if sum != len(postings) {
		t.Fatalf("月度总和 %d != 输入条数 %d", sum, len(postings))
	}
	for _, mc := range r.Trend.PostingTrend {
		if mc.Count < 0 {
			t.Fatalf("负计数: %+v", mc)
		}
	}
}

func TestAggregateDeterministic(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator()
	postings := samplePostings()

	first, err := json.Marshal(agg.Aggregate(postings))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(agg.Aggregate(postings))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("同一输入两次聚合产出不一致")
	}
}
