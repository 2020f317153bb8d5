package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryNegotiableRe = regexp.MustCompile(`(?i)面议|议|暂无|不限|competitive`)
	// 「15k-25k」「15-25k」：只有上界必须带 k，下界的单位可省略
	salaryUpperKRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k?\s*[-~至到]\s*(\d+(?:\.\d+)?)\s*k`)
	// 「15k-25」：下界带 k，上界可省略
	salaryLowerKRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k\s*[-~至到]\s*(\d+(?:\.\d+)?)\s*k?`)
	// 「20-40万/年」「20万-40万」：万为单位，带「年」时折算为月薪
	salaryWanRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*万?\s*[-~至到]\s*(\d+(?:\.\d+)?)\s*万`)
	// 「25k」单值
	salarySingleKRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k`)
)

// SalaryMonthlyK 把异构薪资文本解析为月薪千元区间 [min, max]。
// 面议等非数值标记返回 false；任何模式都不匹配时同样返回 false，
// 这是预期内的静默丢弃，不算错误。
func (n *Normalizer) SalaryMonthlyK(raw string) (minK, maxK float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || salaryNegotiableRe.MatchString(s) {
		return 0, 0, false
	}

	if m := salaryUpperKRe.FindStringSubmatch(s); m != nil {
		return parsePair(m[1], m[2])
	}
	if m := salaryLowerKRe.FindStringSubmatch(s); m != nil {
		return parsePair(m[1], m[2])
	}
	if m := salaryWanRe.FindStringSubmatch(s); m != nil {
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		divisor := 1.0
		if strings.Contains(s, "年") {
			divisor = 12
		}
		return math.Round(low * 10 / divisor), math.Round(high * 10 / divisor), true
	}
	if m := salarySingleKRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, v, true
		}
	}

	return 0, 0, false
}

// SalaryBand 返回区间平均值所属的固定分档标签。
func (n *Normalizer) SalaryBand(minK, maxK float64) string {
	return n.tables.SalaryBandOf(minK, maxK)
}

func parsePair(low, high string) (float64, float64, bool) {
	l, err1 := strconv.ParseFloat(low, 64)
	h, err2 := strconv.ParseFloat(high, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return l, h, true
}
