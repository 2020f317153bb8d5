package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// 经验分桶常量，与 dict.Tables.ExperienceBuckets 一致。
const (
	ExpUnrestricted = "不限"
	ExpNewGrad      = "应届/实习"
	Exp1to3         = "1-3年"
	Exp3to5         = "3-5年"
	Exp5to10        = "5-10年"
	Exp10Plus       = "10年以上"
	ExpOther        = "其他"
)

var (
	expRangeRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-~至到]\s*(\d+(?:\.\d+)?)\s*年`)
	expSingleRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*年`)
	expGradeRe  = regexp.MustCompile(`(?i)[pPtTlL](\d+)`)
)

// Experience 把经验要求文本归入固定分桶。规则顺序敏感：
// 不限 > 应届实习 > 数字区间（取中点）> 单边界（保守取低档）>
// 职级代号 > 泛指资深 > 其他。任何无法识别的输入都落入「其他」。
func (n *Normalizer) Experience(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ExpOther
	}

	if strings.Contains(s, "不限") || strings.Contains(s, "无要求") || strings.Contains(s, "无经验要求") {
		return ExpUnrestricted
	}
	if strings.Contains(s, "应届") || strings.Contains(s, "实习") ||
		strings.Contains(s, "校招") || strings.Contains(s, "在校") {
		return ExpNewGrad
	}

	if m := expRangeRe.FindStringSubmatch(s); m != nil {
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return bucketYears((low + high) / 2)
		}
	}

	if m := expSingleRe.FindStringSubmatch(s); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			return bucketYears(years)
		}
	}

	// 职级代号按大致年限映射：P5/P6 约 3-5 年，P7/P8 约 5-10 年
	if m := expGradeRe.FindStringSubmatch(s); m != nil {
		if grade, err := strconv.Atoi(m[1]); err == nil {
			switch {
			case grade >= 9:
				return Exp10Plus
			case grade >= 7:
				return Exp5to10
			case grade >= 5:
				return Exp3to5
			default:
				return Exp1to3
			}
		}
	}

	if strings.Contains(s, "资深") || strings.Contains(s, "经验丰富") || strings.Contains(s, "有经验") {
		return Exp3to5
	}

	return ExpOther
}

// bucketYears 按年限落桶，档位左闭右开，边界值归入以它为下界的档。
func bucketYears(years float64) string {
	switch {
	case years >= 10:
		return Exp10Plus
	case years >= 5:
		return Exp5to10
	case years >= 3:
		return Exp3to5
	case years >= 1:
		return Exp1to3
	default:
		return ExpNewGrad
	}
}
