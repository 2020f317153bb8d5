package normalize

import "strings"

// 学历分桶常量，与 dict.Tables.EducationBuckets 一致。
const (
	EduUnrestricted = "不限"
	EduAssociate    = "大专及以上"
	EduBachelor     = "本科及以上"
	EduMaster       = "硕士及以上"
	EduDoctorate    = "博士"
	EduOther        = "其他"
)

// Education 把学历要求文本归入固定分桶，按关键词优先级匹配：
// 不限 > 博士 > 硕士 > 本科（含名校门槛词，视为至少本科）> 大专。
func (n *Normalizer) Education(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EduOther
	}

	if strings.Contains(s, "不限") || strings.Contains(s, "无要求") {
		return EduUnrestricted
	}
	if strings.Contains(s, "博士") {
		return EduDoctorate
	}
	if strings.Contains(s, "硕士") || strings.Contains(s, "研究生") {
		return EduMaster
	}
	if strings.Contains(s, "本科") || strings.Contains(s, "学士") ||
		strings.Contains(s, "985") || strings.Contains(s, "211") ||
		strings.Contains(s, "双一流") {
		return EduBachelor
	}
	if strings.Contains(s, "大专") || strings.Contains(s, "专科") || strings.Contains(s, "高职") {
		return EduAssociate
	}

	return EduOther
}
