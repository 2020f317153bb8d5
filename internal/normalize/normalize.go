// Package normalize 提供把 LLM 提取的自由文本字段收敛为标准值的纯函数。
// 所有函数对空值、超长值、乱值都只降级、不报错：无法识别的输入
// 要么原样保留，要么落入「其他」类兜底，要么显式丢弃。
package normalize

import (
	"strings"
	"unicode/utf8"

	"hiring-insight/internal/dict"
)

// Normalizer 持有注入的字典，自身无状态，可并发使用。
type Normalizer struct {
	tables dict.Tables
}

// New 创建 Normalizer。
func New(tables dict.Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// Tables 暴露底层字典，供聚合引擎做分类归组。
func (n *Normalizer) Tables() dict.Tables {
	return n.tables
}

// Tech 把原始技术栈词条收敛为标准名。返回 false 表示该词条是噪音
// （岗位名、软技能、超长描述句），应整体排除。未收录但像技术名的
// 词条原样保留，避免丢数据。
func (n *Normalizer) Tech(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if utf8.RuneCountInString(trimmed) > n.tables.TechMaxRunes {
		// 过长的词条是描述句而不是标签
		return "", false
	}
	if _, ok := n.tables.TechNoise[trimmed]; ok {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	if _, ok := n.tables.TechNoise[lower]; ok {
		return "", false
	}
	if canonical, ok := n.tables.TechSynonyms[lower]; ok {
		return canonical, true
	}
	return trimmed, true
}

// Category 把岗位分类收敛到封闭分类集。返回 false 表示非技术岗，
// 整体排除；未映射的非空值落入兜底分类，保持总量守恒。
func (n *Normalizer) Category(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, canonical := range n.tables.CategoryCanonical {
		if trimmed == canonical {
			return canonical, true
		}
	}
	if mapping, ok := n.tables.CategorySynonyms[strings.ToLower(trimmed)]; ok {
		if mapping.Exclude {
			return "", false
		}
		return mapping.Name, true
	}
	return n.tables.CategoryFallback, true
}
