package normalize

import (
	"strings"

	"hiring-insight/internal/dict"
)

// maxCityDepth 限制省份剥离等递归规则的深度，防止构造输入导致
// 无限递归。超过深度直接走兜底规则。
const maxCityDepth = 3

// City 把一个原始地点串展开为零到多个标准城市名。
// 规则按优先级依次尝试：无效值、多城连写、斜杠拆分、远程标记、
// 标准城市前缀、城区子串、省份前缀（剩余部分递归）、通用「市」后缀、
// 海外别名，最后原样保留。对已是标准名的输入保持幂等。
func (n *Normalizer) City(raw string) []string {
	return n.city(raw, 0)
}

func (n *Normalizer) city(raw string, depth int) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if _, ok := n.tables.InvalidLocations[trimmed]; ok {
		return nil
	}
	if _, ok := n.tables.InvalidLocations[strings.ToLower(trimmed)]; ok {
		return nil
	}

	if cities, ok := n.tables.MultiCity[trimmed]; ok {
		out := make([]string, len(cities))
		copy(out, cities)
		return out
	}

	// 「北京/上海」这类并列写法拆开递归，但整体表示远程时不拆
	if strings.Contains(trimmed, "/") && !n.isRemote(trimmed) && depth < maxCityDepth {
		var out []string
		for _, part := range strings.Split(trimmed, "/") {
			out = append(out, n.city(part, depth+1)...)
		}
		return out
	}

	if n.isRemote(trimmed) {
		return []string{dict.RemoteCity}
	}

	for _, city := range n.tables.CanonicalCities {
		if strings.HasPrefix(trimmed, city) {
			return []string{city}
		}
	}

	for _, entry := range n.tables.Districts {
		for _, district := range entry.Districts {
			if strings.Contains(trimmed, district) {
				return []string{entry.City}
			}
		}
	}

	for _, pc := range n.tables.ProvinceCapitals {
		if !strings.HasPrefix(trimmed, pc.Province) {
			continue
		}
		rest := strings.TrimPrefix(trimmed, pc.Province)
		rest = strings.TrimPrefix(rest, "省")
		rest = strings.TrimSpace(rest)
		if rest != "" && depth < maxCityDepth {
			// 「广东深圳」里剩余部分本身可能是城市
			return n.city(rest, depth+1)
		}
		return []string{pc.Capital}
	}

	if name, ok := strings.CutSuffix(trimmed, "市"); ok && name != "" && len([]rune(name)) <= 4 {
		return []string{name}
	}

	if city, ok := n.tables.OverseasCities[strings.ToLower(trimmed)]; ok {
		return []string{city}
	}

	return []string{trimmed}
}

func (n *Normalizer) isRemote(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range n.tables.RemoteMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
