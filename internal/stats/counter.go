package stats

import "sort"

// counter 记录出现次数并保留键的首次出现顺序，
// 使排序在同分时有确定的先后，两次聚合产出逐字节一致。
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int {
	return c.counts[key]
}

func (c *counter) len() int {
	return len(c.order)
}

// sorted 按计数降序返回全部条目，同分时保持发现顺序。
func (c *counter) sorted() []RankEntry {
	entries := make([]RankEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, RankEntry{Name: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func (c *counter) top(n int) []RankEntry {
	entries := c.sorted()
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func (c *counter) toMap() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
