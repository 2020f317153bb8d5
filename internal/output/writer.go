// Package output 负责把聚合结果落盘为面板消费的静态 JSON 文档。
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"hiring-insight/internal/stats"
)

// 六份视图的文件名固定，前端按名字直接取数。
const (
	OverviewFile = "overview.json"
	MonthlyFile  = "monthly-stats.json"
	CityFile     = "city-stats.json"
	TechFile     = "tech-stats.json"
	CompanyFile  = "company-stats.json"
	TrendFile    = "trend-stats.json"
)

// Writer 把聚合结果写入目标目录。
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter 创建写盘器，dir 为输出目录，不存在时自动创建。
func NewWriter(dir string, logger zerolog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write 把六份视图各写成一个文件。任一文件写失败即返回错误。
// 序列化采用两空格缩进，保证同一结果两次写盘字节一致。
func (w *Writer) Write(result stats.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	docs := []struct {
		name string
		data any
	}{
		{OverviewFile, result.Overview},
		{MonthlyFile, result.Monthly},
		{CityFile, result.City},
		{TechFile, result.Tech},
		{CompanyFile, result.Company},
		{TrendFile, result.Trend},
	}

	for _, doc := range docs {
		if err := w.writeDoc(doc.name, doc.data); err != nil {
			return err
		}
	}

	w.logger.Info().
		Str("dir", w.dir).
		Int("totalPostings", result.Overview.TotalPostings).
		Int("totalMonths", result.Overview.TotalMonths).
		Msg("统计文档写盘完成")
	return nil
}

func (w *Writer) writeDoc(name string, data any) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", name, err)
	}
	return nil
}
