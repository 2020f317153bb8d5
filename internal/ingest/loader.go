// Package ingest 负责把解析产物目录里的 JSON 文件装载为内存中的职位集合。
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"hiring-insight/internal/model"
)

// Loader 从磁盘装载解析结果。
type Loader struct {
	dir    string
	logger zerolog.Logger
}

// NewLoader 创建装载器，dir 为解析产物目录。
func NewLoader(dir string, logger zerolog.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load 读取目录下的全部 issue 文件并合并职位记录。
// 文件按名字排序读取，保证合并顺序稳定。目录不存在视为空数据集。
// 单个文件损坏只记日志跳过，不中断整体装载。
func (l *Loader) Load() ([]model.JobPosting, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn().Str("dir", l.dir).Msg("解析产物目录不存在，视为空数据集")
			return []model.JobPosting{}, nil
		}
		return nil, fmt.Errorf("读取解析产物目录失败: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	postings := []model.JobPosting{}
	for _, name := range names {
		path := filepath.Join(l.dir, name)
		issue, err := readIssueFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", name).Msg("解析产物文件损坏，跳过")
			continue
		}
		postings = append(postings, issue.Postings...)
	}

	l.logger.Info().Int("files", len(names)).Int("postings", len(postings)).Msg("解析产物装载完成")
	return postings, nil
}

func readIssueFile(path string) (model.ParsedIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ParsedIssue{}, fmt.Errorf("读取文件失败: %w", err)
	}
	var issue model.ParsedIssue
	if err := json.Unmarshal(data, &issue); err != nil {
		return model.ParsedIssue{}, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	return issue, nil
}
