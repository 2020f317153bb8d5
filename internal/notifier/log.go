// Package notifier 在流水线产生新招聘记录时向外推送摘要。
package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"hiring-insight/internal/model"
)

// LogNotifier 仅打印新增记录，适合开发阶段使用。
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier 创建日志通知器。
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify 逐条打印新增招聘记录。
func (n LogNotifier) Notify(ctx context.Context, postings []model.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}
	for _, p := range postings {
		n.logger.Info().
			Str("id", p.ID).
			Str("yearMonth", p.YearMonth).
			Str("company", p.Company).
			Strs("location", p.Location).
			Msg("新增招聘记录")
	}
	return nil
}
