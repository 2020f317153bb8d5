package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"hiring-insight/internal/api"
	"hiring-insight/internal/config"
	"hiring-insight/internal/dict"
	"hiring-insight/internal/fetcher"
	"hiring-insight/internal/ingest"
	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
	"hiring-insight/internal/notifier"
	"hiring-insight/internal/output"
	"hiring-insight/internal/parser"
	"hiring-insight/internal/pipeline"
	"hiring-insight/internal/stats"
	"hiring-insight/internal/storage"
	"hiring-insight/internal/subscription"
)

// pipelineRunner 抽象流水线入口，便于测试替换。
type pipelineRunner interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (pipeline.Summary, error)
	Fetch(ctx context.Context) (pipeline.Summary, error)
	Parse(ctx context.Context) (pipeline.Summary, error)
}

type postingSource interface {
	ListAllPostings(ctx context.Context) ([]model.JobPosting, error)
}

type appDeps struct {
	pipe     pipelineRunner
	postings postingSource
	agg      *stats.Aggregator
	writer   *output.Writer
	handler  http.Handler
	addr     string
}

type depsBuilder func(config.AppConfig, zerolog.Logger) (appDeps, func(), error)

// buildApp 按配置装配全部依赖。返回的清理函数负责关闭存储。
func buildApp(cfg config.AppConfig, logger zerolog.Logger) (appDeps, func(), error) {
	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return appDeps{}, nil, err
	}

	modelName := cfg.Parser.Model
	if modelName == "" {
		modelName = "zhipu:glm-4-flash"
	}
	llm, err := parser.ResolveClient(modelName, nil)
	if err != nil {
		_ = store.Close()
		return appDeps{}, nil, err
	}

	fetch := fetcher.NewGitHubFetcher(cfg.Fetcher, nil, logger)
	parse := parser.New(cfg.Parser, llm, logger)
	norm := normalize.New(dict.Default())
	agg := stats.New(norm)
	writer := output.NewWriter(cfg.Stats.Dir, logger)
	notif := buildNotifier(cfg, store, logger)

	pipe := pipeline.New(fetch, store, parse, agg, writer, notif, cfg.Pipeline, logger)
	subs := subscription.NewService(store, norm, cfg.Subscription)
	handler := api.NewHandler(cfg.Stats.Dir, store, pipe, subs)

	deps := appDeps{
		pipe:     pipe,
		postings: store,
		agg:      agg,
		writer:   writer,
		handler:  handler,
		addr:     cfg.Server.Addr,
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭存储失败")
		}
	}
	return deps, cleanup, nil
}

// buildNotifier 在邮件配置完整时走订阅通知，否则只打日志。
func buildNotifier(cfg config.AppConfig, store *storage.Store, logger zerolog.Logger) pipeline.Notifier {
	fallback := notifier.NewLogNotifier(logger)
	if cfg.Email.Host == "" || cfg.Email.Port == 0 || cfg.Email.From == "" {
		logger.Info().Msg("邮件通知未配置，新增职位仅记录日志")
		return fallback
	}
	sender := notifier.NewSMTPClient(cfg.Email)
	return notifier.NewSubscriptionNotifier(store, cfg.Email, sender, fallback)
}

// runOnceManual 手动执行一轮完整流水线。
func runOnceManual(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger, build depsBuilder) (pipeline.Summary, error) {
	deps, cleanup, err := build(cfg, logger)
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer cleanup()
	return deps.pipe.RunOnce(ctx)
}

// runAggregate 重算统计文档。fromDir 非空时改从解析产物目录装载，
// 便于在没有数据库的环境下离线重建。
func runAggregate(ctx context.Context, deps appDeps, fromDir string, logger zerolog.Logger) (int, error) {
	var (
		postings []model.JobPosting
		err      error
	)
	if fromDir != "" {
		postings, err = ingest.NewLoader(fromDir, logger).Load()
	} else {
		postings, err = deps.postings.ListAllPostings(ctx)
	}
	if err != nil {
		return 0, err
	}
	result := deps.agg.Aggregate(postings)
	if err := deps.writer.Write(result); err != nil {
		return 0, err
	}
	return len(postings), nil
}
