// 命令行入口：抓取、解析、聚合既可单独执行，也可通过 serve
// 常驻运行并对外提供 HTTP 接口。
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hiring-insight/internal/config"
	"hiring-insight/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "insight",
		Short:         "聚合 ruanyf/weekly「谁在招人」评论的招聘数据",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径，默认 config.yaml")

	root.AddCommand(
		newFetchCmd(&cfgPath),
		newParseCmd(&cfgPath),
		newAggregateCmd(&cfgPath),
		newRunCmd(&cfgPath),
		newServeCmd(&cfgPath),
	)
	return root
}

func setup(cfgPath string) (config.AppConfig, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.AppConfig{}, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg.Log.Level), nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func newFetchCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "发现「谁在招人」期次并抓取评论",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			deps, cleanup, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			summary, err := deps.pipe.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().
				Int("issues", summary.Issues).
				Int("newComments", summary.NewComments).
				Msg("抓取完成")
			return nil
		},
	}
}

func newParseCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "用大模型解析库里待处理的评论",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			deps, cleanup, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			summary, err := deps.pipe.Parse(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().
				Int("parsed", summary.Parsed).
				Int("skipped", summary.Skipped).
				Int("failed", summary.Failed).
				Msg("解析完成")
			return nil
		},
	}
}

func newAggregateCmd(cfgPath *string) *cobra.Command {
	var fromDir string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "重算六份统计 JSON 文档",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			deps, cleanup, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			total, err := runAggregate(cmd.Context(), deps, fromDir, logger)
			if err != nil {
				return err
			}
			logger.Info().Int("postings", total).Msg("聚合完成")
			return nil
		},
	}
	cmd.Flags().StringVar(&fromDir, "from-files", "", "改从该目录的解析产物装载，不读数据库")
	return cmd
}

func newRunCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "执行一轮完整流水线：抓取、解析、聚合、通知",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			summary, err := runOnceManual(cmd.Context(), cfg, logger, buildApp)
			if err != nil {
				return err
			}
			logSummary(logger, summary)
			return nil
		},
	}
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "常驻运行：后台定时流水线加 HTTP 接口",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			deps, cleanup, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: deps.addr, Handler: deps.handler}
			logger.Info().Str("addr", deps.addr).Msg("服务启动")
			return runServer(ctx, srv, deps.pipe, 5*time.Second)
		},
	}
}

func logSummary(logger zerolog.Logger, summary pipeline.Summary) {
	logger.Info().
		Int("issues", summary.Issues).
		Int("newComments", summary.NewComments).
		Int("parsed", summary.Parsed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("newPostings", len(summary.NewPostings)).
		Int("totalPostings", summary.TotalPostings).
		Msg("本轮流水线完成")
}
