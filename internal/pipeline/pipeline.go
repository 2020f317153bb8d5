// Package pipeline 串联抓取、解析、聚合与写盘，并按计划周期运行。
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hiring-insight/internal/model"
	"hiring-insight/internal/output"
	"hiring-insight/internal/parser"
	"hiring-insight/internal/stats"
	"hiring-insight/internal/storage"
)

// Config 定义流水线配置。Interval 支持 time.Duration 或 5 段 cron 表达式。
type Config struct {
	Interval  string `yaml:"interval" json:"interval"`
	Timeout   string `yaml:"timeout" json:"timeout"`
	ParsedDir string `yaml:"parsed_dir" json:"parsed_dir"`
}

// Fetcher 抽象 GitHub 抓取，便于测试替换。
type Fetcher interface {
	DiscoverIssues(ctx context.Context) ([]model.Issue, error)
	FetchComments(ctx context.Context, issueNumber int) ([]model.Comment, error)
}

// Store 抽象存储接口。
type Store interface {
	UpsertIssues(ctx context.Context, issues []model.Issue) error
	GetIssue(ctx context.Context, number int) (*model.Issue, error)
	ListIssues(ctx context.Context) ([]model.Issue, error)
	UpsertComments(ctx context.Context, comments []model.Comment) (storage.CommentUpsertResult, error)
	ListPendingComments(ctx context.Context, issueNumber int) ([]model.Comment, error)
	UpdateCommentStatus(ctx context.Context, id int64, status model.CommentStatus, reason string) error
	UpsertPostings(ctx context.Context, postings []model.JobPosting) (storage.PostingUpsertResult, error)
	ListPostingsByIssue(ctx context.Context, issueNumber int) ([]model.JobPosting, error)
	ListSkippedComments(ctx context.Context, issueNumber int) ([]model.Comment, error)
	ListFailedComments(ctx context.Context, issueNumber int) ([]model.Comment, error)
	ListAllPostings(ctx context.Context) ([]model.JobPosting, error)
}

// CommentParser 抽象 LLM 解析。
type CommentParser interface {
	ParseIssue(ctx context.Context, issue model.Issue, comments []model.Comment) (parser.IssueResult, error)
}

// Notifier 接收新增的招聘记录。
type Notifier interface {
	Notify(ctx context.Context, postings []model.JobPosting) error
}

// Summary 单次运行的结果摘要。
type Summary struct {
	Issues        int
	NewComments   int
	Parsed        int
	Skipped       int
	Failed        int
	NewPostings   []model.JobPosting
	TotalPostings int
}

// Pipeline 按 抓取 → 解析 → 聚合 → 写盘 → 通知 的顺序执行一轮。
type Pipeline struct {
	fetcher    Fetcher
	store      Store
	parser     CommentParser
	aggregator *stats.Aggregator
	writer     *output.Writer
	notif      Notifier
	parsedDir  string
	interval   time.Duration
	cron       *cronSchedule
	timeout    time.Duration
	running    atomic.Bool
	newTicker  func(time.Duration) ticker
	now        func() time.Time
	logger     zerolog.Logger
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// New 创建 Pipeline。
func New(f Fetcher, s Store, p CommentParser, agg *stats.Aggregator, w *output.Writer, n Notifier, cfg Config, logger zerolog.Logger) *Pipeline {
	interval, cronCfg := parseSchedule(cfg.Interval)
	timeout := 30 * time.Minute
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}
	parsedDir := cfg.ParsedDir
	if parsedDir == "" {
		parsedDir = "data/parsed"
	}

	return &Pipeline{
		fetcher:    f,
		store:      s,
		parser:     p,
		aggregator: agg,
		writer:     w,
		notif:      n,
		parsedDir:  parsedDir,
		interval:   interval,
		cron:       cronCfg.schedule,
		timeout:    timeout,
		newTicker:  defaultTicker,
		now:        time.Now,
		logger:     logger,
	}
}

// Start 启动调度循环，直到上下文取消。
func (p *Pipeline) Start(ctx context.Context) error {
	if p.fetcher == nil || p.store == nil || p.parser == nil {
		return fmt.Errorf("pipeline missing dependencies")
	}

	g, ctx := errgroup.WithContext(ctx)

	if p.cron != nil {
		g.Go(func() error {
			return p.startCron(ctx)
		})
	} else {
		tick := p.newTicker(p.interval)
		ch := tick.C()

		g.Go(func() error {
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ch:
					if _, err := p.runOnce(ctx); err != nil {
						return err
					}
				drain:
					for {
						select {
						case <-ch:
							continue
						default:
							break drain
						}
					}
				}
			}
		})
	}

	return g.Wait()
}

// RunOnce 对外暴露单次执行接口，便于手动刷新。
func (p *Pipeline) RunOnce(ctx context.Context) (Summary, error) {
	return p.runOnce(ctx)
}

func (p *Pipeline) runOnce(ctx context.Context) (Summary, error) {
	if p.running.Swap(true) {
		return Summary{}, nil
	}
	defer p.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	summary := Summary{}

	issues, err := p.fetcher.DiscoverIssues(ctx)
	if err != nil {
		return summary, fmt.Errorf("discover issues: %w", err)
	}
	summary.Issues = len(issues)

	for _, issue := range issues {
		if err := p.syncIssue(ctx, issue, &summary); err != nil {
			return summary, err
		}
	}

	postings, err := p.store.ListAllPostings(ctx)
	if err != nil {
		return summary, fmt.Errorf("list all postings: %w", err)
	}
	summary.TotalPostings = len(postings)

	result := p.aggregator.Aggregate(postings)
	if err := p.writer.Write(result); err != nil {
		return summary, fmt.Errorf("write stats: %w", err)
	}

	if p.notif != nil && len(summary.NewPostings) > 0 {
		if err := p.notif.Notify(ctx, summary.NewPostings); err != nil {
			return summary, fmt.Errorf("notify: %w", err)
		}
	}

	return summary, nil
}

// syncIssue 同步一期：评论总数没变就不重拉评论，只重试此前失败的解析。
func (p *Pipeline) syncIssue(ctx context.Context, issue model.Issue, summary *Summary) error {
	if err := p.fetchIssue(ctx, issue, summary); err != nil {
		return err
	}
	if err := p.parsePending(ctx, issue, summary); err != nil {
		return err
	}
	return p.exportIssue(ctx, issue)
}

func (p *Pipeline) fetchIssue(ctx context.Context, issue model.Issue, summary *Summary) error {
	existing, err := p.store.GetIssue(ctx, issue.Number)
	unchanged := err == nil && existing.TotalCommentCount == issue.TotalCommentCount

	if err := p.store.UpsertIssues(ctx, []model.Issue{issue}); err != nil {
		return fmt.Errorf("upsert issue %d: %w", issue.Number, err)
	}

	if unchanged {
		p.logger.Debug().Int("issue", issue.Number).Msg("评论总数未变，跳过抓取")
		return nil
	}

	comments, err := p.fetcher.FetchComments(ctx, issue.Number)
	if err != nil {
		return fmt.Errorf("fetch comments issue %d: %w", issue.Number, err)
	}
	res, err := p.store.UpsertComments(ctx, comments)
	if err != nil {
		return fmt.Errorf("upsert comments issue %d: %w", issue.Number, err)
	}
	summary.NewComments += res.Created
	return nil
}

func (p *Pipeline) parsePending(ctx context.Context, issue model.Issue, summary *Summary) error {
	pending, err := p.store.ListPendingComments(ctx, issue.Number)
	if err != nil {
		return fmt.Errorf("list pending issue %d: %w", issue.Number, err)
	}
	if len(pending) == 0 {
		return nil
	}
	result, err := p.parser.ParseIssue(ctx, issue, pending)
	if err != nil {
		return fmt.Errorf("parse issue %d: %w", issue.Number, err)
	}
	if err := p.persistParseResult(ctx, result, summary); err != nil {
		return fmt.Errorf("persist parse result issue %d: %w", issue.Number, err)
	}
	return nil
}

// Fetch 只执行期次发现与评论抓取，不触发 LLM 解析。
func (p *Pipeline) Fetch(ctx context.Context) (Summary, error) {
	if p.running.Swap(true) {
		return Summary{}, nil
	}
	defer p.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	summary := Summary{}
	issues, err := p.fetcher.DiscoverIssues(ctx)
	if err != nil {
		return summary, fmt.Errorf("discover issues: %w", err)
	}
	summary.Issues = len(issues)
	for _, issue := range issues {
		if err := p.fetchIssue(ctx, issue, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// Parse 只解析库里待处理的评论并导出期次文件，不访问 GitHub。
func (p *Pipeline) Parse(ctx context.Context) (Summary, error) {
	if p.running.Swap(true) {
		return Summary{}, nil
	}
	defer p.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	summary := Summary{}
	issues, err := p.store.ListIssues(ctx)
	if err != nil {
		return summary, fmt.Errorf("list issues: %w", err)
	}
	summary.Issues = len(issues)
	for _, issue := range issues {
		if err := p.parsePending(ctx, issue, &summary); err != nil {
			return summary, err
		}
		if err := p.exportIssue(ctx, issue); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (p *Pipeline) persistParseResult(ctx context.Context, result parser.IssueResult, summary *Summary) error {
	res, err := p.store.UpsertPostings(ctx, result.Postings)
	if err != nil {
		return fmt.Errorf("upsert postings: %w", err)
	}
	summary.NewPostings = append(summary.NewPostings, res.NewPostings...)

	for _, posting := range result.Postings {
		if err := p.store.UpdateCommentStatus(ctx, posting.CommentID, model.CommentStatusParsed, ""); err != nil {
			return err
		}
	}
	for _, skipped := range result.Skipped {
		if err := p.store.UpdateCommentStatus(ctx, skipped.CommentID, model.CommentStatusSkipped, skipped.Reason); err != nil {
			return err
		}
	}
	for _, failed := range result.Failed {
		if err := p.store.UpdateCommentStatus(ctx, failed.CommentID, model.CommentStatusFailed, failed.Error); err != nil {
			return err
		}
	}

	summary.Parsed += len(result.Postings)
	summary.Skipped += len(result.Skipped)
	summary.Failed += len(result.Failed)
	return nil
}

// exportIssue 把一期的解析状态导出为 JSON 文件，供增量装载与排查。
func (p *Pipeline) exportIssue(ctx context.Context, issue model.Issue) error {
	postings, err := p.store.ListPostingsByIssue(ctx, issue.Number)
	if err != nil {
		return fmt.Errorf("list postings: %w", err)
	}
	skippedComments, err := p.store.ListSkippedComments(ctx, issue.Number)
	if err != nil {
		return fmt.Errorf("list skipped: %w", err)
	}
	failedComments, err := p.store.ListFailedComments(ctx, issue.Number)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	skipped := make([]model.SkippedComment, 0, len(skippedComments))
	for _, c := range skippedComments {
		skipped = append(skipped, model.SkippedComment{CommentID: c.ID, Author: c.Author, Reason: c.Reason})
	}
	failed := make([]model.CommentError, 0, len(failedComments))
	for _, c := range failedComments {
		failed = append(failed, model.CommentError{CommentID: c.ID, Error: c.Reason})
	}

	doc := parser.BuildParsedIssue(issue, postings, skipped, failed)
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal parsed issue: %w", err)
	}

	if err := os.MkdirAll(p.parsedDir, 0o755); err != nil {
		return fmt.Errorf("create parsed dir: %w", err)
	}
	path := filepath.Join(p.parsedDir, fmt.Sprintf("%d.json", issue.Number))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write parsed issue: %w", err)
	}
	return nil
}

func (p *Pipeline) startCron(ctx context.Context) error {
	if p.cron == nil {
		return fmt.Errorf("cron schedule missing")
	}

	for {
		next, err := p.cron.next(p.now())
		if err != nil {
			return fmt.Errorf("compute next cron time: %w", err)
		}
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if _, err := p.runOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }
