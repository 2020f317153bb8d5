// Package parser 调用大模型把原始评论解析为结构化招聘记录。
// 解析本身不碰存储，输入评论、输出三类结果，由流水线负责落库。
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hiring-insight/internal/model"
)

// Config 描述解析配置。Model 为 "provider:model" 形式。
type Config struct {
	Model       string `yaml:"model" json:"model"`
	BatchSize   int    `yaml:"batch_size" json:"batch_size"`
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
	MaxRetries  int    `yaml:"max_retries" json:"max_retries"`
	// BaseDelay 为重试基础间隔，如 "500ms"，解析失败用默认值。
	BaseDelay   string `yaml:"base_delay" json:"base_delay"`
	IssueAuthor string `yaml:"issue_author" json:"issue_author"`
}

// LLMClient 抽象大模型调用，便于测试注入。
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// IssueResult 一期评论的解析结果。
type IssueResult struct {
	Postings []model.JobPosting
	Skipped  []model.SkippedComment
	Failed   []model.CommentError
}

// Parser 组合 LLM 与批量调度实现解析。
type Parser struct {
	cfg       Config
	baseDelay time.Duration
	llm       LLMClient
	validate  *validator.Validate
	sleep     func(time.Duration)
	logger    zerolog.Logger
}

// New 创建 Parser。
func New(cfg Config, llm LLMClient, logger zerolog.Logger) *Parser {
	if cfg.Model == "" {
		cfg.Model = "zhipu:glm-4-flash"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	baseDelay, err := time.ParseDuration(cfg.BaseDelay)
	if err != nil || baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if cfg.IssueAuthor == "" {
		cfg.IssueAuthor = "ruanyf"
	}
	return &Parser{
		cfg:       cfg,
		baseDelay: baseDelay,
		llm:       llm,
		validate:  validator.New(),
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// llmResult 对应模型的单条输出。hiring 之外的类型只有 reason。
type llmResult struct {
	Type          string           `json:"type" validate:"required"`
	Reason        string           `json:"reason"`
	Company       string           `json:"company" validate:"required_if=Type hiring"`
	CompanyType   string           `json:"companyType"`
	Positions     []model.Position `json:"positions"`
	Location      []string         `json:"location"`
	IsRemote      bool             `json:"isRemote"`
	IsOverseas    bool             `json:"isOverseas"`
	SalaryRange   string           `json:"salaryRange"`
	TechStack     []string         `json:"techStack"`
	ExperienceReq string           `json:"experienceReq"`
	EducationReq  string           `json:"educationReq"`
	Contact       string           `json:"contact"`
}

// ParseIssue 解析一期的待处理评论。Issue 作者的评论是每月汇总帖，
// 直接按 other 跳过，不消耗模型调用。
func (p *Parser) ParseIssue(ctx context.Context, issue model.Issue, comments []model.Comment) (IssueResult, error) {
	result := IssueResult{}

	pending := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Author == p.cfg.IssueAuthor {
			result.Skipped = append(result.Skipped, model.SkippedComment{
				CommentID: c.ID,
				Author:    c.Author,
				Reason:    "[other] Issue 作者汇总帖，跳过",
			})
			continue
		}
		pending = append(pending, c)
	}
	if len(pending) == 0 {
		p.logger.Info().Int("issue", issue.Number).Msg("无待解析评论")
		return result, nil
	}

	batches := make([][]model.Comment, 0, (len(pending)+p.cfg.BatchSize-1)/p.cfg.BatchSize)
	for i := 0; i < len(pending); i += p.cfg.BatchSize {
		end := i + p.cfg.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batches = append(batches, pending[i:end])
	}

	p.logger.Info().
		Int("issue", issue.Number).
		Str("yearMonth", issue.YearMonth).
		Int("comments", len(pending)).
		Int("batches", len(batches)).
		Msg("开始解析")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			results, err := p.parseBatch(gctx, batch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// 整批失败记为 failed，下一轮运行自动重试
				p.logger.Error().Err(err).Int("issue", issue.Number).Int("batch_size", len(batch)).Msg("批次解析失败")
				for _, c := range batch {
					result.Failed = append(result.Failed, model.CommentError{CommentID: c.ID, Error: err.Error()})
				}
				return nil
			}
			p.collect(issue, batch, results, &result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	p.logger.Info().
		Int("issue", issue.Number).
		Int("postings", len(result.Postings)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("解析完成")
	return result, nil
}

func (p *Parser) collect(issue model.Issue, batch []model.Comment, results []llmResult, out *IssueResult) {
	for i, c := range batch {
		r := results[i]
		switch r.Type {
		case "hiring":
			if err := p.validate.Struct(r); err != nil {
				out.Failed = append(out.Failed, model.CommentError{
					CommentID: c.ID,
					Error:     fmt.Sprintf("招聘帖缺少必需字段: %v", err),
				})
				continue
			}
			out.Postings = append(out.Postings, model.JobPosting{
				ID:            fmt.Sprintf("%d-%d", issue.Number, c.ID),
				IssueNumber:   issue.Number,
				CommentID:     c.ID,
				YearMonth:     issue.YearMonth,
				Author:        c.Author,
				RawContent:    c.Body,
				Company:       r.Company,
				CompanyType:   r.CompanyType,
				Positions:     r.Positions,
				Location:      r.Location,
				IsRemote:      r.IsRemote,
				IsOverseas:    r.IsOverseas,
				SalaryRange:   r.SalaryRange,
				TechStack:     r.TechStack,
				ExperienceReq: r.ExperienceReq,
				EducationReq:  r.EducationReq,
				Contact:       r.Contact,
			})
		case "job_seeking", "other":
			out.Skipped = append(out.Skipped, model.SkippedComment{
				CommentID: c.ID,
				Author:    c.Author,
				Reason:    fmt.Sprintf("[%s] %s", r.Type, r.Reason),
			})
		default:
			// 模型偶尔发明新类型，按 other 处理而不是中断
			out.Skipped = append(out.Skipped, model.SkippedComment{
				CommentID: c.ID,
				Author:    c.Author,
				Reason:    fmt.Sprintf("[other] 未知类型 %q", r.Type),
			})
		}
	}
}

// parseBatch 调模型解析一批评论。JSON 损坏与长度不符视为可重试错误。
func (p *Parser) parseBatch(ctx context.Context, batch []model.Comment) ([]llmResult, error) {
	prompt := buildBatchPrompt(batch)

	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.baseDelay * time.Duration(1<<(attempt-1))
			p.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("批次重试")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			p.sleep(delay)
		}

		text, err := p.llm.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			lastErr = fmt.Errorf("llm complete: %w", err)
			continue
		}

		results, err := decodeResults(text, len(batch))
		if err != nil {
			lastErr = err
			continue
		}
		return results, nil
	}
	return nil, fmt.Errorf("batch failed after %d attempts: %w", p.cfg.MaxRetries, lastErr)
}

func decodeResults(text string, want int) ([]llmResult, error) {
	cleaned := stripCodeFence(text)

	var results []llmResult
	if err := json.Unmarshal([]byte(cleaned), &results); err != nil {
		// 单条评论时模型常返回裸对象而非数组
		var single llmResult
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, fmt.Errorf("parse llm response: %w", err)
		}
		results = []llmResult{single}
	}

	if len(results) != want {
		return nil, fmt.Errorf("期望返回 %d 个结果，实际返回 %d", want, len(results))
	}
	return results, nil
}

// BuildParsedIssue 组装一期的导出文档。集合字段保持非 nil，
// 方便前端与增量装载直接消费。
func BuildParsedIssue(issue model.Issue, postings []model.JobPosting, skipped []model.SkippedComment, failed []model.CommentError) model.ParsedIssue {
	if postings == nil {
		postings = []model.JobPosting{}
	}
	if skipped == nil {
		skipped = []model.SkippedComment{}
	}
	if failed == nil {
		failed = []model.CommentError{}
	}
	return model.ParsedIssue{
		IssueNumber: issue.Number,
		YearMonth:   issue.YearMonth,
		Postings:    postings,
		Skipped:     skipped,
		Errors:      failed,
	}
}
