// Package fetcher 从 GitHub 抓取「谁在招人」系列 Issue 及其评论。
// 数据源是 ruanyf/weekly 仓库：通过搜索接口发现各期 Issue，再用
// GraphQL 分页拉取评论（REST 不携带折叠标记）。
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hiring-insight/internal/model"
)

const (
	repoOwner = "ruanyf"
	repoName  = "weekly"
)

// Config 定义抓取配置。
type Config struct {
	BaseURL     string `yaml:"base_url" json:"base_url"`
	GraphQLURL  string `yaml:"graphql_url" json:"graphql_url"`
	Token       string `yaml:"-" json:"-"`
	SearchQuery string `yaml:"search_query" json:"search_query"`
	MaxRetries  int    `yaml:"max_retries" json:"max_retries"`
	// BaseDelay 为重试基础间隔，如 "2s"，解析失败用默认值。
	BaseDelay string `yaml:"base_delay" json:"base_delay"`
}

// IssueFetcher 抓取统一接口。
type IssueFetcher interface {
	DiscoverIssues(ctx context.Context) ([]model.Issue, error)
	FetchComments(ctx context.Context, issueNumber int) ([]model.Comment, error)
}

// GitHubFetcher 基于 GitHub API 的抓取器。
type GitHubFetcher struct {
	cfg       Config
	baseDelay time.Duration
	client    *http.Client
	now       func() time.Time
	sleep     func(time.Duration)
	logger    zerolog.Logger
}

// NewGitHubFetcher 创建抓取器。token 为空时走匿名配额。
func NewGitHubFetcher(cfg Config, client *http.Client, logger zerolog.Logger) *GitHubFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = "https://api.github.com/graphql"
	}
	if cfg.SearchQuery == "" {
		cfg.SearchQuery = "谁在招人"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	baseDelay, err := time.ParseDuration(cfg.BaseDelay)
	if err != nil || baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &GitHubFetcher{
		cfg:       cfg,
		baseDelay: baseDelay,
		client:    client,
		now:       time.Now,
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// yearMonthRe 从 Issue 标题提取「2024 年 5 月」形式的年月。
var yearMonthRe = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月`)

// ExtractYearMonth 把标题里的中文年月归一为 "YYYY-MM"。找不到返回空串。
func ExtractYearMonth(title string) string {
	m := yearMonthRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// historyLinkRe 匹配 Issue 正文里往期链接中的期号。
var historyLinkRe = regexp.MustCompile(`github\.com/` + repoOwner + `/` + repoName + `/issues/(\d+)`)

// DiscoverIssues 发现全部「谁在招人」期次：先搜索标题，再顺着正文里的
// 往期链接补全搜索漏掉的旧期。返回结果按期号升序。
func (g *GitHubFetcher) DiscoverIssues(ctx context.Context) ([]model.Issue, error) {
	found := make(map[int]model.Issue)

	if err := g.searchIssues(ctx, found); err != nil {
		return nil, err
	}

	// 正文往期链接里出现、但搜索没返回的期号，单独补抓详情
	missing := make([]int, 0)
	for _, issue := range found {
		for _, m := range historyLinkRe.FindAllStringSubmatch(issue.Body, -1) {
			number, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if _, ok := found[number]; !ok {
				missing = append(missing, number)
			}
		}
	}
	sort.Ints(missing)
	for _, number := range missing {
		if _, ok := found[number]; ok {
			continue
		}
		issue, err := g.fetchIssueDetail(ctx, number)
		if err != nil {
			g.logger.Warn().Err(err).Int("issue", number).Msg("补抓往期详情失败，跳过")
			continue
		}
		// 链接可能指向无关 Issue，标题解析不出年月的一律丢弃
		if issue.YearMonth == "" {
			continue
		}
		found[number] = issue
	}

	issues := make([]model.Issue, 0, len(found))
	for _, issue := range found {
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Number < issues[j].Number })

	g.logger.Info().Int("issues", len(issues)).Msg("期次发现完成")
	return issues, nil
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []issueEntry `json:"items"`
}

type issueEntry struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Comments int    `json:"comments"`
}

func (g *GitHubFetcher) searchIssues(ctx context.Context, found map[int]model.Issue) error {
	query := fmt.Sprintf("repo:%s/%s in:title %s", repoOwner, repoName, g.cfg.SearchQuery)
	seen := 0
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/search/issues?q=%s&per_page=100&page=%d",
			g.cfg.BaseURL, url.QueryEscape(query), page)

		var resp searchResponse
		if err := g.getJSON(ctx, endpoint, &resp); err != nil {
			return fmt.Errorf("search issues page %d: %w", page, err)
		}
		seen += len(resp.Items)
		for _, item := range resp.Items {
			// 标题解析不出年月的多半是同名闲帖，不当作期次
			ym := ExtractYearMonth(item.Title)
			if ym == "" {
				continue
			}
			found[item.Number] = g.toIssue(item, ym)
		}
		if seen >= resp.TotalCount || len(resp.Items) == 0 {
			return nil
		}
	}
}

func (g *GitHubFetcher) fetchIssueDetail(ctx context.Context, number int) (model.Issue, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d", g.cfg.BaseURL, repoOwner, repoName, number)
	var item issueEntry
	if err := g.getJSON(ctx, endpoint, &item); err != nil {
		return model.Issue{}, fmt.Errorf("get issue %d: %w", number, err)
	}
	return g.toIssue(item, ExtractYearMonth(item.Title)), nil
}

func (g *GitHubFetcher) toIssue(item issueEntry, yearMonth string) model.Issue {
	return model.Issue{
		Number:            item.Number,
		Title:             item.Title,
		YearMonth:         yearMonth,
		Body:              item.Body,
		TotalCommentCount: item.Comments,
		FetchedAt:         g.now(),
	}
}

// getJSON 发送带认证与重试的 GET 请求并解码 JSON 响应。
func (g *GitHubFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// doWithRetry 执行请求。403/429 读速率限制头等到窗口重置，5xx 按指数退避，
// 其余状态视为永久失败。
func (g *GitHubFetcher) doWithRetry(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay * time.Duration(1<<(attempt-1))
			g.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("请求重试")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			g.sleep(delay)
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if g.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http get: %w", err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("read body: %w", readErr)
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			if wait := g.rateLimitWait(resp); wait > 0 {
				g.logger.Warn().Dur("wait", wait).Msg("触发速率限制，等待窗口重置")
				g.sleep(wait)
			}
			lastErr = fmt.Errorf("rate limited: status %d", resp.StatusCode)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
		default:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", g.cfg.MaxRetries, lastErr)
}

// rateLimitWait 根据 X-RateLimit-Reset 计算需要等待的时长，上限五分钟。
func (g *GitHubFetcher) rateLimitWait(resp *http.Response) time.Duration {
	reset := resp.Header.Get("X-RateLimit-Reset")
	if reset == "" {
		return 0
	}
	epoch, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return 0
	}
	wait := time.Unix(epoch, 0).Sub(g.now()) + time.Second
	if wait <= 0 {
		return 0
	}
	if wait > 5*time.Minute {
		wait = 5 * time.Minute
	}
	return wait
}
