package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestExtractYearMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  string
	}{
		{"谁在招人？（2024年5月）", "2024-05"},
		{"谁在招人？（2023 年 12 月）", "2023-12"},
		{"谁在招人？（2024年13月）", ""},
		{"周刊第 300 期", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractYearMonth(tc.title); got != tc.want {
			t.Fatalf("ExtractYearMonth(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func newTestFetcher(rt http.RoundTripper) *GitHubFetcher {
	return &GitHubFetcher{
		cfg: Config{
			BaseURL:     "http://example.com",
			GraphQLURL:  "http://example.com/graphql",
			SearchQuery: "谁在招人",
			MaxRetries:  2,
		},
		baseDelay: time.Millisecond,
		client:    &http.Client{Transport: rt},
		now:       func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) },
		sleep:     func(time.Duration) {},
		logger:    zerolog.Nop(),
	}
}

func TestDiscoverIssuesFollowsHistoryLinks(t *testing.T) {
	t.Parallel()

	query := url.QueryEscape("repo:ruanyf/weekly in:title 谁在招人")
	search := "http://example.com/search/issues?q=" + query + "&per_page=100&page=1"

	searchBody := `{
		"total_count": 2,
		"items": [
			{"number": 100, "title": "谁在招人？（2024年5月）", "body": "往期：https://github.com/ruanyf/weekly/issues/50", "comments": 120},
			{"number": 90, "title": "谁在招人？（2024年4月）", "body": "", "comments": 80}
		]
	}`
	detailBody := `{"number": 50, "title": "谁在招人？（2023年10月）", "body": "", "comments": 60}`

	hits := &atomic.Int32{}
	rt := newStubRoundTripper(map[string]string{
		search: searchBody,
		"http://example.com/repos/ruanyf/weekly/issues/50": detailBody,
	}, hits)

	issues, err := newTestFetcher(rt).DiscoverIssues(context.Background())
	if err != nil {
		t.Fatalf("DiscoverIssues error: %v", err)
	}

	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	// ascending by number
	if issues[0].Number != 50 || issues[1].Number != 90 || issues[2].Number != 100 {
		t.Fatalf("unexpected issue order: %d, %d, %d", issues[0].Number, issues[1].Number, issues[2].Number)
	}
	if issues[0].YearMonth != "2023-10" {
		t.Fatalf("expected backfilled issue year month 2023-10, got %s", issues[0].YearMonth)
	}
	if issues[2].TotalCommentCount != 120 {
		t.Fatalf("expected comment count 120, got %d", issues[2].TotalCommentCount)
	}
}

func TestDiscoverIssuesSkipsTitlesWithoutYearMonth(t *testing.T) {
	t.Parallel()

	query := url.QueryEscape("repo:ruanyf/weekly in:title 谁在招人")
	search := "http://example.com/search/issues?q=" + query + "&per_page=100&page=1"

	searchBody := `{
		"total_count": 2,
		"items": [
			{"number": 100, "title": "谁在招人？（2024年5月）", "body": "", "comments": 10},
			{"number": 99, "title": "谁在招人（测试帖）", "body": "", "comments": 5}
		]
	}`

	hits := &atomic.Int32{}
	rt := newStubRoundTripper(map[string]string{search: searchBody}, hits)

	issues, err := newTestFetcher(rt).DiscoverIssues(context.Background())
	if err != nil {
		t.Fatalf("DiscoverIssues error: %v", err)
	}
	if len(issues) != 1 || issues[0].Number != 100 {
		t.Fatalf("expected only issue 100, got %+v", issues)
	}
}

func TestFetchCommentsPaginates(t *testing.T) {
	t.Parallel()

	page1 := `{"data":{"repository":{"issue":{"comments":{
		"totalCount": 3,
		"pageInfo": {"hasNextPage": true, "endCursor": "CUR1"},
		"nodes": [
			{"databaseId": 11, "author": {"login": "alice"}, "body": "招前端", "bodyHTML": "<p>招前端</p>", "createdAt": "2024-05-01T10:00:00Z", "isMinimized": false},
			{"databaseId": 12, "author": null, "body": "已删除", "bodyHTML": "", "createdAt": "2024-05-01T11:00:00Z", "isMinimized": true}
		]
	}}}}}`
	page2 := `{"data":{"repository":{"issue":{"comments":{
		"totalCount": 3,
		"pageInfo": {"hasNextPage": false, "endCursor": ""},
		"nodes": [
			{"databaseId": 13, "author": {"login": "bob"}, "body": "求职", "bodyHTML": "<p>求职</p>", "createdAt": "2024-05-02T10:00:00Z", "isMinimized": false}
		]
	}}}}}`

	rt := newSequenceRoundTripper(page1, page2)
	comments, err := newTestFetcher(rt).FetchComments(context.Background(), 100)
	if err != nil {
		t.Fatalf("FetchComments error: %v", err)
	}

	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].ID != 11 || comments[0].Author != "alice" {
		t.Fatalf("unexpected first comment: %+v", comments[0])
	}
	if comments[0].BodyText != "招前端" {
		t.Fatalf("expected plain text body, got %q", comments[0].BodyText)
	}
	if !comments[1].Minimized || comments[1].Author != "" {
		t.Fatalf("expected minimized authorless comment, got %+v", comments[1])
	}
	if comments[2].ID != 13 {
		t.Fatalf("expected second page comment 13, got %d", comments[2].ID)
	}
	if rt.calls.Load() != 2 {
		t.Fatalf("expected 2 graphql calls, got %d", rt.calls.Load())
	}
}

func TestRetryOnServerError(t *testing.T) {
	t.Parallel()

	rt := &flakyRoundTripper{
		failures: 1,
		body:     `{"total_count": 0, "items": []}`,
	}
	issues, err := newTestFetcher(rt).DiscoverIssues(context.Background())
	if err != nil {
		t.Fatalf("DiscoverIssues error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected 0 issues, got %d", len(issues))
	}
	if rt.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", rt.calls)
	}
}

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	got := htmlToText(`<p>公司：甲公司</p><ul><li>前端 <b>React</b></li><li>后端 Go</li></ul>`)
	want := "公司：甲公司\n前端 React\n后端 Go"
	if got != want {
		t.Fatalf("htmlToText = %q, want %q", got, want)
	}
}

type stubRoundTripper struct {
	responses map[string]string
	hits      *atomic.Int32
	mu        sync.Mutex
}

func newStubRoundTripper(responses map[string]string, hits *atomic.Int32) *stubRoundTripper {
	return &stubRoundTripper{responses: responses, hits: hits}
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.hits.Add(1)
	body, ok := s.responses[req.URL.String()]
	s.mu.Unlock()
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("not found")),
			Header:     make(http.Header),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

type sequenceRoundTripper struct {
	responses []string
	calls     atomic.Int32
}

func newSequenceRoundTripper(responses ...string) *sequenceRoundTripper {
	return &sequenceRoundTripper{responses: responses}
}

func (s *sequenceRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	idx := int(s.calls.Add(1)) - 1
	if idx >= len(s.responses) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("no more responses")),
			Header:     make(http.Header),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(s.responses[idx])),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

type flakyRoundTripper struct {
	failures int
	body     string
	calls    int
}

func (f *flakyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader("boom")),
			Header:     make(http.Header),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}
