package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"hiring-insight/internal/model"
)

// commentsQuery 一次取 100 条评论。REST 评论接口不返回折叠标记，
// 只能走 GraphQL。
const commentsQuery = `query($owner: String!, $name: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    issue(number: $number) {
      comments(first: 100, after: $cursor) {
        totalCount
        pageInfo { hasNextPage endCursor }
        nodes {
          databaseId
          author { login }
          body
          bodyHTML
          createdAt
          isMinimized
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Repository struct {
			Issue *struct {
				Comments struct {
					TotalCount int `json:"totalCount"`
					PageInfo   struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []commentNode `json:"nodes"`
				} `json:"comments"`
			} `json:"issue"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type commentNode struct {
	DatabaseID int64 `json:"databaseId"`
	Author     *struct {
		Login string `json:"login"`
	} `json:"author"`
	Body        string    `json:"body"`
	BodyHTML    string    `json:"bodyHTML"`
	CreatedAt   time.Time `json:"createdAt"`
	IsMinimized bool      `json:"isMinimized"`
}

// FetchComments 分页拉取一期 Issue 的全部评论。
func (g *GitHubFetcher) FetchComments(ctx context.Context, issueNumber int) ([]model.Comment, error) {
	comments := make([]model.Comment, 0)
	cursor := ""

	for {
		resp, err := g.commentsPage(ctx, issueNumber, cursor)
		if err != nil {
			return nil, err
		}
		issue := resp.Data.Repository.Issue
		if issue == nil {
			return nil, fmt.Errorf("issue %d not found", issueNumber)
		}

		for _, node := range issue.Comments.Nodes {
			if node.DatabaseID == 0 {
				continue
			}
			author := ""
			if node.Author != nil {
				author = node.Author.Login
			}
			comments = append(comments, model.Comment{
				ID:          node.DatabaseID,
				IssueNumber: issueNumber,
				Author:      author,
				Body:        node.Body,
				BodyText:    htmlToText(node.BodyHTML),
				CommentedAt: node.CreatedAt,
				Minimized:   node.IsMinimized,
			})
		}

		if !issue.Comments.PageInfo.HasNextPage {
			break
		}
		cursor = issue.Comments.PageInfo.EndCursor
	}

	g.logger.Info().Int("issue", issueNumber).Int("comments", len(comments)).Msg("评论抓取完成")
	return comments, nil
}

func (g *GitHubFetcher) commentsPage(ctx context.Context, issueNumber int, cursor string) (*graphqlResponse, error) {
	vars := map[string]any{
		"owner":  repoOwner,
		"name":   repoName,
		"number": issueNumber,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	payload, err := json.Marshal(graphqlRequest{Query: commentsQuery, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	body, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GraphQLURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphql comments issue %d: %w", issueNumber, err)
	}

	var resp graphqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
	}
	return &resp, nil
}

// htmlToText 把评论的渲染 HTML 压平为纯文本，供提示词使用。
// 块级元素换行，其余标签只留文本。
func htmlToText(htmlText string) string {
	if htmlText == "" {
		return ""
	}
	node, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return htmlText
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4":
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	lines := strings.Split(sb.String(), "\n")
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			clean = append(clean, line)
		}
	}
	return strings.Join(clean, "\n")
}
