package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIConfig 定义 OpenAI 兼容接口的配置。
type OpenAIConfig struct {
	APIBase   string `yaml:"api_base" json:"api_base"`
	APIKey    string `yaml:"-" json:"-"`
	Model     string `yaml:"model" json:"model"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// OpenAIClient 实现 LLMClient，走 chat/completions 协议。
// 智谱与 DeepSeek 的接口与 OpenAI 兼容，共用同一个客户端。
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAIClient 创建客户端。
func NewOpenAIClient(cfg OpenAIConfig, httpClient *http.Client) *OpenAIClient {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8192
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &OpenAIClient{cfg: cfg, client: httpClient}
}

// ResolveClient 按 "provider:model" 选择接入点，API Key 从环境变量读取。
// 支持 zhipu、deepseek、openai 三个 provider。
func ResolveClient(modelStr string, httpClient *http.Client) (*OpenAIClient, error) {
	provider, modelName, ok := strings.Cut(modelStr, ":")
	if !ok {
		return nil, fmt.Errorf("invalid model format %q, expected provider:model", modelStr)
	}

	cfg := OpenAIConfig{Model: modelName}
	switch provider {
	case "zhipu":
		cfg.APIBase = "https://open.bigmodel.cn/api/paas/v4"
		cfg.APIKey = os.Getenv("ZHIPU_API_KEY")
	case "deepseek":
		cfg.APIBase = "https://api.deepseek.com/v1"
		cfg.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	case "openai":
		cfg.APIBase = "https://api.openai.com/v1"
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		return nil, fmt.Errorf("unsupported provider %q, expected zhipu, deepseek or openai", provider)
	}
	return NewOpenAIClient(cfg, httpClient), nil
}

// Complete 单轮对话补全。
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", fmt.Errorf("api key missing for %s", c.cfg.APIBase)
	}

	payload := chatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.APIBase, "/")+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat http %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(body.Choices) == 0 || body.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response empty")
	}
	return strings.TrimSpace(body.Choices[0].Message.Content), nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
