package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// GrokClient 实现 xAI API 调用（与 OpenAI chat-completions 兼容）
type GrokClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// GrokConfig 配置结构
type GrokConfig struct {
	APIKey  string
	BaseURL string // 默认 "https://api.x.ai/v1"
	Model   string // 默认 "grok-1"
	Timeout time.Duration
	Proxy   string // HTTP 代理
}

type grokRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type grokResponse struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Usage   Usage     `json:"usage"`
	Error   *APIError `json:"error,omitempty"`
}

// NewGrokClient 创建新的 Grok 客户端
func NewGrokClient(cfg GrokConfig) (*GrokClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.ai/v1"
	}

	if cfg.Model == "" {
		cfg.Model = "grok-1"
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient, err := internal.CreateProxyHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP客户端失败: %w", err)
	}

	return &GrokClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: httpClient,
	}, nil
}

// SendPrompt 发送 prompt 到 xAI API 并返回响应内容
func (c *GrokClient) SendPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := grokRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(c.Name(), KindUnreachable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(c.Name(), KindUnreachable, fmt.Errorf("failed to read response: %w", err))
	}

	var apiResp grokResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if apiResp.Error != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("xAI API error: %s (type: %s, code: %s)",
			apiResp.Error.Message, apiResp.Error.Type, apiResp.Error.Code))
	}

	if resp.StatusCode != http.StatusOK {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	if len(apiResp.Choices) == 0 {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("no choices in response"))
	}

	return apiResp.Choices[0].Message.Content, nil
}

// Analyze 安全分析（实现 ai.Provider 接口）
func (c *GrokClient) Analyze(ctx context.Context, sourceCode, focus string) (*internal.ProviderResult, error) {
	return analyzeContract(ctx, c, sourceCode, focus)
}

// Optimize 优化建议
func (c *GrokClient) Optimize(ctx context.Context, sourceCode string) (*internal.ProviderResult, error) {
	return optimizeContract(ctx, c, sourceCode)
}

// ValidateDeployment 部署验证
func (c *GrokClient) ValidateDeployment(ctx context.Context, sourceCode, network string) (*internal.ProviderResult, error) {
	return validateDeployment(ctx, c, sourceCode, network)
}

// Name 返回后端标识
func (c *GrokClient) Name() string { return "grok" }

// Describe 返回用于展示的客户端描述
func (c *GrokClient) Describe() string { return fmt.Sprintf("Grok (%s)", c.model) }

// Close 清理资源
func (c *GrokClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
