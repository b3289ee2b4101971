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

// ClaudeClient 实现 Anthropic Messages API 调用
type ClaudeClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClaudeConfig 配置结构
type ClaudeConfig struct {
	APIKey  string
	BaseURL string // 默认 "https://api.anthropic.com"
	Model   string // 默认 "claude-3-sonnet-20240229"
	Timeout time.Duration
	Proxy   string // HTTP 代理
}

// Anthropic API 请求/响应结构（与 chat-completions 不兼容）
type claudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type claudeResponse struct {
	ID      string               `json:"id"`
	Type    string               `json:"type"`
	Model   string               `json:"model"`
	Content []claudeContentBlock `json:"content"`
	Usage   claudeUsage          `json:"usage"`
	Error   *APIError            `json:"error,omitempty"`
}

// NewClaudeClient 创建新的 Claude 客户端
func NewClaudeClient(cfg ClaudeConfig) (*ClaudeClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}

	if cfg.Model == "" {
		cfg.Model = "claude-3-sonnet-20240229"
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient, err := internal.CreateProxyHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP客户端失败: %w", err)
	}

	return &ClaudeClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: httpClient,
	}, nil
}

// SendPrompt 发送 prompt 到 Anthropic API 并返回响应内容
func (c *ClaudeClient) SendPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 2000,
		System:    systemPrompt,
		Messages: []Message{
			{Role: "user", Content: userPrompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/v1/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(c.Name(), KindUnreachable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(c.Name(), KindUnreachable, fmt.Errorf("failed to read response: %w", err))
	}

	var apiResp claudeResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if apiResp.Error != nil {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("Anthropic API error: %s (type: %s)",
			apiResp.Error.Message, apiResp.Error.Type))
	}

	if resp.StatusCode != http.StatusOK {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	if len(apiResp.Content) == 0 {
		return "", newError(c.Name(), KindBadResponse, fmt.Errorf("no content blocks in response"))
	}

	return apiResp.Content[0].Text, nil
}

// Analyze 安全分析（实现 ai.Provider 接口）
func (c *ClaudeClient) Analyze(ctx context.Context, sourceCode, focus string) (*internal.ProviderResult, error) {
	return analyzeContract(ctx, c, sourceCode, focus)
}

// Optimize 优化建议
func (c *ClaudeClient) Optimize(ctx context.Context, sourceCode string) (*internal.ProviderResult, error) {
	return optimizeContract(ctx, c, sourceCode)
}

// ValidateDeployment 部署验证
func (c *ClaudeClient) ValidateDeployment(ctx context.Context, sourceCode, network string) (*internal.ProviderResult, error) {
	return validateDeployment(ctx, c, sourceCode, network)
}

// Name 返回后端标识
func (c *ClaudeClient) Name() string { return "claude" }

// Describe 返回用于展示的客户端描述
func (c *ClaudeClient) Describe() string { return fmt.Sprintf("Claude (%s)", c.model) }

// Close 清理资源
func (c *ClaudeClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
