package client

import "fmt"

// 共享的 chat-completions API 类型定义（OpenAI 与 Grok 兼容）

// Message 消息结构
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice 选择结构
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage 使用情况结构
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError API 错误结构
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// ErrorKind 后端调用失败的分类
type ErrorKind string

const (
	// KindUnreachable 网络错误或超时，后端不可达
	KindUnreachable ErrorKind = "unreachable"
	// KindBadResponse 非 2xx 响应或 API 返回错误载荷
	KindBadResponse ErrorKind = "bad_response"
	// KindParseFailure 响应内容无法解析为期望的 JSON
	KindParseFailure ErrorKind = "parse_failure"
)

// ProviderError 后端调用的分类错误。客户端的任何失败都以它返回，
// 绝不让异常越过客户端边界。
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
