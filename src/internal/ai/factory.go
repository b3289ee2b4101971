package ai

import (
	"fmt"
	"time"

	"github.com/admi-n/multichain-Excavator/src/config"
	"github.com/admi-n/multichain-Excavator/src/internal/ai/client"
)

// BuildRegistry 按配置构建后端注册表，进程启动时调用一次。
// 只注册持有可用凭证的后端；注册顺序 openai → claude → grok 即默认回退顺序。
func BuildRegistry(proxy string, timeout time.Duration) (*Registry, error) {
	registry := NewRegistry()

	if key, err := config.GetOpenAIKey(); err == nil && key != "" {
		c, err := client.NewOpenAIClient(client.OpenAIConfig{
			APIKey:  key,
			BaseURL: config.GetOpenAIBaseURL(),
			Model:   config.GetOpenAIModel(),
			Timeout: timeout,
			Proxy:   proxy,
		})
		if err != nil {
			fmt.Printf("⚠️  初始化 OpenAI 客户端失败: %v\n", err)
		} else {
			registry.Register(c)
			fmt.Printf("✅ 已注册后端: %s\n", c.Describe())
		}
	}

	if key, err := config.GetClaudeKey(); err == nil && key != "" {
		c, err := client.NewClaudeClient(client.ClaudeConfig{
			APIKey:  key,
			BaseURL: config.GetClaudeBaseURL(),
			Model:   config.GetClaudeModel(),
			Timeout: timeout,
			Proxy:   proxy,
		})
		if err != nil {
			fmt.Printf("⚠️  初始化 Claude 客户端失败: %v\n", err)
		} else {
			registry.Register(c)
			fmt.Printf("✅ 已注册后端: %s\n", c.Describe())
		}
	}

	if key, err := config.GetGrokKey(); err == nil && key != "" {
		c, err := client.NewGrokClient(client.GrokConfig{
			APIKey:  key,
			BaseURL: config.GetGrokBaseURL(),
			Model:   config.GetGrokModel(),
			Timeout: timeout,
			Proxy:   proxy,
		})
		if err != nil {
			fmt.Printf("⚠️  初始化 Grok 客户端失败: %v\n", err)
		} else {
			registry.Register(c)
			fmt.Printf("✅ 已注册后端: %s\n", c.Describe())
		}
	}

	if registry.Len() == 0 {
		return nil, ErrNoProvidersConfigured
	}

	return registry, nil
}
