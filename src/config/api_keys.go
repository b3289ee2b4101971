package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// AIConfig AI 相关配置
type AIConfig struct {
	OpenAI struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"` // 可选，默认使用官方 API
		Model   string `yaml:"model"`    // 可选，默认 gpt-4
	} `yaml:"openai"`

	Claude struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"` // 默认 https://api.anthropic.com
		Model   string `yaml:"model"`    // 默认 claude-3-sonnet-20240229
	} `yaml:"claude"`

	Grok struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"` // 默认 https://api.x.ai/v1
		Model   string `yaml:"model"`    // 默认 grok-1
	} `yaml:"grok"`
}

// X402Config 付费网关相关配置（本核心只读取，不做支付逻辑）
type X402Config struct {
	ReceiverAddress string `yaml:"receiver_address"`
	Enabled         bool   `yaml:"enabled"`
	Testnet         bool   `yaml:"testnet"`
}

// Settings 全局配置结构
type Settings struct {
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	AI   AIConfig   `yaml:"ai"`
	X402 X402Config `yaml:"x402"`
}

var globalSettings *Settings

// LoadSettings 加载配置文件
func LoadSettings(configPath string) error {
	if configPath == "" {
		configPath = "config/settings.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	globalSettings = &settings
	return nil
}

// GetOpenAIKey 获取 OpenAI API Key，环境变量优先
func GetOpenAIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	if globalSettings != nil && globalSettings.AI.OpenAI.APIKey != "" {
		return globalSettings.AI.OpenAI.APIKey, nil
	}

	return "", fmt.Errorf("OpenAI API key not found in config or environment variable OPENAI_API_KEY")
}

// GetOpenAIBaseURL 获取 OpenAI Base URL
func GetOpenAIBaseURL() string {
	if globalSettings != nil && globalSettings.AI.OpenAI.BaseURL != "" {
		return globalSettings.AI.OpenAI.BaseURL
	}
	return "https://api.openai.com/v1" // 默认值
}

// GetOpenAIModel 获取 OpenAI 模型名称
func GetOpenAIModel() string {
	if globalSettings != nil && globalSettings.AI.OpenAI.Model != "" {
		return globalSettings.AI.OpenAI.Model
	}
	return "gpt-4" // 默认值
}

// GetClaudeKey 获取 Anthropic API Key，环境变量优先
func GetClaudeKey() (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}

	if globalSettings != nil && globalSettings.AI.Claude.APIKey != "" {
		return globalSettings.AI.Claude.APIKey, nil
	}

	return "", fmt.Errorf("Anthropic API key not found in config or environment variable ANTHROPIC_API_KEY")
}

// GetClaudeBaseURL 获取 Anthropic Base URL
func GetClaudeBaseURL() string {
	if globalSettings != nil && globalSettings.AI.Claude.BaseURL != "" {
		return globalSettings.AI.Claude.BaseURL
	}
	return "https://api.anthropic.com" // 默认值
}

// GetClaudeModel 获取 Claude 模型名称
func GetClaudeModel() string {
	if globalSettings != nil && globalSettings.AI.Claude.Model != "" {
		return globalSettings.AI.Claude.Model
	}
	return "claude-3-sonnet-20240229" // 默认值
}

// GetGrokKey 获取 xAI API Key，环境变量优先
func GetGrokKey() (string, error) {
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		return key, nil
	}

	if globalSettings != nil && globalSettings.AI.Grok.APIKey != "" {
		return globalSettings.AI.Grok.APIKey, nil
	}

	return "", fmt.Errorf("xAI API key not found in config or environment variable XAI_API_KEY")
}

// GetGrokBaseURL 获取 xAI Base URL
func GetGrokBaseURL() string {
	if globalSettings != nil && globalSettings.AI.Grok.BaseURL != "" {
		return globalSettings.AI.Grok.BaseURL
	}
	return "https://api.x.ai/v1" // 默认值
}

// GetGrokModel 获取 Grok 模型名称
func GetGrokModel() string {
	if globalSettings != nil && globalSettings.AI.Grok.Model != "" {
		return globalSettings.AI.Grok.Model
	}
	return "grok-1" // 默认值
}

// GetX402Receiver 获取付费接收地址并校验格式。
// 支付逻辑不在本核心范围内，这里只按名字提供配置。
func GetX402Receiver() (string, error) {
	addr := os.Getenv("X402_RECEIVER_ADDRESS")
	if addr == "" && globalSettings != nil {
		addr = globalSettings.X402.ReceiverAddress
	}

	if addr == "" {
		return "", nil // 未配置不算错误
	}

	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid x402 receiver address: %s", addr)
	}

	return addr, nil
}
