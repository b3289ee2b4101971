package internal

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ValidateProxyURL 验证代理URL格式，空字符串表示不使用代理
func ValidateProxyURL(proxyURL string) error {
	if strings.TrimSpace(proxyURL) == "" {
		return nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "socks5" {
		return fmt.Errorf("unsupported proxy scheme: %s (supported: http, https, socks5)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("proxy host cannot be empty")
	}

	return nil
}

// CreateProxyHTTPClient 创建带代理的HTTP客户端，所有 AI 后端客户端都通过这里构建
func CreateProxyHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     30 * time.Second,
	}

	if strings.TrimSpace(proxyURL) != "" {
		if err := ValidateProxyURL(proxyURL); err != nil {
			return nil, err
		}
		u, err := url.Parse(strings.TrimSpace(proxyURL))
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
