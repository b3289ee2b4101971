package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Provider 所有 AI 后端必须实现的归一化接口。
// 实现不允许部分修改共享状态；任何失败都以 *client.ProviderError 返回。
type Provider interface {
	Analyze(ctx context.Context, sourceCode, focus string) (*internal.ProviderResult, error)
	Optimize(ctx context.Context, sourceCode string) (*internal.ProviderResult, error)
	ValidateDeployment(ctx context.Context, sourceCode, network string) (*internal.ProviderResult, error)
	Name() string
	Close() error
}

// ErrNoProvidersConfigured 注册表为空，启动期致命错误
var ErrNoProvidersConfigured = errors.New("no AI providers available, please configure at least one API key")

// Registry 后端注册表。进程启动时构建一次，此后只读，可安全并发读取。
// 注册顺序即默认回退顺序。
type Registry struct {
	order     []string
	providers map[string]Provider
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register 注册一个后端，重复注册同名后端会被忽略
func (r *Registry) Register(p Provider) {
	name := p.Name()
	if _, ok := r.providers[name]; ok {
		return
	}
	r.order = append(r.order, name)
	r.providers[name] = p
}

// Get 返回首选后端；未注册时确定性地回退到第一个注册的后端并打印替换信息。
// 注册表为空时返回 ErrNoProvidersConfigured。
func (r *Registry) Get(preferred string) (Provider, error) {
	if p, ok := r.providers[preferred]; ok {
		return p, nil
	}

	if len(r.order) > 0 {
		fallback := r.order[0]
		fmt.Printf("⚠️  首选后端 %s 不可用，回退到 %s\n", preferred, fallback)
		return r.providers[fallback], nil
	}

	return nil, ErrNoProvidersConfigured
}

func (r *Registry) get(name string) Provider {
	return r.providers[name]
}

// Names 返回注册顺序的后端标识列表
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len 返回已注册的后端数量
func (r *Registry) Len() int {
	return len(r.order)
}

// Close 关闭全部后端客户端
func (r *Registry) Close() error {
	var firstErr error
	for _, name := range r.order {
		if err := r.providers[name].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
