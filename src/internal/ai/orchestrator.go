package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/ai/client"
)

// Attempt 一次失败尝试的诊断信息
type Attempt struct {
	Provider  string           `json:"provider"`
	Kind      client.ErrorKind `json:"error_kind"`
	Error     string           `json:"error,omitempty"`
	LatencyMS float64          `json:"latency_ms,omitempty"`
}

// AllProvidersFailed 回退链上的每个后端都失败了。
// Attempts 按尝试顺序记录，每个已注册后端恰好出现一次。
type AllProvidersFailed struct {
	Attempts []Attempt
}

func (e *AllProvidersFailed) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s(%s)", a.Provider, a.Kind)
	}
	return fmt.Sprintf("all providers failed: %s", strings.Join(parts, ", "))
}

// Orchestrator 有界顺序回退编排器。
// 先尝试首选后端，失败后按注册顺序尝试其余后端，同一后端一次编排内不会重试；
// 第一个成功结果被接受，其独立测量的延迟随结果返回。
type Orchestrator struct {
	registry *Registry
}

// NewOrchestrator 创建编排器
func NewOrchestrator(registry *Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Analyze 带回退的安全分析
func (o *Orchestrator) Analyze(ctx context.Context, sourceCode, focus, preferred string) (*internal.ProviderResult, []string, error) {
	return o.run(ctx, preferred, func(ctx context.Context, p Provider) (*internal.ProviderResult, error) {
		return p.Analyze(ctx, sourceCode, focus)
	})
}

// Optimize 带回退的优化建议
func (o *Orchestrator) Optimize(ctx context.Context, sourceCode, preferred string) (*internal.ProviderResult, []string, error) {
	return o.run(ctx, preferred, func(ctx context.Context, p Provider) (*internal.ProviderResult, error) {
		return p.Optimize(ctx, sourceCode)
	})
}

// ValidateDeployment 带回退的部署验证
func (o *Orchestrator) ValidateDeployment(ctx context.Context, sourceCode, network, preferred string) (*internal.ProviderResult, []string, error) {
	return o.run(ctx, preferred, func(ctx context.Context, p Provider) (*internal.ProviderResult, error) {
		return p.ValidateDeployment(ctx, sourceCode, network)
	})
}

// run 回退循环本体。尝试次数以注册后端数为上限，回退由每次尝试的
// 结果值驱动，不用异常/panic 驱动。返回接受的结果和按序尝试过的后端列表。
func (o *Orchestrator) run(ctx context.Context, preferred string, call func(context.Context, Provider) (*internal.ProviderResult, error)) (*internal.ProviderResult, []string, error) {
	first, err := o.registry.Get(preferred)
	if err != nil {
		return nil, nil, err
	}

	chain := []Provider{first}
	for _, name := range o.registry.Names() {
		if name != first.Name() {
			chain = append(chain, o.registry.get(name))
		}
	}

	var attempts []Attempt
	var attempted []string

	for _, p := range chain {
		start := time.Now()
		result, callErr := call(ctx, p)
		latency := time.Since(start)
		attempted = append(attempted, p.Name())

		if callErr == nil {
			result.Provider = p.Name()
			result.Latency = latency
			return result, attempted, nil
		}

		kind := client.KindBadResponse
		var perr *client.ProviderError
		if errors.As(callErr, &perr) {
			kind = perr.Kind
		}

		fmt.Printf("⚠️  后端 %s 调用失败 (%s)，尝试回退: %v\n", p.Name(), kind, callErr)
		attempts = append(attempts, Attempt{
			Provider:  p.Name(),
			Kind:      kind,
			Error:     callErr.Error(),
			LatencyMS: float64(latency.Milliseconds()),
		})
	}

	return nil, attempted, &AllProvidersFailed{Attempts: attempts}
}
