package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/ai/client"
)

// stubProvider 可编程的假后端
type stubProvider struct {
	name  string
	err   error
	calls int
}

func (s *stubProvider) result() *internal.ProviderResult {
	return &internal.ProviderResult{
		Narrative: "analysis from " + s.name,
		Analysis:  &internal.AnalysisPayload{RiskScore: 10, Explanation: "ok"},
	}
}

func (s *stubProvider) Analyze(ctx context.Context, sourceCode, focus string) (*internal.ProviderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result(), nil
}

func (s *stubProvider) Optimize(ctx context.Context, sourceCode string) (*internal.ProviderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result(), nil
}

func (s *stubProvider) ValidateDeployment(ctx context.Context, sourceCode, network string) (*internal.ProviderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result(), nil
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Close() error { return nil }

func unreachableErr(name string) error {
	return &client.ProviderError{Provider: name, Kind: client.KindUnreachable, Err: errors.New("connection refused")}
}

func TestOrchestratorPreferredSucceeds(t *testing.T) {
	openai := &stubProvider{name: "openai"}
	claude := &stubProvider{name: "claude"}

	r := NewRegistry()
	r.Register(openai)
	r.Register(claude)
	o := NewOrchestrator(r)

	result, attempted, err := o.Analyze(context.Background(), "code", "focus", "claude")
	require.NoError(t, err)

	assert.Equal(t, "claude", result.Provider)
	assert.Equal(t, []string{"claude"}, attempted)
	assert.Equal(t, 1, claude.calls)
	assert.Equal(t, 0, openai.calls)
}

func TestOrchestratorFallsBack(t *testing.T) {
	openai := &stubProvider{name: "openai", err: unreachableErr("openai")}
	claude := &stubProvider{name: "claude"}

	r := NewRegistry()
	r.Register(openai)
	r.Register(claude)
	o := NewOrchestrator(r)

	result, attempted, err := o.Analyze(context.Background(), "code", "", "openai")
	require.NoError(t, err)

	assert.Equal(t, "claude", result.Provider)
	assert.Equal(t, []string{"openai", "claude"}, attempted)
	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 1, claude.calls)
}

func TestOrchestratorPreferredLastInOrder(t *testing.T) {
	// 首选 grok 失败后按注册顺序回退，不重复尝试 grok
	openai := &stubProvider{name: "openai", err: unreachableErr("openai")}
	claude := &stubProvider{name: "claude"}
	grok := &stubProvider{name: "grok", err: unreachableErr("grok")}

	r := NewRegistry()
	r.Register(openai)
	r.Register(claude)
	r.Register(grok)
	o := NewOrchestrator(r)

	result, attempted, err := o.Analyze(context.Background(), "code", "", "grok")
	require.NoError(t, err)

	assert.Equal(t, "claude", result.Provider)
	assert.Equal(t, []string{"grok", "openai", "claude"}, attempted)
	assert.Equal(t, 1, grok.calls)
}

func TestOrchestratorAllFail(t *testing.T) {
	openai := &stubProvider{name: "openai", err: unreachableErr("openai")}
	claude := &stubProvider{name: "claude", err: errors.New("plain failure")}

	r := NewRegistry()
	r.Register(openai)
	r.Register(claude)
	o := NewOrchestrator(r)

	result, attempted, err := o.Analyze(context.Background(), "code", "", "openai")
	assert.Nil(t, result)
	assert.Equal(t, []string{"openai", "claude"}, attempted)

	var allFailed *AllProvidersFailed
	require.ErrorAs(t, err, &allFailed)
	require.Len(t, allFailed.Attempts, 2)

	// 每个后端恰好尝试一次，按顺序记录
	assert.Equal(t, "openai", allFailed.Attempts[0].Provider)
	assert.Equal(t, client.KindUnreachable, allFailed.Attempts[0].Kind)
	assert.Equal(t, "claude", allFailed.Attempts[1].Provider)
	// 无法分类的错误按 bad_response 处理
	assert.Equal(t, client.KindBadResponse, allFailed.Attempts[1].Kind)

	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 1, claude.calls)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestOrchestratorEmptyRegistry(t *testing.T) {
	o := NewOrchestrator(NewRegistry())

	result, attempted, err := o.Analyze(context.Background(), "code", "", "openai")
	assert.Nil(t, result)
	assert.Nil(t, attempted)
	assert.ErrorIs(t, err, ErrNoProvidersConfigured)
}

func TestOrchestratorOptimizeAndValidate(t *testing.T) {
	openai := &stubProvider{name: "openai"}
	r := NewRegistry()
	r.Register(openai)
	o := NewOrchestrator(r)

	result, _, err := o.Optimize(context.Background(), "code", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Provider)

	result, _, err = o.ValidateDeployment(context.Background(), "code", "ethereum", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, 2, openai.calls)
}
