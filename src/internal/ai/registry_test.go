package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{name: "openai"})
	r.Register(&stubProvider{name: "claude"})

	p, err := r.Get("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"openai", "claude"}, r.Names())
}

func TestRegistryDuplicateIgnored(t *testing.T) {
	r := NewRegistry()
	first := &stubProvider{name: "openai"}
	r.Register(first)
	r.Register(&stubProvider{name: "openai"})

	assert.Equal(t, 1, r.Len())

	p, err := r.Get("openai")
	require.NoError(t, err)
	assert.Same(t, first, p.(*stubProvider))
}

func TestRegistryFallbackToFirstRegistered(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{name: "openai"})
	r.Register(&stubProvider{name: "claude"})

	// 首选后端未注册时确定性地回退到第一个注册的后端
	p, err := r.Get("grok")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	// 未指定首选后端时同样回退
	p, err = r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()

	p, err := r.Get("openai")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNoProvidersConfigured)
}

func TestRegistryNamesIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{name: "openai"})

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"openai"}, r.Names())
}
