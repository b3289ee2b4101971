package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	for _, lang := range []string{"move", "cosmwasm", "teal", "circuit"} {
		a, err := r.Get(lang)
		require.NoError(t, err)
		assert.Equal(t, lang, a.Language())
	}
}

func TestRegistryGetUnknownLanguage(t *testing.T) {
	r := NewRegistry()

	a, err := r.Get("solidity")
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrAnalyzerNotFound)
}

func TestRegistryLanguagesOrder(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"move", "cosmwasm", "teal", "circuit"}, r.Languages())
}

func TestRegistryDetect(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"move module", "module examples::token { }", "move"},
		{"cosmwasm entry point", "#[entry_point]\npub fn execute() {}", "cosmwasm"},
		{"teal pragma", "#pragma version 8\nint 1\nreturn", "teal"},
		{"circom pragma", "pragma circom 2.0.0;\ntemplate T() {}", "circuit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := r.Detect(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Language())
		})
	}
}

func TestRegistryDetectNoMatch(t *testing.T) {
	r := NewRegistry()

	a, err := r.Detect("hello world")
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrAnalyzerNotFound)
}

// panicAnalyzer 用于验证 Run 的边界行为
type panicAnalyzer struct{}

func (panicAnalyzer) Language() string     { return "panic" }
func (panicAnalyzer) Identify(string) bool { return false }
func (panicAnalyzer) Extract(string) internal.StructuralFact {
	panic("boom")
}
func (panicAnalyzer) FindSafetyIssues(string) []internal.HeuristicFinding { return nil }

func TestRunRecoversPanic(t *testing.T) {
	_, _, err := Run(panicAnalyzer{}, "anything")
	require.Error(t, err)

	var ierr *InternalError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "panic", ierr.Language)
	assert.Contains(t, ierr.Error(), "boom")
}

func TestRunHappyPath(t *testing.T) {
	fact, findings, err := Run(NewMoveAnalyzer(), "module examples::token { }")
	require.NoError(t, err)
	assert.Equal(t, "move", fact.Language)
	assert.Empty(t, findings)
}

func TestExtractDeterministic(t *testing.T) {
	r := NewRegistry()
	source := "module examples::token {\n    struct Coin has key {\n        value: u64\n    }\n}"

	a, err := r.Get("move")
	require.NoError(t, err)

	first := a.Extract(source)
	second := a.Extract(source)
	assert.Equal(t, first, second)

	assert.Equal(t, a.FindSafetyIssues(source), a.FindSafetyIssues(source))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Nil(t, dedupe(nil))
}
