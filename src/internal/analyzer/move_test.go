package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moveTokenSource = `module examples::token {
    struct Coin has key, store {
        value: u64
    }

    struct MintCapability has key {
        dummy: bool
    }

    public fun mint(account: &signer, amount: u64) acquires Coin {
        let coin = borrow_global_mut<Coin>(@examples);
        coin.value = coin.value + amount;
    }
}`

const moveUnsafeSource = `module bad::vault {
    struct Vault has key {
        value: u64
    }

    public fun drain(addr: address) acquires Vault {
        let v = borrow_global_mut<Vault>(addr);
        loop {
            v.value = 0;
        };
        abort 42
    }
}`

func TestMoveIdentify(t *testing.T) {
	a := NewMoveAnalyzer()

	assert.True(t, a.Identify(moveTokenSource))
	assert.True(t, a.Identify("borrow_global<Coin>(addr)"))
	assert.False(t, a.Identify("#pragma version 8\nint 1"))
}

func TestMoveExtract(t *testing.T) {
	a := NewMoveAnalyzer()
	fact := a.Extract(moveTokenSource)

	assert.Equal(t, "move", fact.Language)
	assert.Equal(t, []string{"examples::token"}, fact.Modules)

	require.Len(t, fact.Resources, 2)
	assert.Equal(t, "Coin", fact.Resources[0].Name)
	assert.Equal(t, []string{"key", "store"}, fact.Resources[0].Abilities)
	assert.Equal(t, "MintCapability", fact.Resources[1].Name)
	assert.Equal(t, []string{"key"}, fact.Resources[1].Abilities)

	require.NotNil(t, fact.Patterns)
	assert.Contains(t, fact.Patterns, "signer_usage")
	assert.Contains(t, fact.Patterns, "capability_patterns")
	assert.Contains(t, fact.Patterns["storage_operations"], "Uses borrow_global_mut")
}

func TestMoveExtractDedupesModules(t *testing.T) {
	a := NewMoveAnalyzer()
	source := "module a::b { }\nmodule a::b { }\nmodule a::c { }"

	fact := a.Extract(source)
	assert.Equal(t, []string{"a::b", "a::c"}, fact.Modules)
}

func TestMoveFindSafetyIssues(t *testing.T) {
	a := NewMoveAnalyzer()

	t.Run("clean source", func(t *testing.T) {
		assert.Empty(t, a.FindSafetyIssues(moveTokenSource))
	})

	t.Run("unsafe source", func(t *testing.T) {
		findings := a.FindSafetyIssues(moveUnsafeSource)
		require.Len(t, findings, 3)

		categories := map[string]string{}
		for _, f := range findings {
			categories[f.Category] = f.Severity
		}
		assert.Equal(t, "high", categories["access_control"])
		assert.Equal(t, "medium", categories["control_flow"])
		assert.Equal(t, "informational", categories["abort_conditions"])
	})

	t.Run("nested mutable references", func(t *testing.T) {
		findings := a.FindSafetyIssues("public fun swap(a: &mut u64, b: &mut u64) { }")
		require.Len(t, findings, 1)
		assert.Equal(t, "reference_safety", findings[0].Category)
		assert.Equal(t, "medium", findings[0].Severity)
	})
}
