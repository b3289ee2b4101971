package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circomMultiplierSource = `pragma circom 2.0.0;

template Multiplier() {
    signal input a;
    signal input b;
    signal output c;
    c <== a * b;
    c === a * b;
}

component main = Multiplier();`

const noirMainSource = `struct Point {
    x: Field,
    y: Field,
}

fn main(x: Field, y: pub Field) {
    let mut acc = x as u64;
    acc = acc + 1;
}`

func TestDetectFramework(t *testing.T) {
	a := NewCircuitAnalyzer()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"circom", circomMultiplierSource, FrameworkCircom},
		{"noir", noirMainSource, FrameworkNoir},
		{"halo2", "use halo2::plonk::{Circuit, ConstraintSystem};", FrameworkHalo2},
		{"plonk", "// A PLONK based prover", FrameworkPlonk},
		{"unknown", "int main() { return 0; }", FrameworkUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetectFramework(tt.source))
		})
	}
}

func TestCircuitExtract(t *testing.T) {
	a := NewCircuitAnalyzer()
	fact := a.Extract(circomMultiplierSource)

	assert.Equal(t, "circuit", fact.Language)
	assert.Equal(t, FrameworkCircom, fact.Framework)
	assert.Equal(t, []string{"Multiplier"}, fact.Templates)
	assert.Equal(t, 1, fact.Constraints)

	require.NotNil(t, fact.Signals)
	assert.Equal(t, []string{"a", "b"}, fact.Signals.Input)
	assert.Equal(t, []string{"c"}, fact.Signals.Output)
	assert.Empty(t, fact.Signals.Intermediate)

	assert.False(t, fact.RandomnessUsage)
}

func TestCircuitFindSafetyIssues(t *testing.T) {
	a := NewCircuitAnalyzer()

	t.Run("constrained circom is clean", func(t *testing.T) {
		assert.Empty(t, a.FindSafetyIssues(circomMultiplierSource))
	})

	t.Run("unconstrained circom signals", func(t *testing.T) {
		source := "pragma circom 2.0.0;\ntemplate T() {\n    signal input a;\n    signal output b;\n}"
		findings := a.FindSafetyIssues(source)
		require.Len(t, findings, 1)
		assert.Equal(t, "soundness", findings[0].Category)
		assert.Equal(t, "high", findings[0].Severity)
	})

	t.Run("noir casts and unasserted mutation", func(t *testing.T) {
		findings := a.FindSafetyIssues(noirMainSource)
		require.Len(t, findings, 2)
		assert.Equal(t, "completeness", findings[0].Category)
		assert.Equal(t, "soundness", findings[1].Category)
	})

	t.Run("halo2 excessive lookups", func(t *testing.T) {
		source := "use halo2::plonk::*;\n" + strings.Repeat("meta.lookup(|meta| vec![]);\n", 6)
		findings := a.FindSafetyIssues(source)
		require.Len(t, findings, 1)
		assert.Equal(t, "efficiency", findings[0].Category)
	})

	t.Run("unknown framework yields nothing", func(t *testing.T) {
		assert.Empty(t, a.FindSafetyIssues("int main() { return 0; }"))
	})
}
