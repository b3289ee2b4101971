package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

func findings(n int) []internal.HeuristicFinding {
	return make([]internal.HeuristicFinding, n)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		findings  int
		narrative string
		want      int
	}{
		{"no findings no narrative", 0, "", 0},
		{"base scales with findings", 5, "", 50},
		{"critical keyword bonus", 2, "This contains a critical reentrancy flaw", 50},
		{"high keyword bonus", 2, "A high severity issue was found", 35},
		{"medium keyword bonus", 2, "Some medium concerns", 25},
		{"unrelated narrative", 3, "looks fine overall", 30},
		{"keyword match is case insensitive", 1, "CRITICAL issue", 40},
		{"base clamped before bonus", 12, "", 100},
		{"total clamped at 100", 10, "critical failure", 100},
		{"bonus only", 0, "critical", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(findings(tt.findings), tt.narrative))
		})
	}
}

func TestScoreKeywordPriority(t *testing.T) {
	// 同时出现多个关键词时只取最高优先级的加分
	assert.Equal(t, 30, Score(nil, "critical and high and medium issues"))
	assert.Equal(t, 15, Score(nil, "high and medium issues"))
}

func TestScoreMonotonicInFindings(t *testing.T) {
	prev := -1
	for n := 0; n <= 15; n++ {
		got := Score(findings(n), "")
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}
