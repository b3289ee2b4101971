package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisDirectJSON(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseAnalysis(`{
		"security_findings": [
			{"severity": "high", "title": "Reentrancy", "description": "External call before state update"}
		],
		"risk_score": 42,
		"explanation": "One high severity issue found"
	}`)
	require.NoError(t, err)

	assert.Equal(t, 42, payload.RiskScore)
	assert.Equal(t, "One high severity issue found", payload.Explanation)
	require.Len(t, payload.SecurityFindings, 1)
	assert.Equal(t, "high", payload.SecurityFindings[0].Severity)
	assert.Equal(t, "Reentrancy", payload.SecurityFindings[0].Title)
}

func TestParseAnalysisMarkdownFence(t *testing.T) {
	p := NewParser()

	response := "Here is my analysis:\n```json\n{\"security_findings\": [], \"risk_score\": 10, \"explanation\": \"looks fine\"}\n```\nLet me know if you need more."
	payload, err := p.ParseAnalysis(response)
	require.NoError(t, err)

	assert.Equal(t, 10, payload.RiskScore)
	assert.Equal(t, "looks fine", payload.Explanation)
}

func TestParseAnalysisBareFence(t *testing.T) {
	p := NewParser()

	response := "```\n{\"risk_score\": 5, \"explanation\": \"ok\", \"security_findings\": []}\n```"
	payload, err := p.ParseAnalysis(response)
	require.NoError(t, err)
	assert.Equal(t, 5, payload.RiskScore)
}

func TestParseAnalysisBraceWindow(t *testing.T) {
	p := NewParser()

	response := `Sure! The result is {"risk_score": 77, "explanation": "risky", "security_findings": []} as requested.`
	payload, err := p.ParseAnalysis(response)
	require.NoError(t, err)
	assert.Equal(t, 77, payload.RiskScore)
}

func TestParseAnalysisGarbage(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseAnalysis("I cannot analyze this contract.")
	assert.Nil(t, payload)
	assert.Error(t, err)
}

func TestParseOptimization(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseOptimization(`{
		"suggestions": [
			{"area": "storage", "suggestion": "Pack struct fields", "potential_savings": "20%"}
		],
		"summary": "Minor storage wins available"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Minor storage wins available", payload.Summary)
	require.Len(t, payload.Suggestions, 1)
	assert.Equal(t, "storage", payload.Suggestions[0].Area)
	assert.Equal(t, "20%", payload.Suggestions[0].PotentialSavings)
}

func TestParseDeployment(t *testing.T) {
	p := NewParser()

	payload, err := p.ParseDeployment(`{
		"is_valid": true,
		"warnings": ["High deployment cost"],
		"estimated_gas": 1500000,
		"notes": "Ready for testnet"
	}`)
	require.NoError(t, err)

	assert.True(t, payload.IsValid)
	assert.Equal(t, int64(1500000), payload.EstimatedGas)
	assert.Equal(t, []string{"High deployment cost"}, payload.Warnings)
	assert.Equal(t, "Ready for testnet", payload.Notes)
}
