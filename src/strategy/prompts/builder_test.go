package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt("module a::b { }", AnalysisFocus("move"))

	assert.Contains(t, prompt, "module a::b { }")
	assert.Contains(t, prompt, "Move smart contract")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.Contains(t, prompt, "risk_score")
}

func TestBuildAnalysisPromptWithoutFocus(t *testing.T) {
	prompt := BuildAnalysisPrompt("int 1", AnalysisFocus("unknown-language"))

	assert.Contains(t, prompt, "int 1")
	assert.NotContains(t, prompt, "Move smart contract")
}

func TestAnalysisFocusPerLanguage(t *testing.T) {
	assert.Contains(t, AnalysisFocus("move"), "resource safety")
	assert.Contains(t, AnalysisFocus("cosmwasm"), "IBC")
	assert.Contains(t, AnalysisFocus("teal"), "Algorand")
	assert.Contains(t, AnalysisFocus("circuit"), "unconstrained signals")
	assert.Empty(t, AnalysisFocus("solidity"))
}

func TestBuildDeploymentPrompt(t *testing.T) {
	prompt := BuildDeploymentPrompt("contract code", "osmosis")

	assert.Contains(t, prompt, "osmosis network")
	assert.Contains(t, prompt, "contract code")
	assert.Contains(t, prompt, "estimated_gas")
}

func TestBuildPromptBadTemplate(t *testing.T) {
	out := BuildPrompt("{{.Unclosed", nil)
	assert.Contains(t, out, "模板解析失败")
}

func TestSystemPrompts(t *testing.T) {
	assert.NotEmpty(t, AnalysisSystemPrompt())
	assert.NotEmpty(t, OptimizationSystemPrompt())
	assert.Contains(t, DeploymentSystemPrompt("algorand"), "algorand")
}
