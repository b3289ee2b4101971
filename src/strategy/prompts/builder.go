package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// BuildPrompt 使用模板和变量构建最终的 prompt
func BuildPrompt(templateContent string, variables map[string]string) string {
	tmpl, err := template.New("prompt").Parse(templateContent)
	if err != nil {
		return fmt.Sprintf("模板解析失败: %v\n原始模板:\n%s", err, templateContent)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, variables); err != nil {
		return fmt.Sprintf("模板执行失败: %v\n原始模板:\n%s", err, templateContent)
	}

	return result.String()
}

const analysisTemplate = `Analyze the following smart contract for security vulnerabilities and risks.
{{if .Focus}}
{{.Focus}}
{{end}}
Contract Code:
{{.ContractCode}}

Provide a JSON response with:
1. security_findings: List of findings with severity, title, description
2. risk_score: Overall risk score 0-100
3. explanation: Brief explanation of the analysis

Return ONLY valid JSON.`

const optimizationTemplate = `Analyze the following smart contract for gas and resource optimization opportunities.

Contract Code:
{{.ContractCode}}

Provide a JSON response with:
1. suggestions: List of optimization suggestions with area, suggestion, potential_savings
2. summary: Brief summary

Return ONLY valid JSON.`

const deploymentTemplate = `Validate this smart contract for deployment on {{.Network}} network.

Contract Code:
{{.ContractCode}}

Provide a JSON response with:
1. is_valid: boolean
2. warnings: list of warnings
3. estimated_gas: rough gas estimate for deployment
4. notes: deployment notes

Return ONLY valid JSON.`

// BuildAnalysisPrompt 构建安全分析 prompt，focus 是按语言定制的分析重点
func BuildAnalysisPrompt(contractCode, focus string) string {
	return BuildPrompt(analysisTemplate, map[string]string{
		"ContractCode": contractCode,
		"Focus":        focus,
	})
}

// BuildOptimizationPrompt 构建优化建议 prompt
func BuildOptimizationPrompt(contractCode string) string {
	return BuildPrompt(optimizationTemplate, map[string]string{
		"ContractCode": contractCode,
	})
}

// BuildDeploymentPrompt 构建部署验证 prompt
func BuildDeploymentPrompt(contractCode, network string) string {
	return BuildPrompt(deploymentTemplate, map[string]string{
		"ContractCode": contractCode,
		"Network":      network,
	})
}

// AnalysisFocus 返回按语言定制的分析重点说明
func AnalysisFocus(language string) string {
	switch language {
	case internal.LanguageMove:
		return "This is a Move smart contract for Aptos/Sui. Focus on resource safety, capability patterns, and Move-specific security issues."
	case internal.LanguageCosmWasm:
		return "This is a CosmWasm contract. Focus on message handling, state management, IBC integration, and Cosmos-specific security concerns."
	case internal.LanguageTEAL:
		return "This is a TEAL smart contract for Algorand. Focus on stateful operations, transaction groups, stack depth, and Algorand-specific security patterns."
	case internal.LanguageCircuit:
		return "This is a zero-knowledge circuit. Focus on constraint completeness, unconstrained signals, witness generation, and soundness issues."
	default:
		return ""
	}
}

// AnalysisSystemPrompt 安全分析任务的系统 prompt
func AnalysisSystemPrompt() string {
	return "You are a smart contract security auditor. Analyze contracts and provide detailed security findings."
}

// OptimizationSystemPrompt 优化任务的系统 prompt
func OptimizationSystemPrompt() string {
	return "You are a smart contract optimization expert. Provide actionable optimization suggestions."
}

// DeploymentSystemPrompt 部署验证任务的系统 prompt
func DeploymentSystemPrompt(network string) string {
	return fmt.Sprintf("You are a blockchain deployment validator for %s network.", network)
}
