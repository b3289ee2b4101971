package report

import (
	"fmt"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Generator 报告生成器接口
type Generator interface {
	Generate(report *internal.AggregatedReport) (string, error)
}

// MarkdownGenerator markdown格式报告生成器
type MarkdownGenerator struct{}

// NewMarkdownGenerator 创建markdown报告生成器
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Generate 生成markdown格式报告
func (g *MarkdownGenerator) Generate(report *internal.AggregatedReport) (string, error) {
	var result string

	// 报告头部
	result += fmt.Sprintf("# Multichain Excavator 分析报告\n\n")
	result += fmt.Sprintf("**合约语言**: %s\n", report.Language)
	result += fmt.Sprintf("**风险评分**: %d/100 %s\n", report.RiskScore, riskIcon(report.RiskScore))
	result += fmt.Sprintf("**AI 后端**: %s\n", report.ProviderUsed)
	if len(report.ProvidersAttempted) > 1 {
		result += fmt.Sprintf("**回退链**: %s\n", strings.Join(report.ProvidersAttempted, " → "))
	}
	result += fmt.Sprintf("**分析耗时**: %.1f ms\n", report.ExecutionTimeMS)
	if !report.CreatedAt.IsZero() {
		result += fmt.Sprintf("**分析时间**: %s\n", report.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	result += "\n"

	// 结构事实
	result += g.renderFacts(report.Language, report.StructuralFacts)

	// 启发式发现
	if len(report.SecurityFindings) > 0 {
		result += fmt.Sprintf("## 静态检测发现\n\n")
		for i, f := range report.SecurityFindings {
			result += fmt.Sprintf("%d. %s **[%s]** %s\n", i+1, getSeverityIcon(f.Severity), f.Severity, f.Title)
			result += fmt.Sprintf("   **描述**: %s\n", f.Description)
			if f.Location != "" {
				result += fmt.Sprintf("   **位置**: %s\n", f.Location)
			}
			result += "\n"
		}
	}

	// AI 结构化发现
	if report.AIInsights != nil && len(report.AIInsights.SecurityFindings) > 0 {
		result += fmt.Sprintf("## AI 安全发现\n\n")
		for i, f := range report.AIInsights.SecurityFindings {
			result += fmt.Sprintf("%d. %s **[%s]** %s\n", i+1, getSeverityIcon(f.Severity), f.Severity, f.Title)
			result += fmt.Sprintf("   **描述**: %s\n\n", f.Description)
		}
	}

	// AI分析摘要
	if report.Narrative != "" {
		result += fmt.Sprintf("## AI分析摘要\n\n")
		result += fmt.Sprintf("%s\n\n", report.Narrative)
	}

	// 原始AI响应（可选）
	if report.RawResponse != "" {
		result += fmt.Sprintf("## AI原始响应\n\n")
		result += fmt.Sprintf("```\n%s\n```\n\n", report.RawResponse)
	}

	return result, nil
}

// renderFacts 按语言渲染结构事实，只输出有内容的段落
func (g *MarkdownGenerator) renderFacts(language string, facts internal.StructuralFact) string {
	var result string
	result += fmt.Sprintf("## 结构分析\n\n")

	switch language {
	case internal.LanguageMove:
		if len(facts.Modules) > 0 {
			result += fmt.Sprintf("- **模块**: %s\n", strings.Join(facts.Modules, ", "))
		}
		for _, res := range facts.Resources {
			if len(res.Abilities) > 0 {
				result += fmt.Sprintf("- **资源**: %s (has %s)\n", res.Name, strings.Join(res.Abilities, ", "))
			} else {
				result += fmt.Sprintf("- **资源**: %s\n", res.Name)
			}
		}
		for pattern, hits := range facts.Patterns {
			result += fmt.Sprintf("- **%s**: %d 处\n", pattern, len(hits))
		}

	case internal.LanguageCosmWasm:
		var present []string
		for name, ok := range facts.EntryPoints {
			if ok {
				present = append(present, name)
			}
		}
		if len(present) > 0 {
			result += fmt.Sprintf("- **入口点**: %s\n", strings.Join(present, ", "))
		}
		for enum, variants := range facts.MessageTypes {
			result += fmt.Sprintf("- **消息类型** %s: %d 个变体\n", enum, len(variants))
		}
		if len(facts.StateItems) > 0 {
			result += fmt.Sprintf("- **状态项**: %s\n", strings.Join(facts.StateItems, ", "))
		}
		if facts.IBCIntegration {
			result += "- **IBC**: 已集成\n"
		}

	case internal.LanguageTEAL:
		result += fmt.Sprintf("- **指令数**: %d\n", facts.OperationCount)
		result += fmt.Sprintf("- **有状态**: %v\n", facts.IsStateful)
		if len(facts.GlobalStateOps) > 0 {
			result += fmt.Sprintf("- **全局状态操作**: %s\n", strings.Join(facts.GlobalStateOps, ", "))
		}
		if len(facts.LocalStateOps) > 0 {
			result += fmt.Sprintf("- **本地状态操作**: %s\n", strings.Join(facts.LocalStateOps, ", "))
		}

	case internal.LanguageCircuit:
		result += fmt.Sprintf("- **电路框架**: %s\n", facts.Framework)
		if len(facts.Templates) > 0 {
			result += fmt.Sprintf("- **模板**: %s\n", strings.Join(facts.Templates, ", "))
		}
		result += fmt.Sprintf("- **约束数**: %d\n", facts.Constraints)
		if facts.Signals != nil {
			result += fmt.Sprintf("- **信号**: 输入 %d / 输出 %d / 中间 %d\n",
				len(facts.Signals.Input), len(facts.Signals.Output), len(facts.Signals.Intermediate))
		}
		if len(facts.HashOperations) > 0 {
			result += fmt.Sprintf("- **哈希操作**: %s\n", strings.Join(facts.HashOperations, ", "))
		}
	}

	result += "\n"
	return result
}

// GenerateOptimization 生成优化建议的markdown报告
func (g *MarkdownGenerator) GenerateOptimization(report *internal.OptimizationReport) (string, error) {
	var result string

	result += fmt.Sprintf("# Multichain Excavator 优化报告\n\n")
	result += fmt.Sprintf("**合约语言**: %s\n", report.Language)
	result += fmt.Sprintf("**AI 后端**: %s\n", report.ProviderUsed)
	result += fmt.Sprintf("**分析耗时**: %.1f ms\n\n", report.ExecutionTimeMS)

	if len(report.Suggestions) > 0 {
		result += fmt.Sprintf("## 优化建议\n\n")
		for i, s := range report.Suggestions {
			result += fmt.Sprintf("%d. **[%s]** %s\n", i+1, s.Area, s.Suggestion)
			if s.PotentialSavings != "" {
				result += fmt.Sprintf("   **预期收益**: %s\n", s.PotentialSavings)
			}
			result += "\n"
		}
	}

	if report.Summary != "" {
		result += fmt.Sprintf("## 摘要\n\n%s\n\n", report.Summary)
	}

	return result, nil
}

// GenerateDeployment 生成部署验证的markdown报告
func (g *MarkdownGenerator) GenerateDeployment(report *internal.DeploymentReport) (string, error) {
	var result string

	result += fmt.Sprintf("# Multichain Excavator 部署验证报告\n\n")
	result += fmt.Sprintf("**目标网络**: %s\n", report.Network)
	if report.IsValid {
		result += "**验证结果**: ✅ 通过\n"
	} else {
		result += "**验证结果**: ❌ 未通过\n"
	}
	if report.EstimatedGas > 0 {
		result += fmt.Sprintf("**预估 Gas**: %d\n", report.EstimatedGas)
	}
	result += fmt.Sprintf("**AI 后端**: %s\n\n", report.ProviderUsed)

	if len(report.Warnings) > 0 {
		result += fmt.Sprintf("## 警告\n\n")
		for _, w := range report.Warnings {
			result += fmt.Sprintf("- ⚠️ %s\n", w)
		}
		result += "\n"
	}

	if report.Notes != "" {
		result += fmt.Sprintf("## 说明\n\n%s\n\n", report.Notes)
	}

	return result, nil
}

// getSeverityIcon 获取严重等级对应的图标
func getSeverityIcon(severity string) string {
	switch strings.ToLower(severity) {
	case internal.SeverityCritical:
		return "🔴"
	case internal.SeverityHigh:
		return "🟠"
	case internal.SeverityMedium:
		return "🟡"
	case internal.SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// riskIcon 获取风险分段对应的图标
func riskIcon(score int) string {
	switch {
	case score >= 70:
		return "🔴"
	case score >= 40:
		return "🟡"
	default:
		return "🟢"
	}
}
