package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Parser 解析 AI 返回的分析结果
type Parser struct {
	jsonExtractor *regexp.Regexp
}

// NewParser 创建新的解析器
func NewParser() *Parser {
	// 用于提取 JSON 代码块的正则表达式
	jsonRegex := regexp.MustCompile("```(?:json)?\n?([\\s\\S]*?)\n?```")

	return &Parser{
		jsonExtractor: jsonRegex,
	}
}

// extract 从响应中提取 JSON 文本：先直接解析，再尝试 markdown 代码块，最后做括号窗口清理
func (p *Parser) extract(response string, out any) error {
	if err := json.Unmarshal([]byte(response), out); err == nil {
		return nil
	}

	if matches := p.jsonExtractor.FindStringSubmatch(response); len(matches) > 1 {
		jsonStr := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(jsonStr), out); err == nil {
			return nil
		}
	}

	cleaned := p.cleanResponse(response)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to parse AI response as JSON: %w", err)
	}
	return nil
}

// cleanResponse 清理响应文本，截取第一个 { 到最后一个 } 之间的内容
func (p *Parser) cleanResponse(response string) string {
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start >= 0 && end > start {
		response = response[start : end+1]
	}

	return response
}

// ParseAnalysis 解析安全分析响应
func (p *Parser) ParseAnalysis(response string) (*internal.AnalysisPayload, error) {
	var payload internal.AnalysisPayload
	if err := p.extract(response, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ParseOptimization 解析优化建议响应
func (p *Parser) ParseOptimization(response string) (*internal.OptimizationPayload, error) {
	var payload internal.OptimizationPayload
	if err := p.extract(response, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ParseDeployment 解析部署验证响应
func (p *Parser) ParseDeployment(response string) (*internal.DeploymentPayload, error) {
	var payload internal.DeploymentPayload
	if err := p.extract(response, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
