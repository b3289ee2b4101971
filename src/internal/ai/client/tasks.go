package client

import (
	"context"

	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/ai/parser"
	"github.com/admi-n/multichain-Excavator/src/strategy/prompts"
)

// promptSender 具体后端客户端只需实现一次请求往返，任务逻辑在这里共享
type promptSender interface {
	SendPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

var responseParser = parser.NewParser()

// analyzeContract 安全分析任务：构建 prompt、调用后端、解析结构化载荷
func analyzeContract(ctx context.Context, s promptSender, sourceCode, focus string) (*internal.ProviderResult, error) {
	content, err := s.SendPrompt(ctx, prompts.AnalysisSystemPrompt(), prompts.BuildAnalysisPrompt(sourceCode, focus))
	if err != nil {
		return nil, err
	}

	payload, err := responseParser.ParseAnalysis(content)
	if err != nil {
		return nil, newError(s.Name(), KindParseFailure, err)
	}

	narrative := payload.Explanation
	if narrative == "" {
		narrative = content
	}

	return &internal.ProviderResult{
		Provider:    s.Name(),
		Narrative:   narrative,
		Analysis:    payload,
		RawResponse: content,
	}, nil
}

// optimizeContract 优化建议任务
func optimizeContract(ctx context.Context, s promptSender, sourceCode string) (*internal.ProviderResult, error) {
	content, err := s.SendPrompt(ctx, prompts.OptimizationSystemPrompt(), prompts.BuildOptimizationPrompt(sourceCode))
	if err != nil {
		return nil, err
	}

	payload, err := responseParser.ParseOptimization(content)
	if err != nil {
		return nil, newError(s.Name(), KindParseFailure, err)
	}

	narrative := payload.Summary
	if narrative == "" {
		narrative = content
	}

	return &internal.ProviderResult{
		Provider:     s.Name(),
		Narrative:    narrative,
		Optimization: payload,
		RawResponse:  content,
	}, nil
}

// validateDeployment 部署验证任务
func validateDeployment(ctx context.Context, s promptSender, sourceCode, network string) (*internal.ProviderResult, error) {
	content, err := s.SendPrompt(ctx, prompts.DeploymentSystemPrompt(network), prompts.BuildDeploymentPrompt(sourceCode, network))
	if err != nil {
		return nil, err
	}

	payload, err := responseParser.ParseDeployment(content)
	if err != nil {
		return nil, newError(s.Name(), KindParseFailure, err)
	}

	narrative := payload.Notes
	if narrative == "" {
		narrative = content
	}

	return &internal.ProviderResult{
		Provider:    s.Name(),
		Narrative:   narrative,
		Deployment:  payload,
		RawResponse: content,
	}, nil
}
