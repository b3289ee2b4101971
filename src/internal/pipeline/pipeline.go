package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/ai"
	"github.com/admi-n/multichain-Excavator/src/internal/analyzer"
	"github.com/admi-n/multichain-Excavator/src/internal/risk"
	"github.com/admi-n/multichain-Excavator/src/strategy/prompts"
)

// ValidationError 请求在任何后端调用之前就被拒绝
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

// ContractLoader 按 id 加载已保存的合约源码（外部存储协作方）
type ContractLoader interface {
	LoadContract(ctx context.Context, id int64) (*internal.ContractSource, error)
}

// Request 一次分析/优化/验证请求。JSON 字段名是对外契约的一部分。
type Request struct {
	ContractID      int64  `json:"contract_id,omitempty"`
	Language        string `json:"language,omitempty"`
	SourceCode      string `json:"source_code,omitempty"`
	Provider        string `json:"provider,omitempty"`
	FrameworkHint   string `json:"framework_hint,omitempty"`
	Network         string `json:"network,omitempty"`
	DeployerAddress string `json:"deployer_address,omitempty"`
}

// EVM 兼容网络，部署验证前做地址格式预检
var evmNetworks = map[string]bool{
	"ethereum": true,
	"polygon":  true,
	"arbitrum": true,
	"base":     true,
	"bsc":      true,
}

// Pipeline 把启发式分析器、回退编排器和风险聚合串成一次请求/响应循环。
// 无共享可变状态，可并发使用。
type Pipeline struct {
	analyzers *analyzer.Registry
	orch      *ai.Orchestrator
	contracts ContractLoader // 可为 nil，此时不支持按 contract_id 请求
}

// New 创建分析管线
func New(analyzers *analyzer.Registry, orch *ai.Orchestrator, contracts ContractLoader) *Pipeline {
	return &Pipeline{
		analyzers: analyzers,
		orch:      orch,
		contracts: contracts,
	}
}

// resolveSource 校验请求并解析出合约源码。任何失败都发生在后端调用之前。
func (p *Pipeline) resolveSource(ctx context.Context, req Request) (*internal.ContractSource, error) {
	if req.SourceCode == "" && req.ContractID == 0 {
		return nil, &ValidationError{Msg: "either contract_id or source_code must be provided"}
	}

	if req.SourceCode != "" {
		return &internal.ContractSource{
			Language:      req.Language,
			SourceCode:    req.SourceCode,
			FrameworkHint: req.FrameworkHint,
		}, nil
	}

	if p.contracts == nil {
		return nil, &ValidationError{Msg: "contract_id lookup is not available"}
	}

	src, err := p.contracts.LoadContract(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("load contract %d: %w", req.ContractID, err)
	}
	if req.Language != "" {
		src.Language = req.Language
	}
	return src, nil
}

// selectAnalyzer 按显式语言标签选择分析器；标签为空时走自动识别便利路径
func (p *Pipeline) selectAnalyzer(src *internal.ContractSource) (analyzer.Analyzer, error) {
	if src.Language != "" {
		return p.analyzers.Get(src.Language)
	}
	return p.analyzers.Detect(src.SourceCode)
}

// Run 执行完整的分析请求：校验 → 结构提取 → 带回退的 AI 分析 → 风险聚合。
// 返回不可变的 AggregatedReport 或带诊断信息的类型化错误。
func (p *Pipeline) Run(ctx context.Context, req Request) (*internal.AggregatedReport, error) {
	start := time.Now()

	src, err := p.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	an, err := p.selectAnalyzer(src)
	if err != nil {
		return nil, err
	}

	fact, findings, err := analyzer.Run(an, src.SourceCode)
	if err != nil {
		return nil, err
	}
	if fact.Framework == analyzer.FrameworkUnknown && src.FrameworkHint != "" {
		fact.Framework = src.FrameworkHint
	}

	result, attempted, err := p.orch.Analyze(ctx, src.SourceCode, prompts.AnalysisFocus(an.Language()), req.Provider)
	if err != nil {
		return nil, err
	}

	report := &internal.AggregatedReport{
		Language:           an.Language(),
		StructuralFacts:    fact,
		SecurityFindings:   findings,
		AIInsights:         result.Analysis,
		Narrative:          result.Narrative,
		RiskScore:          risk.Score(findings, result.Narrative),
		ExecutionTimeMS:    elapsedMS(start),
		ProviderUsed:       result.Provider,
		ProviderLatencyMS:  float64(result.Latency.Milliseconds()),
		ProvidersAttempted: attempted,
		RawResponse:        result.RawResponse,
		CreatedAt:          time.Now().UTC(),
	}
	return report, nil
}

// Optimize 执行优化建议请求
func (p *Pipeline) Optimize(ctx context.Context, req Request) (*internal.OptimizationReport, error) {
	start := time.Now()

	src, err := p.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	result, attempted, err := p.orch.Optimize(ctx, src.SourceCode, req.Provider)
	if err != nil {
		return nil, err
	}

	report := &internal.OptimizationReport{
		Language:           src.Language,
		Summary:            result.Narrative,
		ExecutionTimeMS:    elapsedMS(start),
		ProviderUsed:       result.Provider,
		ProvidersAttempted: attempted,
	}
	if result.Optimization != nil {
		report.Suggestions = result.Optimization.Suggestions
		report.Summary = result.Optimization.Summary
	}
	return report, nil
}

// ValidateDeployment 执行部署验证请求
func (p *Pipeline) ValidateDeployment(ctx context.Context, req Request) (*internal.DeploymentReport, error) {
	start := time.Now()

	src, err := p.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Network == "" {
		return nil, &ValidationError{Msg: "network must be provided for deployment validation"}
	}

	// EVM 目标网络先做地址格式预检，省掉一次注定失败的后端调用
	if evmNetworks[req.Network] && req.DeployerAddress != "" && !common.IsHexAddress(req.DeployerAddress) {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid deployer address for %s: %s", req.Network, req.DeployerAddress)}
	}

	result, attempted, err := p.orch.ValidateDeployment(ctx, src.SourceCode, req.Network, req.Provider)
	if err != nil {
		return nil, err
	}

	report := &internal.DeploymentReport{
		Network:            req.Network,
		Notes:              result.Narrative,
		ExecutionTimeMS:    elapsedMS(start),
		ProviderUsed:       result.Provider,
		ProvidersAttempted: attempted,
	}
	if result.Deployment != nil {
		report.IsValid = result.Deployment.IsValid
		report.EstimatedGas = result.Deployment.EstimatedGas
		report.Warnings = result.Deployment.Warnings
		report.Notes = result.Deployment.Notes
	}
	return report, nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
