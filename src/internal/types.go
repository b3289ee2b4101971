package internal

import "time"

// 支持的合约语言标签
const (
	LanguageMove     = "move"
	LanguageCosmWasm = "cosmwasm"
	LanguageTEAL     = "teal"
	LanguageCircuit  = "circuit"
)

// 严重性等级（与 API 响应中的字符串一致，小写）
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "informational"
)

// ContractSource 待分析的合约源码，每次请求创建，创建后不再修改
type ContractSource struct {
	Language      string `json:"language"`
	SourceCode    string `json:"source_code"`
	FrameworkHint string `json:"framework_hint,omitempty"` // 例如 circom / noir / halo2
}

// Resource Move 资源定义
type Resource struct {
	Name      string   `json:"name"`
	Abilities []string `json:"abilities,omitempty"`
}

// TEALOperation 单条 TEAL 指令
type TEALOperation struct {
	Line      int      `json:"line"`
	Operation string   `json:"operation"`
	Args      []string `json:"args,omitempty"`
}

// SignalCounts Circom 电路的信号统计
type SignalCounts struct {
	Input        []string `json:"input"`
	Output       []string `json:"output"`
	Intermediate []string `json:"intermediate"`
}

// StructuralFact 启发式分析器提取的结构化事实。
// 只填充与对应语言相关的字段，其余保持零值。
type StructuralFact struct {
	Language string `json:"language"`

	// Move
	Modules   []string            `json:"modules,omitempty"`
	Resources []Resource          `json:"resources,omitempty"`
	Patterns  map[string][]string `json:"patterns,omitempty"`

	// CosmWasm
	EntryPoints    map[string]bool     `json:"entry_points,omitempty"`
	MessageTypes   map[string][]string `json:"message_types,omitempty"`
	StateItems     []string            `json:"state_structure,omitempty"`
	IBCIntegration bool                `json:"ibc_integration,omitempty"`

	// TEAL
	Operations     []TEALOperation `json:"operations,omitempty"`
	OperationCount int             `json:"operations_count,omitempty"`
	IsStateful     bool            `json:"is_stateful,omitempty"`
	GlobalStateOps []string        `json:"global_state_ops,omitempty"`
	LocalStateOps  []string        `json:"local_state_ops,omitempty"`
	ABIMethods     []string        `json:"abi_methods,omitempty"`

	// Circuit
	Framework        string        `json:"framework,omitempty"`
	Templates        []string      `json:"templates,omitempty"`
	Constraints      int           `json:"constraints,omitempty"`
	Signals          *SignalCounts `json:"signals,omitempty"`
	WitnessFunctions []string      `json:"witness_functions,omitempty"`
	HashOperations   []string      `json:"hash_operations,omitempty"`
	RandomnessUsage  bool          `json:"randomness_usage,omitempty"`
}

// HeuristicFinding 启发式检测发现的问题
type HeuristicFinding struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// AIFinding AI 后端返回的安全发现
type AIFinding struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisPayload 安全分析任务的结构化载荷
type AnalysisPayload struct {
	SecurityFindings []AIFinding `json:"security_findings"`
	RiskScore        int         `json:"risk_score"`
	Explanation      string      `json:"explanation"`
}

// OptimizationSuggestion 单条优化建议
type OptimizationSuggestion struct {
	Area             string `json:"area"`
	Suggestion       string `json:"suggestion"`
	PotentialSavings string `json:"potential_savings,omitempty"`
}

// OptimizationPayload 优化任务的结构化载荷
type OptimizationPayload struct {
	Suggestions []OptimizationSuggestion `json:"suggestions"`
	Summary     string                   `json:"summary"`
}

// DeploymentPayload 部署验证任务的结构化载荷
type DeploymentPayload struct {
	IsValid      bool     `json:"is_valid"`
	Warnings     []string `json:"warnings"`
	EstimatedGas int64    `json:"estimated_gas,omitempty"`
	Notes        string   `json:"notes"`
}

// ProviderResult 一次后端调用被接受的归一化结果。
// 每次编排至多接受一个 ProviderResult。
type ProviderResult struct {
	Provider     string               `json:"provider"`
	Narrative    string               `json:"narrative"`
	Analysis     *AnalysisPayload     `json:"analysis,omitempty"`
	Optimization *OptimizationPayload `json:"optimization,omitempty"`
	Deployment   *DeploymentPayload   `json:"deployment,omitempty"`
	RawResponse  string               `json:"-"`
	Latency      time.Duration        `json:"-"`
}

// AggregatedReport 分析管线的最终产物，构造后不再修改。
// JSON 字段名是对外契约的一部分，不能改。
type AggregatedReport struct {
	ID                 int64              `json:"id,omitempty"`
	Language           string             `json:"language"`
	StructuralFacts    StructuralFact     `json:"structural_facts"`
	SecurityFindings   []HeuristicFinding `json:"security_findings"`
	AIInsights         *AnalysisPayload   `json:"ai_insights,omitempty"`
	Narrative          string             `json:"narrative"`
	RiskScore          int                `json:"risk_score"`
	ExecutionTimeMS    float64            `json:"execution_time_ms"`
	ProviderUsed       string             `json:"provider_used"`
	ProviderLatencyMS  float64            `json:"provider_latency_ms,omitempty"`
	ProvidersAttempted []string           `json:"providers_attempted"`
	RawResponse        string             `json:"-"`
	CreatedAt          time.Time          `json:"created_at,omitempty"`
}

// OptimizationReport 优化任务的最终产物
type OptimizationReport struct {
	Language           string                   `json:"language"`
	Suggestions        []OptimizationSuggestion `json:"suggestions"`
	Summary            string                   `json:"summary"`
	ExecutionTimeMS    float64                  `json:"execution_time_ms"`
	ProviderUsed       string                   `json:"provider_used"`
	ProvidersAttempted []string                 `json:"providers_attempted"`
}

// DeploymentReport 部署验证任务的最终产物
type DeploymentReport struct {
	IsValid            bool     `json:"is_valid"`
	Network            string   `json:"network"`
	EstimatedGas       int64    `json:"estimated_gas,omitempty"`
	Warnings           []string `json:"warnings"`
	Notes              string   `json:"notes,omitempty"`
	ExecutionTimeMS    float64  `json:"execution_time_ms"`
	ProviderUsed       string   `json:"provider_used"`
	ProvidersAttempted []string `json:"providers_attempted"`
}

// ScanConfig CLI 解析后传给 handler 的规范化配置
type ScanConfig struct {
	Task          string // analyze | optimize | validate
	AIProvider    string // openai | claude | grok
	Language      string // move | cosmwasm | teal | circuit，空表示自动识别
	SourceFile    string
	ContractID    int64 // 从数据库加载已保存合约，和 SourceFile 二选一
	FrameworkHint string
	Network       string // validate 任务的目标网络
	OutputDir     string
	SaveToDB      bool
	Verbose       bool
	Timeout       time.Duration
	Proxy         string
}
