package analyzer

import (
	"fmt"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// TEALAnalyzer TEAL/PyTeal（Algorand）合约的启发式分析器
type TEALAnalyzer struct{}

func NewTEALAnalyzer() *TEALAnalyzer { return &TEALAnalyzer{} }

func (a *TEALAnalyzer) Language() string { return internal.LanguageTEAL }

func (a *TEALAnalyzer) Identify(source string) bool {
	return strings.Contains(source, "#pragma version") ||
		strings.Contains(source, "app_global_get") ||
		strings.Contains(source, "app_global_put") ||
		strings.Contains(source, "app_local_get")
}

// parseOps 提取逐行指令，跳过空行和注释
func (a *TEALAnalyzer) parseOps(source string) []internal.TEALOperation {
	var ops []internal.TEALOperation
	for i, line := range strings.Split(strings.TrimSpace(source), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		op := internal.TEALOperation{Line: i + 1, Operation: parts[0]}
		if len(parts) > 1 {
			op.Args = parts[1:]
		}
		ops = append(ops, op)
	}
	return ops
}

func (a *TEALAnalyzer) Extract(source string) internal.StructuralFact {
	fact := internal.StructuralFact{Language: internal.LanguageTEAL}

	fact.Operations = a.parseOps(source)
	fact.OperationCount = len(fact.Operations)

	// 原始判定很弱：出现 byte/int 即视为有状态
	fact.IsStateful = strings.Contains(source, "byte") || strings.Contains(source, "int")

	if strings.Contains(source, "app_global_get") || strings.Contains(source, "app_global_put") {
		fact.GlobalStateOps = []string{"Uses global state"}
	}
	if strings.Contains(source, "app_local_get") || strings.Contains(source, "app_local_put") {
		fact.LocalStateOps = []string{"Uses local state"}
	}
	if strings.Contains(source, "@abi.method") || strings.Contains(source, "abi_call") {
		fact.ABIMethods = []string{"Uses ABI routing"}
	}

	return fact
}

func (a *TEALAnalyzer) FindSafetyIssues(source string) []internal.HeuristicFinding {
	var findings []internal.HeuristicFinding

	if n := len(a.parseOps(source)); n > 100 {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "stack_depth",
			Severity:    internal.SeverityMedium,
			Title:       "High instruction count",
			Description: fmt.Sprintf("%d instructions in a single program may cause stack depth issues.", n),
		})
	}

	if strings.Contains(source, "txn GroupIndex") && !strings.Contains(source, "txna") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "transaction_group",
			Severity:    internal.SeverityHigh,
			Title:       "Transaction group without validation",
			Description: "txn GroupIndex is used but no txna access was found; group members should be validated explicitly.",
		})
	}

	if strings.Contains(source, "arg") && !strings.Contains(source, "len") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "input_validation",
			Severity:    internal.SeverityMedium,
			Title:       "Arguments used without length validation",
			Description: "Program arguments are read without any len check.",
		})
	}

	return findings
}
