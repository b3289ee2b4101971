package analyzer

import (
	"regexp"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

var (
	cwMsgEnumRe   = regexp.MustCompile(`pub\s+enum\s+(\w*Msg)\s*\{`)
	cwStateItemRe = regexp.MustCompile(`pub\s+(?:const|static|struct)\s+(\w+)`)
)

// CosmWasmAnalyzer CosmWasm（Cosmos 生态）合约的启发式分析器
type CosmWasmAnalyzer struct{}

func NewCosmWasmAnalyzer() *CosmWasmAnalyzer { return &CosmWasmAnalyzer{} }

func (a *CosmWasmAnalyzer) Language() string { return internal.LanguageCosmWasm }

func (a *CosmWasmAnalyzer) Identify(source string) bool {
	return strings.Contains(source, "#[entry_point]") ||
		strings.Contains(source, "cosmwasm_std") ||
		strings.Contains(source, "CosmosMsg")
}

func (a *CosmWasmAnalyzer) Extract(source string) internal.StructuralFact {
	fact := internal.StructuralFact{Language: internal.LanguageCosmWasm}

	hasEntryAttr := strings.Contains(source, "#[entry_point]")
	fact.EntryPoints = map[string]bool{
		"instantiate": hasEntryAttr && strings.Contains(source, "fn instantiate("),
		"execute":     hasEntryAttr && strings.Contains(source, "fn execute("),
		"query":       hasEntryAttr && strings.Contains(source, "fn query("),
		"migrate":     strings.Contains(source, "fn migrate("),
		"reply":       strings.Contains(source, "fn reply("),
	}

	msgs := map[string][]string{}
	for _, m := range cwMsgEnumRe.FindAllStringSubmatch(source, -1) {
		switch {
		case strings.Contains(m[1], "Execute"):
			msgs["execute_msgs"] = append(msgs["execute_msgs"], m[1])
		case strings.Contains(m[1], "Query"):
			msgs["query_msgs"] = append(msgs["query_msgs"], m[1])
		}
	}
	lower := strings.ToLower(source)
	if strings.Contains(lower, "cw20") {
		msgs["cw_standards"] = append(msgs["cw_standards"], "CW20 (Token)")
	}
	if strings.Contains(lower, "cw721") {
		msgs["cw_standards"] = append(msgs["cw_standards"], "CW721 (NFT)")
	}
	if strings.Contains(lower, "cw1155") {
		msgs["cw_standards"] = append(msgs["cw_standards"], "CW1155 (Multi-token)")
	}
	if len(msgs) > 0 {
		fact.MessageTypes = msgs
	}

	for _, m := range cwStateItemRe.FindAllStringSubmatch(source, -1) {
		fact.StateItems = append(fact.StateItems, m[1])
	}
	fact.StateItems = dedupe(fact.StateItems)

	fact.IBCIntegration = strings.Contains(lower, "ibc")

	return fact
}

func (a *CosmWasmAnalyzer) FindSafetyIssues(source string) []internal.HeuristicFinding {
	var findings []internal.HeuristicFinding
	hasEntryAttr := strings.Contains(source, "#[entry_point]")

	if hasEntryAttr && !strings.Contains(source, "fn instantiate(") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "entry_points",
			Severity:    internal.SeverityMedium,
			Title:       "Missing instantiate entry point",
			Description: "Entry point attributes are present but no instantiate handler was found; contract state may start uninitialized.",
		})
	}

	// 消息枚举存在但没有任何入口点属性，弱信号
	if !hasEntryAttr && cwMsgEnumRe.MatchString(source) {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "entry_points",
			Severity:    internal.SeverityLow,
			Title:       "Message enums without entry point handlers",
			Description: "Msg enums are defined but no #[entry_point] attribute was found in this source unit.",
		})
	}

	if strings.Contains(source, "fn migrate(") && !strings.Contains(source, "ensure") && !strings.Contains(source, "assert") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "access_control",
			Severity:    internal.SeverityLow,
			Title:       "Migrate handler without visible guards",
			Description: "A migrate handler is present but no ensure!/assert guard appears in the source; verify migration is admin-gated.",
		})
	}

	if strings.Contains(strings.ToLower(source), "ibc") && !strings.Contains(strings.ToLower(source), "timeout") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "ibc",
			Severity:    internal.SeverityLow,
			Title:       "IBC integration without timeout handling",
			Description: "IBC usage detected but no timeout handling was found; stuck packets can lock funds.",
		})
	}

	return findings
}
