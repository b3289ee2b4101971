package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Move 语言（Aptos/Sui）的结构匹配
var (
	moveModuleRe     = regexp.MustCompile(`module\s+(\w+)::(\w+)`)
	moveResourceRe   = regexp.MustCompile(`struct\s+(\w+)\s*(?:has\s+([^{]+))?\{`)
	moveCapabilityRe = regexp.MustCompile(`struct\s+\w+Capability`)
	moveStorageOpRe  = regexp.MustCompile(`move_to|borrow_global_mut|borrow_global|exists`)
	moveAbortRe      = regexp.MustCompile(`abort\s+\d+`)
	moveNestedMutRe  = regexp.MustCompile(`&mut.*&mut`)
)

// MoveAnalyzer Move 合约的启发式分析器
type MoveAnalyzer struct{}

func NewMoveAnalyzer() *MoveAnalyzer { return &MoveAnalyzer{} }

func (a *MoveAnalyzer) Language() string { return internal.LanguageMove }

func (a *MoveAnalyzer) Identify(source string) bool {
	if moveModuleRe.MatchString(source) {
		return true
	}
	return strings.Contains(source, "move_to") || strings.Contains(source, "borrow_global")
}

func (a *MoveAnalyzer) Extract(source string) internal.StructuralFact {
	fact := internal.StructuralFact{Language: internal.LanguageMove}

	for _, m := range moveModuleRe.FindAllStringSubmatch(source, -1) {
		fact.Modules = append(fact.Modules, m[1]+"::"+m[2])
	}
	fact.Modules = dedupe(fact.Modules)

	for _, m := range moveResourceRe.FindAllStringSubmatch(source, -1) {
		res := internal.Resource{Name: m[1]}
		if m[2] != "" {
			for _, ab := range strings.Split(m[2], ",") {
				if ab = strings.TrimSpace(ab); ab != "" {
					res.Abilities = append(res.Abilities, ab)
				}
			}
		}
		fact.Resources = append(fact.Resources, res)
	}

	patterns := map[string][]string{}
	if strings.Contains(source, "signer") {
		patterns["signer_usage"] = []string{"Uses signer for authentication"}
	}
	if moveCapabilityRe.MatchString(source) {
		patterns["capability_patterns"] = []string{"Uses capability-based security"}
	}
	if ops := dedupe(moveStorageOpRe.FindAllString(source, -1)); len(ops) > 0 {
		for _, op := range ops {
			patterns["storage_operations"] = append(patterns["storage_operations"], "Uses "+op)
		}
	}
	if n := len(moveAbortRe.FindAllString(source, -1)); n > 0 {
		patterns["abort_conditions"] = []string{fmt.Sprintf("Found %d abort conditions", n)}
	}
	if len(patterns) > 0 {
		fact.Patterns = patterns
	}

	return fact
}

func (a *MoveAnalyzer) FindSafetyIssues(source string) []internal.HeuristicFinding {
	var findings []internal.HeuristicFinding

	if moveNestedMutRe.MatchString(source) {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "reference_safety",
			Severity:    internal.SeverityMedium,
			Title:       "Potential nested mutable references",
			Description: "Multiple &mut borrows appear on the same line; nested mutable references can violate Move's borrow discipline.",
		})
	}

	// 无 signer 校验的可变全局访问
	if strings.Contains(source, "borrow_global_mut") && !strings.Contains(source, "signer") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "access_control",
			Severity:    internal.SeverityHigh,
			Title:       "Unguarded mutable global access",
			Description: "borrow_global_mut is used without any signer in scope; ensure signer verification before mutable global storage access.",
		})
	}

	if strings.Contains(source, "loop") && !strings.Contains(source, "break") {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "control_flow",
			Severity:    internal.SeverityMedium,
			Title:       "Potential infinite loop",
			Description: "A loop construct is present without any break statement.",
		})
	}

	if n := len(moveAbortRe.FindAllString(source, -1)); n > 0 {
		findings = append(findings, internal.HeuristicFinding{
			Category:    "abort_conditions",
			Severity:    internal.SeverityInfo,
			Title:       "Numeric abort codes",
			Description: fmt.Sprintf("Found %d abort conditions with raw numeric codes; consider named error constants.", n),
		})
	}

	return findings
}
