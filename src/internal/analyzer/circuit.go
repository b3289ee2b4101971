package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// ZK 电路框架标签
const (
	FrameworkCircom  = "circom"
	FrameworkNoir    = "noir"
	FrameworkHalo2   = "halo2"
	FrameworkPlonk   = "plonk"
	FrameworkUnknown = "unknown"
)

var (
	circuitTemplateRe     = regexp.MustCompile(`template\s+(\w+)`)
	circuitInputSignalRe  = regexp.MustCompile(`signal\s+input\s+(\w+)`)
	circuitOutputSignalRe = regexp.MustCompile(`signal\s+output\s+(\w+)`)
	circuitPlainSignalRe  = regexp.MustCompile(`signal\s+(\w+)`)
	circuitWitnessFnRe    = regexp.MustCompile(`(?i)fn\s+(\w*witness\w*)\s*\(`)
	circuitHashOpRe       = regexp.MustCompile(`(?i)(keccak|sha256|poseidon|blake2|mimc)`)
	circuitCastRe         = regexp.MustCompile(`as\s+u\d+|as\s+Field`)
	circuitGateDegreeRe   = regexp.MustCompile(`create_gate.*degree\s*>\s*3`)
)

// CircuitAnalyzer ZK 电路（circom/noir/halo2/plonk）的启发式分析器
type CircuitAnalyzer struct{}

func NewCircuitAnalyzer() *CircuitAnalyzer { return &CircuitAnalyzer{} }

func (a *CircuitAnalyzer) Language() string { return internal.LanguageCircuit }

// DetectFramework 识别电路所用框架
func (a *CircuitAnalyzer) DetectFramework(source string) string {
	switch {
	case strings.Contains(source, "pragma circom"):
		return FrameworkCircom
	case strings.Contains(source, "fn main(") && strings.Contains(source, "pub") && strings.Contains(source, "struct"):
		return FrameworkNoir
	case strings.Contains(source, "use halo2") || strings.Contains(source, "halo2::plonk"):
		return FrameworkHalo2
	case strings.Contains(strings.ToLower(source), "plonk"):
		return FrameworkPlonk
	default:
		return FrameworkUnknown
	}
}

func (a *CircuitAnalyzer) Identify(source string) bool {
	return a.DetectFramework(source) != FrameworkUnknown
}

func (a *CircuitAnalyzer) Extract(source string) internal.StructuralFact {
	fact := internal.StructuralFact{
		Language:  internal.LanguageCircuit,
		Framework: a.DetectFramework(source),
	}

	for _, m := range circuitTemplateRe.FindAllStringSubmatch(source, -1) {
		fact.Templates = append(fact.Templates, m[1])
	}
	fact.Templates = dedupe(fact.Templates)

	fact.Constraints = strings.Count(source, "===")

	inputs := submatches(circuitInputSignalRe, source)
	outputs := submatches(circuitOutputSignalRe, source)
	var intermediate []string
	reserved := map[string]bool{"input": true, "output": true}
	for _, name := range submatches(circuitPlainSignalRe, source) {
		if !reserved[name] && !contains(inputs, name) && !contains(outputs, name) {
			intermediate = append(intermediate, name)
		}
	}
	if len(inputs)+len(outputs)+len(intermediate) > 0 {
		fact.Signals = &internal.SignalCounts{
			Input:        inputs,
			Output:       outputs,
			Intermediate: intermediate,
		}
	}

	fact.WitnessFunctions = submatches(circuitWitnessFnRe, source)

	var hashes []string
	for _, m := range circuitHashOpRe.FindAllStringSubmatch(source, -1) {
		hashes = append(hashes, strings.ToLower(m[1]))
	}
	fact.HashOperations = dedupe(hashes)

	lower := strings.ToLower(source)
	fact.RandomnessUsage = strings.Contains(lower, "random") || strings.Contains(lower, "rand")

	return fact
}

func (a *CircuitAnalyzer) FindSafetyIssues(source string) []internal.HeuristicFinding {
	var findings []internal.HeuristicFinding

	switch a.DetectFramework(source) {
	case FrameworkCircom:
		// 有信号声明但没有任何约束，可靠性问题
		if circuitPlainSignalRe.MatchString(source) && !strings.Contains(source, "===") {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "soundness",
				Severity:    internal.SeverityHigh,
				Title:       "Potentially unconstrained signals",
				Description: "Signals are declared but no === constraints were found; unconstrained signals break circuit soundness.",
			})
		}
		if strings.Contains(source, "/") && !strings.Contains(source, "assert") {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "soundness",
				Severity:    internal.SeverityMedium,
				Title:       "Division without zero checks",
				Description: "Division operations appear without any assert; division by zero makes witnesses unsatisfiable.",
			})
		}

	case FrameworkNoir:
		if strings.Contains(source, "let mut") && !strings.Contains(source, "assert") {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "completeness",
				Severity:    internal.SeverityLow,
				Title:       "Mutable variables without assertions",
				Description: "Mutable bindings are used but no assert statements constrain them.",
			})
		}
		if circuitCastRe.MatchString(source) {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "soundness",
				Severity:    internal.SeverityMedium,
				Title:       "Type casting without validation",
				Description: "Casts to integer or Field types appear without range validation.",
			})
		}

	case FrameworkHalo2:
		if circuitGateDegreeRe.MatchString(source) {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "efficiency",
				Severity:    internal.SeverityLow,
				Title:       "High polynomial degree",
				Description: "Custom gates with degree above 3 increase proving cost.",
			})
		}
		if n := strings.Count(source, "lookup"); n > 5 {
			findings = append(findings, internal.HeuristicFinding{
				Category:    "efficiency",
				Severity:    internal.SeverityLow,
				Title:       "Excessive lookups",
				Description: fmt.Sprintf("%d lookups may impact prover performance.", n),
			})
		}
	}

	return findings
}

func submatches(re *regexp.Regexp, source string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(source, -1) {
		out = append(out, m[1])
	}
	return out
}

func contains(items []string, target string) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}
