package risk

import (
	"strings"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// 叙述文本中按优先级匹配的严重性关键词及其加分
var severityBonuses = []struct {
	keyword string
	bonus   int
}{
	{internal.SeverityCritical, 30},
	{internal.SeverityHigh, 15},
	{internal.SeverityMedium, 5},
}

// Score 把启发式发现数量和 AI 叙述合成为 [0,100] 的风险分。
// base = min(100, 10 * 发现数)；叙述中第一个命中的严重性关键词追加一次加分
// (critical:+30 > high:+15 > medium:+5)，最终再截断到 100。
// 对发现数量和关键词优先级单调不减。
//
// 对非结构化叙述做子串匹配是脆弱的启发式代理，不是校准过的概率；
// TODO: 等后端支持结构化严重性输出后改用结构化契约取代关键词匹配。
func Score(findings []internal.HeuristicFinding, narrative string) int {
	base := 10 * len(findings)
	if base > 100 {
		base = 100
	}

	lower := strings.ToLower(narrative)
	for _, sb := range severityBonuses {
		if strings.Contains(lower, sb.keyword) {
			base += sb.bonus
			break
		}
	}

	if base > 100 {
		base = 100
	}
	return base
}
