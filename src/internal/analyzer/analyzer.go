package analyzer

import (
	"errors"
	"fmt"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Analyzer 语言专属的启发式分析器。
// 实现必须是纯函数：相同输入永远产生相同输出，不访问网络，不持有状态。
type Analyzer interface {
	// Language 返回该分析器负责的语言标签
	Language() string
	// Identify 判断该分析器是否认领这段源码（用于自动识别）
	Identify(source string) bool
	// Extract 提取结构化事实
	Extract(source string) internal.StructuralFact
	// FindSafetyIssues 基于模式匹配的安全检测，允许漏报；弱信号以 low/informational 给出
	FindSafetyIssues(source string) []internal.HeuristicFinding
}

// ErrAnalyzerNotFound 没有分析器认领该语言
var ErrAnalyzerNotFound = errors.New("no heuristic analyzer registered for language")

// InternalError 分析器内部 panic 被边界捕获后的包装错误
type InternalError struct {
	Language string
	Cause    any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("analyzer %s panicked: %v", e.Language, e.Cause)
}

// Registry 分析器注册表，进程启动时构建一次，此后只读
type Registry struct {
	order  []string
	byLang map[string]Analyzer
}

// NewRegistry 创建并注册全部内置分析器
func NewRegistry() *Registry {
	r := &Registry{byLang: make(map[string]Analyzer)}
	r.register(NewMoveAnalyzer())
	r.register(NewCosmWasmAnalyzer())
	r.register(NewTEALAnalyzer())
	r.register(NewCircuitAnalyzer())
	return r
}

func (r *Registry) register(a Analyzer) {
	lang := a.Language()
	if _, ok := r.byLang[lang]; ok {
		return
	}
	r.order = append(r.order, lang)
	r.byLang[lang] = a
}

// Get 按显式语言标签查找分析器
func (r *Registry) Get(language string) (Analyzer, error) {
	a, ok := r.byLang[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAnalyzerNotFound, language)
	}
	return a, nil
}

// Detect 自动识别：按注册顺序运行全部 Identify 谓词，取第一个认领者。
// 这是一条次要的便利路径，显式标签优先。
func (r *Registry) Detect(source string) (Analyzer, error) {
	for _, lang := range r.order {
		if r.byLang[lang].Identify(source) {
			return r.byLang[lang], nil
		}
	}
	return nil, fmt.Errorf("%w: auto-detection matched nothing", ErrAnalyzerNotFound)
}

// Languages 返回注册顺序的语言列表
func (r *Registry) Languages() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Run 在分析器边界执行提取和安全检测，捕获内部 panic 并转换为 InternalError。
// 分析器是纯文本处理，正常不会失败；这里只是保证 panic 不会越过边界。
func Run(a Analyzer, source string) (fact internal.StructuralFact, findings []internal.HeuristicFinding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &InternalError{Language: a.Language(), Cause: rec}
		}
	}()

	fact = a.Extract(source)
	findings = a.FindSafetyIssues(source)
	return fact, findings, nil
}

// dedupe 去重并保留首次出现顺序，保证相同输入产生相同输出
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
