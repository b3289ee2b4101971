package handler

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/admi-n/multichain-Excavator/src/config"
	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/ai"
	"github.com/admi-n/multichain-Excavator/src/internal/analyzer"
	"github.com/admi-n/multichain-Excavator/src/internal/pipeline"
	"github.com/admi-n/multichain-Excavator/src/internal/report"
)

// buildPipeline 组装一次任务需要的全部组件。
// 返回的 cleanup 负责关闭后端客户端和数据库连接。
func buildPipeline(cfg internal.ScanConfig) (*pipeline.Pipeline, *report.DBStore, func(), error) {
	// 配置文件可选，环境变量可以提供全部凭证
	if err := config.LoadSettings(""); err != nil {
		fmt.Printf("⚠️  未加载配置文件，仅使用环境变量: %v\n", err)
	}

	registry, err := ai.BuildRegistry(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("初始化 AI 后端失败: %w", err)
	}

	var store *report.DBStore
	var db interface{ Close() error }

	needDB := cfg.SaveToDB || cfg.ContractID > 0
	if needDB {
		dsn := config.GetDSN()
		conn, err := config.InitDB(dsn)
		if err != nil {
			registry.Close()
			return nil, nil, nil, fmt.Errorf("初始化数据库失败: %w", err)
		}
		db = conn
		store = report.NewDBStore(conn, config.DriverForDSN(dsn))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		err = store.EnsureSchema(ctx)
		cancel()
		if err != nil {
			registry.Close()
			conn.Close()
			return nil, nil, nil, fmt.Errorf("初始化数据库表失败: %w", err)
		}
	}

	cleanup := func() {
		registry.Close()
		if db != nil {
			db.Close()
		}
	}

	var loader pipeline.ContractLoader
	if store != nil {
		loader = store
	}

	p := pipeline.New(analyzer.NewRegistry(), ai.NewOrchestrator(registry), loader)
	return p, store, cleanup, nil
}

// buildRequest 把 CLI 配置转换成管线请求
func buildRequest(cfg internal.ScanConfig) (pipeline.Request, error) {
	req := pipeline.Request{
		ContractID:    cfg.ContractID,
		Language:      cfg.Language,
		Provider:      cfg.AIProvider,
		FrameworkHint: cfg.FrameworkHint,
		Network:       cfg.Network,
	}

	if cfg.SourceFile != "" {
		data, err := os.ReadFile(cfg.SourceFile)
		if err != nil {
			return req, fmt.Errorf("读取合约文件失败: %w", err)
		}
		req.SourceCode = string(data)
	}

	return req, nil
}

// RunAnalyze 执行安全分析任务
func RunAnalyze(cfg internal.ScanConfig) error {
	fmt.Println("🎯 启动多链合约安全分析...")

	p, store, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	result, err := p.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("分析失败: %w", err)
	}

	// 打印摘要
	fmt.Printf("\n%s\n", strings.Repeat("=", 50))
	fmt.Printf("✅ 分析完成！\n")
	fmt.Printf("   - 合约语言: %s\n", result.Language)
	fmt.Printf("   - 风险评分: %d/100\n", result.RiskScore)
	fmt.Printf("   - 静态发现: %d 个\n", len(result.SecurityFindings))
	fmt.Printf("   - AI 后端: %s (耗时 %.0f ms)\n", result.ProviderUsed, result.ProviderLatencyMS)
	if len(result.ProvidersAttempted) > 1 {
		fmt.Printf("   - 回退链: %s\n", strings.Join(result.ProvidersAttempted, " → "))
	}
	fmt.Printf("%s\n", strings.Repeat("=", 50))

	printFindingSummary(result.SecurityFindings)

	if cfg.Verbose && result.RawResponse != "" {
		fmt.Printf("\nAI 原始响应:\n%s\n", result.RawResponse)
	}

	// 生成 markdown 报告
	reporter := report.NewReporter(report.NewMarkdownGenerator(), report.NewFileStorage(cfg.OutputDir))
	path, err := reporter.GenerateAndSave(result)
	if err != nil {
		return fmt.Errorf("生成报告失败: %w", err)
	}
	fmt.Printf("📄 报告已保存: %s\n", path)

	// 可选入库
	if cfg.SaveToDB && store != nil {
		id, err := store.SaveReport(ctx, result)
		if err != nil {
			return fmt.Errorf("保存报告到数据库失败: %w", err)
		}
		fmt.Printf("💾 报告已入库: id=%d\n", id)
	}

	return nil
}

// RunOptimize 执行优化建议任务
func RunOptimize(cfg internal.ScanConfig) error {
	fmt.Println("⚡ 启动合约优化分析...")

	p, _, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	result, err := p.Optimize(ctx, req)
	if err != nil {
		return fmt.Errorf("优化分析失败: %w", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 50))
	fmt.Printf("✅ 优化分析完成！共 %d 条建议\n", len(result.Suggestions))
	fmt.Printf("%s\n", strings.Repeat("=", 50))
	for i, s := range result.Suggestions {
		fmt.Printf("  %d. [%s] %s\n", i+1, s.Area, s.Suggestion)
		if s.PotentialSavings != "" {
			fmt.Printf("     预期收益: %s\n", s.PotentialSavings)
		}
	}
	if result.Summary != "" {
		fmt.Printf("\n摘要: %s\n", result.Summary)
	}

	content, err := report.NewMarkdownGenerator().GenerateOptimization(result)
	if err != nil {
		return fmt.Errorf("生成报告失败: %w", err)
	}
	path, err := report.NewFileStorage(cfg.OutputDir).Save("optimize_"+result.Language, content)
	if err != nil {
		return fmt.Errorf("保存报告失败: %w", err)
	}
	fmt.Printf("📄 报告已保存: %s\n", path)

	return nil
}

// RunValidate 执行部署验证任务
func RunValidate(cfg internal.ScanConfig) error {
	fmt.Printf("🚀 启动部署验证 (目标网络: %s)...\n", cfg.Network)

	p, _, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	result, err := p.ValidateDeployment(ctx, req)
	if err != nil {
		return fmt.Errorf("部署验证失败: %w", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 50))
	if result.IsValid {
		fmt.Printf("✅ 验证通过，可以部署到 %s\n", result.Network)
	} else {
		fmt.Printf("❌ 验证未通过，不建议部署到 %s\n", result.Network)
	}
	if result.EstimatedGas > 0 {
		fmt.Printf("   - 预估 Gas: %d\n", result.EstimatedGas)
	}
	for _, w := range result.Warnings {
		fmt.Printf("   ⚠️  %s\n", w)
	}
	fmt.Printf("%s\n", strings.Repeat("=", 50))

	content, err := report.NewMarkdownGenerator().GenerateDeployment(result)
	if err != nil {
		return fmt.Errorf("生成报告失败: %w", err)
	}
	path, err := report.NewFileStorage(cfg.OutputDir).Save("deploy_"+result.Network, content)
	if err != nil {
		return fmt.Errorf("保存报告失败: %w", err)
	}
	fmt.Printf("📄 报告已保存: %s\n", path)

	return nil
}

// printFindingSummary 打印启发式发现摘要
func printFindingSummary(findings []internal.HeuristicFinding) {
	if len(findings) == 0 {
		fmt.Println("  ✅ 静态检测未发现问题")
		return
	}

	fmt.Printf("  ⚠️  静态检测发现 %d 个潜在问题:\n", len(findings))
	for i, f := range findings {
		fmt.Printf("    %d. %s [%s] %s\n", i+1, getSeverityEmoji(f.Severity), f.Severity, f.Title)
		if f.Description != "" && len(f.Description) < 200 {
			fmt.Printf("       描述: %s\n", f.Description)
		}
	}
}

// getSeverityEmoji 根据严重性返回对应的表情符号
func getSeverityEmoji(severity string) string {
	switch severity {
	case internal.SeverityCritical:
		return "🔴"
	case internal.SeverityHigh:
		return "🟠"
	case internal.SeverityMedium:
		return "🟡"
	case internal.SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}
