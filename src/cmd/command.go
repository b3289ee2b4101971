package cmd

import (
	"fmt"

	"github.com/admi-n/multichain-Excavator/src/internal"
	"github.com/admi-n/multichain-Excavator/src/internal/handler"
)

// Execute 执行主命令逻辑
func Execute(cfg *CLIConfig) error {
	if cfg.Verbose {
		fmt.Printf("使用配置运行 Excavator: %+v\n", cfg)
	}

	// 将 CLIConfig 映射到 internal.ScanConfig
	internalCfg := internal.ScanConfig{
		Task:          cfg.Task,
		AIProvider:    cfg.AIProvider,
		Language:      cfg.Language,
		SourceFile:    cfg.SourceFile,
		ContractID:    cfg.ContractID,
		FrameworkHint: cfg.FrameworkHint,
		Network:       cfg.Network,
		OutputDir:     cfg.OutputDir,
		SaveToDB:      cfg.SaveToDB,
		Verbose:       cfg.Verbose,
		Timeout:       cfg.Timeout,
		Proxy:         cfg.Proxy,
	}

	// 根据任务分派到相应处理器
	switch cfg.Task {
	case "analyze":
		return handler.RunAnalyze(internalCfg)

	case "optimize":
		return handler.RunOptimize(internalCfg)

	case "validate":
		return handler.RunValidate(internalCfg)

	default:
		return fmt.Errorf("unsupported task: %s", cfg.Task)
	}
}
