package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CLIConfig 保存解析好的 CLI 选项以及供处理器使用的规范化字段。
type CLIConfig struct {
	Task          string // analyze | optimize | validate
	AIProvider    string // openai | claude | grok，空表示按注册顺序选择
	Language      string // move | cosmwasm | teal | circuit，空表示自动识别
	SourceFile    string // 合约源码文件路径
	ContractID    int64  // 从数据库读取已保存合约，与 -file 二选一
	FrameworkHint string // 电路框架提示: circom | noir | halo2 | plonk
	Network       string // validate 任务的目标网络
	OutputDir     string // 报告输出目录
	SaveToDB      bool
	Verbose       bool
	Timeout       time.Duration

	Proxy string // HTTP 代理 (例如 http://127.0.0.1:7897)
}

// Validate 检查 CLIConfig 的必需/一致性输入。
func (c *CLIConfig) Validate() error {
	if c.Task == "" {
		return errors.New("-task is required: analyze|optimize|validate")
	}
	if c.Task != "analyze" && c.Task != "optimize" && c.Task != "validate" {
		return errors.New("-task must be one of: analyze, optimize, validate")
	}
	if c.SourceFile == "" && c.ContractID <= 0 {
		return errors.New("either -file or -id is required")
	}
	if c.SourceFile != "" && c.ContractID > 0 {
		return errors.New("-file and -id are mutually exclusive")
	}
	if c.Language != "" {
		switch c.Language {
		case "move", "cosmwasm", "teal", "circuit":
		default:
			return errors.New("-lang must be one of: move, cosmwasm, teal, circuit")
		}
	}
	if c.Task == "validate" && c.Network == "" {
		return errors.New("-network is required when -task=validate")
	}
	if c.OutputDir == "" {
		c.OutputDir = "reports"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}

// showHelp 显示帮助信息
func showHelp(topic string) {
	switch topic {
	case "task":
		showTaskHelp()
	case "ai":
		showAIHelp()
	case "lang", "language":
		showLangHelp()
	case "network":
		showNetworkHelp()
	default:
		showGeneralHelp()
	}
}

// showGeneralHelp 显示通用帮助
func showGeneralHelp() {
	fmt.Println("🔍 Multichain Excavator - 多链智能合约安全分析工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  excavator [选项]")
	fmt.Println()
	fmt.Println("主要选项:")
	fmt.Println("  -task <task>      任务类型: analyze | optimize | validate")
	fmt.Println("  -ai <provider>    首选AI后端 (openai | claude | grok)")
	fmt.Println("  -lang <lang>      合约语言 (move | cosmwasm | teal | circuit)，省略时自动识别")
	fmt.Println("  -file <path>      合约源码文件")
	fmt.Println("  -id <id>          从数据库加载已保存的合约")
	fmt.Println("  -network <net>    目标网络 (validate 任务必需)")
	fmt.Println("  -framework <fw>   电路框架提示 (circom | noir | halo2 | plonk)")
	fmt.Println("  -o <dir>          报告输出目录 (默认 reports)")
	fmt.Println("  -save             分析结果入库")
	fmt.Println("  -v                详细输出")
	fmt.Println()
	fmt.Println("获取特定命令的帮助:")
	fmt.Println("  excavator -task --help     # 任务类型帮助")
	fmt.Println("  excavator -ai --help       # AI后端帮助")
	fmt.Println("  excavator -lang --help     # 合约语言帮助")
	fmt.Println("  excavator -network --help  # 目标网络帮助")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  excavator -task analyze -ai claude -lang move -file token.move")
	fmt.Println("  excavator -task analyze -file contract.rs -save")
	fmt.Println("  excavator -task validate -file app.teal -lang teal -network algorand")
}

// showTaskHelp 显示任务类型帮助
func showTaskHelp() {
	fmt.Println("🎯 任务类型 (-task)")
	fmt.Println()
	fmt.Println("支持的任务:")
	fmt.Println("  analyze      安全分析 - 静态检测 + AI 深度分析 + 风险评分")
	fmt.Println("  optimize     优化建议 - gas/存储/计算优化")
	fmt.Println("  validate     部署验证 - 针对目标网络检查部署就绪状态")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  excavator -task <task> -file <path> [其他选项]")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  excavator -task analyze -ai openai -file token.move")
	fmt.Println("  excavator -task optimize -file contract.rs -lang cosmwasm")
	fmt.Println("  excavator -task validate -file circuit.circom -network ethereum")
}

// showAIHelp 显示AI后端帮助
func showAIHelp() {
	fmt.Println("🤖 AI后端 (-ai)")
	fmt.Println()
	fmt.Println("功能: 指定用于合约分析的首选AI后端，失败时自动回退到其他已配置后端")
	fmt.Println()
	fmt.Println("支持的后端:")
	fmt.Println("  openai       OpenAI GPT-4")
	fmt.Println("  claude       Anthropic Claude")
	fmt.Println("  grok         xAI Grok")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  excavator -task analyze -ai <provider> -file <path>")
	fmt.Println()
	fmt.Println("配置:")
	fmt.Println("  在 config/settings.yaml 中设置API密钥")
	fmt.Println("  或使用环境变量: OPENAI_API_KEY, ANTHROPIC_API_KEY, XAI_API_KEY")
	fmt.Println()
	fmt.Println("只有配置了密钥的后端才会注册；省略 -ai 时按 openai → claude → grok 顺序选择。")
}

// showLangHelp 显示合约语言帮助
func showLangHelp() {
	fmt.Println("📋 合约语言 (-lang)")
	fmt.Println()
	fmt.Println("支持的语言:")
	fmt.Println("  move         Move (Aptos / Sui)")
	fmt.Println("  cosmwasm     CosmWasm (Rust, Cosmos 生态)")
	fmt.Println("  teal         TEAL (Algorand)")
	fmt.Println("  circuit      零知识电路 (circom / noir / halo2 / plonk)")
	fmt.Println()
	fmt.Println("省略 -lang 时按源码特征自动识别，显式指定更可靠。")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  excavator -task analyze -lang move -file token.move")
	fmt.Println("  excavator -task analyze -lang circuit -framework circom -file hash.circom")
}

// showNetworkHelp 显示目标网络帮助
func showNetworkHelp() {
	fmt.Println("⛓️  目标网络 (-network)")
	fmt.Println()
	fmt.Println("功能: validate 任务的部署目标网络")
	fmt.Println()
	fmt.Println("常用网络:")
	fmt.Println("  aptos / sui          Move 合约")
	fmt.Println("  osmosis / juno       CosmWasm 合约")
	fmt.Println("  algorand             TEAL 合约")
	fmt.Println("  ethereum / polygon   电路验证合约")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  excavator -task validate -file app.teal -lang teal -network algorand")
	fmt.Println("  excavator -task validate -file verifier.circom -network ethereum")
}

// ParseFlags 解析 os.Args 并返回 CLIConfig 或错误。用于从 main 调用。
func ParseFlags() (*CLIConfig, error) {
	// 检查是否请求帮助
	if len(os.Args) > 1 {
		// 处理特定命令的帮助请求 (如 -task --help, -ai --help)
		for i := 1; i < len(os.Args)-1; i++ {
			if os.Args[i+1] == "--help" || os.Args[i+1] == "-h" {
				cmd := os.Args[i]
				if strings.HasPrefix(cmd, "--") {
					cmd = cmd[2:]
				} else if strings.HasPrefix(cmd, "-") {
					cmd = cmd[1:]
				}
				showHelp(cmd)
				os.Exit(0)
			}
		}

		// 处理通用帮助请求
		for _, arg := range os.Args[1:] {
			if arg == "--help" || arg == "-h" {
				showGeneralHelp()
				os.Exit(0)
			}
		}
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() {
		showGeneralHelp()
	}

	task := fs.String("task", "analyze", "Task to run: analyze | optimize | validate")
	ai := fs.String("ai", "", "Preferred AI provider: openai | claude | grok")
	lang := fs.String("lang", "", "Contract language: move | cosmwasm | teal | circuit (auto-detect when empty)")
	file := fs.String("file", "", "Contract source file path")
	id := fs.Int64("id", 0, "Load a saved contract from the database by id")
	framework := fs.String("framework", "", "Circuit framework hint: circom | noir | halo2 | plonk")
	network := fs.String("network", "", "Target network for deployment validation")
	output := fs.String("o", "reports", "Report output directory")
	save := fs.Bool("save", false, "Save the analysis report to the database")
	verbose := fs.Bool("v", false, "Verbose output")
	timeout := fs.Duration("timeout", 60*time.Second, "Per-AI request timeout")
	proxy := fs.String("proxy", "", "可选 HTTP 代理，例如 http://127.0.0.1:7897")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	cfg := &CLIConfig{
		Task:          strings.ToLower(strings.TrimSpace(*task)),
		AIProvider:    strings.ToLower(strings.TrimSpace(*ai)),
		Language:      strings.ToLower(strings.TrimSpace(*lang)),
		SourceFile:    strings.TrimSpace(*file),
		ContractID:    *id,
		FrameworkHint: strings.ToLower(strings.TrimSpace(*framework)),
		Network:       strings.ToLower(strings.TrimSpace(*network)),
		OutputDir:     strings.TrimSpace(*output),
		SaveToDB:      *save,
		Verbose:       *verbose,
		Timeout:       *timeout,
		Proxy:         strings.TrimSpace(*proxy),
	}

	// 如果提供了文件路径但不是绝对路径，则将其转为相对于当前工作目录
	if cfg.SourceFile != "" {
		if !filepath.IsAbs(cfg.SourceFile) {
			cwd, _ := os.Getwd()
			cfg.SourceFile = filepath.Join(cwd, cfg.SourceFile)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run 是一个便利包装，解析 flags 并分派到相应处理器。
func Run() error {
	cfg, err := ParseFlags()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return Execute(cfg)
}

// PrintFatal 将错误打印到 stderr 并以非零代码退出。
func PrintFatal(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "错误:", err)
	os.Exit(1)
}
