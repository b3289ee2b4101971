package report

import (
	"fmt"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// Reporter 报告器，整合生成器和存储功能
type Reporter struct {
	generator Generator
	storage   Storage
}

// NewReporter 创建报告器
func NewReporter(generator Generator, storage Storage) *Reporter {
	return &Reporter{
		generator: generator,
		storage:   storage,
	}
}

// GenerateAndSave 生成并保存分析报告，返回保存路径
func (r *Reporter) GenerateAndSave(report *internal.AggregatedReport) (string, error) {
	// 生成报告内容
	content, err := r.generator.Generate(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	// 保存报告
	path, err := r.storage.Save(report.Language, content)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return path, nil
}
