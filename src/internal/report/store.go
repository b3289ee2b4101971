package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/admi-n/multichain-Excavator/src/internal"
)

// DBStore 数据库持久化，同时支持 MySQL 和 PostgreSQL。
// driver 取 "mysql" 或 "pgx"，决定建表语句和占位符风格。
type DBStore struct {
	db     *sql.DB
	driver string
}

// NewDBStore 创建数据库存储
func NewDBStore(db *sql.DB, driver string) *DBStore {
	return &DBStore{db: db, driver: driver}
}

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS contracts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	language VARCHAR(32) NOT NULL,
	framework_hint VARCHAR(32) NOT NULL DEFAULT '',
	source_code MEDIUMTEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS analysis_reports (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	language VARCHAR(32) NOT NULL,
	risk_score INT NOT NULL,
	provider_used VARCHAR(32) NOT NULL,
	providers_attempted TEXT,
	structural_facts JSON,
	security_findings JSON,
	narrative MEDIUMTEXT,
	execution_time_ms DOUBLE NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS contracts (
	id BIGSERIAL PRIMARY KEY,
	language VARCHAR(32) NOT NULL,
	framework_hint VARCHAR(32) NOT NULL DEFAULT '',
	source_code TEXT NOT NULL,
	created_at TIMESTAMPTZ DEFAULT now()
);
CREATE TABLE IF NOT EXISTS analysis_reports (
	id BIGSERIAL PRIMARY KEY,
	language VARCHAR(32) NOT NULL,
	risk_score INT NOT NULL,
	provider_used VARCHAR(32) NOT NULL,
	providers_attempted TEXT,
	structural_facts JSONB,
	security_findings JSONB,
	narrative TEXT,
	execution_time_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ DEFAULT now()
);`

// EnsureSchema 创建缺失的表，进程启动时调用一次
func (s *DBStore) EnsureSchema(ctx context.Context) error {
	schema := mysqlSchema
	if s.driver == "pgx" {
		schema = postgresSchema
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// rebind 把 MySQL 风格的 ? 占位符转换成 PostgreSQL 的 $N
func (s *DBStore) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// SaveReport 保存分析报告，返回新记录 id
func (s *DBStore) SaveReport(ctx context.Context, report *internal.AggregatedReport) (int64, error) {
	facts, err := json.Marshal(report.StructuralFacts)
	if err != nil {
		return 0, fmt.Errorf("marshal structural facts: %w", err)
	}
	findings, err := json.Marshal(report.SecurityFindings)
	if err != nil {
		return 0, fmt.Errorf("marshal findings: %w", err)
	}

	query := `INSERT INTO analysis_reports
		(language, risk_score, provider_used, providers_attempted, structural_facts, security_findings, narrative, execution_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		report.Language,
		report.RiskScore,
		report.ProviderUsed,
		strings.Join(report.ProvidersAttempted, ","),
		string(facts),
		string(findings),
		report.Narrative,
		report.ExecutionTimeMS,
		time.Now().UTC(),
	}

	if s.driver == "pgx" {
		var id int64
		row := s.db.QueryRowContext(ctx, s.rebind(query)+" RETURNING id", args...)
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("save report: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	return id, nil
}

// GetReport 按 id 读取分析报告
func (s *DBStore) GetReport(ctx context.Context, id int64) (*internal.AggregatedReport, error) {
	query := s.rebind(`SELECT id, language, risk_score, provider_used, providers_attempted,
		structural_facts, security_findings, narrative, execution_time_ms, created_at
		FROM analysis_reports WHERE id = ?`)

	var (
		report    internal.AggregatedReport
		attempted string
		facts     []byte
		findings  []byte
	)
	row := s.db.QueryRowContext(ctx, query, id)
	err := row.Scan(&report.ID, &report.Language, &report.RiskScore, &report.ProviderUsed,
		&attempted, &facts, &findings, &report.Narrative, &report.ExecutionTimeMS, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get report %d: %w", id, err)
	}

	if attempted != "" {
		report.ProvidersAttempted = strings.Split(attempted, ",")
	}
	if len(facts) > 0 {
		if err := json.Unmarshal(facts, &report.StructuralFacts); err != nil {
			return nil, fmt.Errorf("get report %d: decode facts: %w", id, err)
		}
	}
	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &report.SecurityFindings); err != nil {
			return nil, fmt.Errorf("get report %d: decode findings: %w", id, err)
		}
	}
	return &report, nil
}

// ReportSummary 列表查询的摘要行
type ReportSummary struct {
	ID           int64     `json:"id"`
	Language     string    `json:"language"`
	RiskScore    int       `json:"risk_score"`
	ProviderUsed string    `json:"provider_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListReports 按时间倒序列出最近的分析报告
func (s *DBStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := s.rebind(`SELECT id, language, risk_score, provider_used, created_at
		FROM analysis_reports ORDER BY created_at DESC LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.Language, &r.RiskScore, &r.ProviderUsed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveContract 保存合约源码，返回新记录 id
func (s *DBStore) SaveContract(ctx context.Context, src *internal.ContractSource) (int64, error) {
	query := `INSERT INTO contracts (language, framework_hint, source_code) VALUES (?, ?, ?)`

	if s.driver == "pgx" {
		var id int64
		row := s.db.QueryRowContext(ctx, s.rebind(query)+" RETURNING id",
			src.Language, src.FrameworkHint, src.SourceCode)
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("save contract: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, src.Language, src.FrameworkHint, src.SourceCode)
	if err != nil {
		return 0, fmt.Errorf("save contract: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save contract: %w", err)
	}
	return id, nil
}

// LoadContract 按 id 加载已保存的合约源码
func (s *DBStore) LoadContract(ctx context.Context, id int64) (*internal.ContractSource, error) {
	query := s.rebind(`SELECT language, framework_hint, source_code FROM contracts WHERE id = ?`)

	var src internal.ContractSource
	row := s.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&src.Language, &src.FrameworkHint, &src.SourceCode); err != nil {
		return nil, fmt.Errorf("load contract %d: %w", id, err)
	}
	return &src, nil
}
