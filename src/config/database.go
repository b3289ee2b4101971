package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// 本地默认 DSN - 直接在这里修改
const (
	DefaultDSN = "root:123456@tcp(localhost:3306)/multichain_excavator?parseTime=true&charset=utf8mb4"
)

// GetDSN 返回数据库连接串：环境变量 DATABASE_URL 优先，其次配置文件，最后默认值
func GetDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	if globalSettings != nil && globalSettings.Database.DSN != "" {
		return globalSettings.Database.DSN
	}
	return DefaultDSN
}

// DriverForDSN 根据 DSN 选择驱动：postgres:// 走 pgx，其余按 MySQL 处理
func DriverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "mysql"
}

// InitDB 初始化数据库连接池并 ping 验证
func InitDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = GetDSN()
	}

	db, err := sql.Open(DriverForDSN(dsn), dsn)
	if err != nil {
		return nil, fmt.Errorf("InitDB: %w", err)
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 验证连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("InitDB ping failed: %w", err)
	}

	return db, nil
}
