// Package migrations applies the embedded goose schema migrations.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const (
	sqliteDialect = "sqlite3"
	migrationsDir = "sql"
)

//go:embed sql/*.sql
var files embed.FS

// goose keeps its base FS, dialect and logger in package globals.
var mu sync.Mutex

// Up runs all pending migrations against db. Goose output goes to logger.
func Up(db *sql.DB, logger *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(zapLogger{logger.Sugar().Named("goose")})
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Version reports the current schema version.
func Version(db *sql.DB) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// zapLogger adapts a sugared zap logger to goose.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l zapLogger) Fatalf(format string, v ...interface{}) {
	l.s.Fatalf(format, v...)
}
