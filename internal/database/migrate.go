package database

import (
	"database/sql"
	"embed"
	"fmt"
	stdlog "log"
	"strings"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migration commands understood by RunMigrations
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// SQLDriverName returns the database/sql driver registered for the configured store
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite3", nil
	case config.DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// DataSourceName returns the database/sql DSN for the configured store
func DataSourceName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return cfg.ConnectionString()
	}
	return cfg.SQLiteDSN()
}

// AutoMigrate applies any pending embedded migrations. The goose SQL is the
// only schema definition; existing tables and rows are never altered.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	goose.SetLogger(&gooseLogger{log: log.Sugar()})
	defer goose.SetLogger(stdlog.Default())

	return RunMigrations(sqlDB, db.Dialector.Name(), MigrateUp)
}

// gooseLogger routes goose progress lines through zap
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations runs a goose command against the embedded migrations for the driver
func RunMigrations(db *sql.DB, driver, command string) error {
	dialect, err := SQLDriverName(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir := "migrations/" + driver

	switch command {
	case MigrateUp:
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
	case MigrateDown:
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	case MigrateStatus:
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
	case MigrateVersion:
		if err := goose.Version(db, dir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}

	return nil
}

// CurrentVersion returns the newest applied migration version
func CurrentVersion(db *sql.DB, driver string) (int64, error) {
	dialect, err := SQLDriverName(driver)
	if err != nil {
		return 0, err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(db)
}
