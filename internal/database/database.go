package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const healthCheckTimeout = 3 * time.Second

// DefaultStatuses are inserted into an empty statuses table
var DefaultStatuses = []domain.Status{
	{ID: domain.StatusNew, Name: "New"},
	{ID: domain.StatusInProgress, Name: "In Progress"},
	{ID: domain.StatusSourced, Name: "Sourced"},
	{ID: domain.StatusCompleted, Name: "Completed"},
}

// DemoCustomer is inserted into an empty customers table. New requests belong to it.
var DemoCustomer = domain.Customer{
	FullName: "Demo Customer",
	Email:    "demo@sourceflow.local",
	Phone:    "0000000000",
}

// NewDatabase opens the configured store and verifies the connection
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLiteDSN())
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.IsInMemory() {
		// Every new connection would open a separate empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connected",
		zap.String("driver", cfg.Driver),
		zap.Bool("in_memory", cfg.IsInMemory()),
	)

	return db, nil
}

// Seed inserts the default statuses and the demo customer when their tables are empty
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var statuses int64
		if err := tx.Model(&domain.Status{}).Count(&statuses).Error; err != nil {
			return fmt.Errorf("failed to count statuses: %w", err)
		}
		if statuses == 0 {
			seed := make([]domain.Status, len(DefaultStatuses))
			copy(seed, DefaultStatuses)
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("failed to seed statuses: %w", err)
			}
		}

		var customers int64
		if err := tx.Model(&domain.Customer{}).Count(&customers).Error; err != nil {
			return fmt.Errorf("failed to count customers: %w", err)
		}
		if customers == 0 {
			demo := DemoCustomer
			if err := tx.Create(&demo).Error; err != nil {
				return fmt.Errorf("failed to seed demo customer: %w", err)
			}
		}

		return nil
	})
}

// HealthCheck pings the database
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// HealthCheckWithStats pings the database and returns its connection pool stats
func HealthCheckWithStats(db *gorm.DB) (*sql.DBStats, error) {
	if err := HealthCheck(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	stats := sqlDB.Stats()
	return &stats, nil
}
