package testutil

import (
	"context"
	"testing"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/database"
	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB opens a fresh in-memory sqlite database with the schema created and seeded.
// Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := SetupUnseededTestDB(t)
	require.NoError(t, database.Seed(context.Background(), db))
	return db
}

// SetupUnseededTestDB opens a fresh in-memory sqlite database with empty tables
func SetupUnseededTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := SetupEmptyTestDB(t)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

// SetupEmptyTestDB opens a fresh in-memory sqlite database without any tables
func SetupEmptyTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	}
	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err, "Failed to open in-memory sqlite database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestRequest inserts a request for the demo customer and returns it
func CreateTestRequest(t *testing.T, db *gorm.DB, itemName string, status domain.StatusID) *domain.Request {
	t.Helper()

	var customer domain.Customer
	require.NoError(t, db.Order("customer_id").First(&customer).Error)

	request := &domain.Request{
		CustomerID: customer.ID,
		StatusID:   status,
		ItemName:   itemName,
	}
	require.NoError(t, db.Omit("Customer", "Status", "Notes").Create(request).Error)
	return request
}

// CreateTestNote inserts a note on the request and returns it
func CreateTestNote(t *testing.T, db *gorm.DB, requestID int64, text string) *domain.RequestNote {
	t.Helper()

	note := &domain.RequestNote{RequestID: requestID, Text: text}
	require.NoError(t, db.Create(note).Error)
	return note
}

// CountNotes returns the number of notes stored for a request
func CountNotes(t *testing.T, db *gorm.DB, requestID int64) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&domain.RequestNote{}).Where("request_id = ?", requestID).Count(&n).Error)
	return n
}
