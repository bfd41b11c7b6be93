package handlers

import (
	"fmt"
	"testing"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps db.DB for a private in-memory SQLite database and
// points the document store at a scratch directory. A single pooled
// connection keeps the in-memory database alive across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to open test database: %v", err))
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		panic(fmt.Sprintf("Failed to get database instance: %v", err))
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.MigrateSchema(testDB); err != nil {
		panic(fmt.Sprintf("Failed to migrate test database: %v", err))
	}

	db.DB = testDB
	t.Cleanup(func() { sqlDB.Close() })

	store, err := storage.New(t.TempDir())
	if err != nil {
		panic(fmt.Sprintf("Failed to create test storage: %v", err))
	}
	DocumentStore = store

	return testDB
}
