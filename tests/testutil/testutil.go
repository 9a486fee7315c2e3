package testutil

import (
	"os"
	"testing"

	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/models"
	"gorm.io/gorm"
)

// UseTestEnvironment switches GO_ENV to test for the lifetime of t and
// refuses to run against production
func UseTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env == "production" {
		t.Fatalf("SAFETY CHECK FAILED: refusing to run tests with GO_ENV=%q", env)
	}
	t.Setenv("GO_ENV", "test")
}

// NewTestDB opens a fresh in-memory SQLite database with every model migrated
// and installs it as the process-wide database
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	UseTestEnvironment(t)

	db, err := config.OpenDatabase("sqlite://:memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	config.SetDB(db)
	return db
}
