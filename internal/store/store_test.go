package store

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/confide/internal/models"
)

// testDB opens a fresh in-memory database with the full schema.
// MaxOpenConns(1) keeps every query on the same sqlite memory file.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Confession{},
		&models.Like{},
		&models.Report{},
		&models.Comment{},
	))
	return db
}

// seedConfession creates a visible confession for tests that need one.
func seedConfession(t *testing.T, s *Stores, content, anonID string) *models.Confession {
	t.Helper()
	confession, err := s.Confessions.Create(content, anonID, nil, nil)
	require.NoError(t, err)
	return confession
}

// backdate pushes a confession's created_at into the past.
func backdate(t *testing.T, db *gorm.DB, id uint, age time.Duration) {
	t.Helper()
	past := time.Now().UTC().Add(-age)
	err := db.Model(&models.Confession{}).Where("id = ?", id).
		UpdateColumn("created_at", past).Error
	require.NoError(t, err)
}
