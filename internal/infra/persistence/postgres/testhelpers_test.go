package postgres

import (
	"context"
	"testing"

	"authsvc/internal/domain/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the users schema.
// A single connection keeps the database alive and serializes writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))

	return db
}

func newTestUser(username, email string) *entity.User {
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuuJ9m8tC1Q7b1z1G0z9bq3hZq3S1m5Yd6",
	}
}
