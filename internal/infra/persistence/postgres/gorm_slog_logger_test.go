package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"authsvc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGormSlogLogger_OmitsBoundValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: newGormSlogLogger(base, cfg),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(context.Background(), db))

	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("TestUser", "mail@mail.com")
	require.NoError(t, repo.Create(ctx, user))

	err = repo.Create(ctx, newTestUser("OtherUser", "mail@mail.com"))
	requireFieldInUse(t, err, "email")

	user.PasswordHash = "$2a$04$zyxwvutsrqponmlkjihgfeuJ9m8tC1Q7b1z1G0z9bq3hZq3S1m5Yd6"
	require.NoError(t, repo.Update(ctx, user))

	logged := buf.String()
	assert.Contains(t, logged, "GORM query failed")
	assert.Contains(t, logged, "INSERT INTO")
	assert.NotContains(t, logged, newTestUser("", "").PasswordHash)
	assert.NotContains(t, logged, user.PasswordHash)
	assert.NotContains(t, logged, "mail@mail.com")
}
