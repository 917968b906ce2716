package postgres

import (
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Unique index names on the users table, see model.UserModel.
const (
	constraintUsersEmail    = "idx_users_email"
	constraintUsersUsername = "idx_users_username"
)

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	// SQLite: "UNIQUE constraint failed: users.email"
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key")
}

func isNotNullConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.NotNullViolation
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "not null constraint") ||
		strings.Contains(errMsg, "null value")
}

// uniqueViolationField names the user field behind a unique violation,
// or "" when the driver error does not say.
func uniqueViolationField(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case constraintUsersEmail:
			return "email"
		case constraintUsersUsername:
			return "username"
		}
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, constraintUsersEmail), strings.Contains(errMsg, "users.email"):
		return "email"
	case strings.Contains(errMsg, constraintUsersUsername), strings.Contains(errMsg, "users.username"):
		return "username"
	}

	return ""
}
