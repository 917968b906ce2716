// Package entity contains the core business objects of authsvc.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and manage its own profile.
type User struct {
	ID           uuid.UUID // Stable identifier, assigned by the store on create.
	Username     string    // Unique, 4 to 20 characters.
	Email        string    // Unique login identifier.
	PasswordHash string    // bcrypt encoding of the password. Never leaves the service.
	Version      int       // Optimistic lock counter, bumped by every successful update.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a shallow copy, so a use case can stage changes without touching the caller's user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u

	return &cp
}
