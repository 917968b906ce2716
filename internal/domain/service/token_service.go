package service

import (
	"github.com/google/uuid"
)

// TokenService issues and verifies signed bearer tokens that identify a user.
type TokenService interface {
	// Issue returns a signed token for userID.
	Issue(userID uuid.UUID) (string, error)

	// Verify checks the token's signature and returns the user id it carries.
	// It does not check that the user still exists.
	Verify(token string) (uuid.UUID, error)
}
