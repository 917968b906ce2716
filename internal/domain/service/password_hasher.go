// Package service defines interfaces for stateless domain logic
// that does not belong to a single entity.
package service

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	// Two calls with the same input return different encodings.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash yields false.
	Check(password, hash string) bool
}
