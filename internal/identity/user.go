// Package identity implements the identity verifier: it owns user records,
// issues bearer tokens at login and validates them for the other services.
package identity

import (
	"errors"

	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

var (
	ErrNotFound           = errors.New("identity: user not found")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// User is an identity record. The password hash never leaves this package.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	PasswordHash []byte
}

// Identity returns the externally visible view of the user.
func (u *User) Identity() middleware.Identity {
	return middleware.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
