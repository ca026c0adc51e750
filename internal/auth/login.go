// Package auth provides password login and signed sessions.
package auth

import (
	"errors"
	"fmt"

	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/user"
)

// ErrInvalidCredentials is returned for any failed login. It does not say
// whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserFinder looks users up by email. user.Repository satisfies it.
type UserFinder interface {
	GetByEmail(email string) (*user.User, error)
}

// Authenticator checks email and password logins.
type Authenticator struct {
	users UserFinder
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(users UserFinder) *Authenticator {
	return &Authenticator{users: users}
}

// Login returns the user whose email and password match.
func (a *Authenticator) Login(email, password string) (*user.User, error) {
	u, err := a.users.GetByEmail(email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
