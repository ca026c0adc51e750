// Package user provides the user domain model, password handling and data access.
package user

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the role_id of a user. Values match the seeded roles table.
type Role int64

const (
	RoleAdministrator Role = 1
	RoleAgent         Role = 2
	RoleClient        Role = 3
)

// Valid returns true if r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleAgent, RoleClient:
		return true
	}
	return false
}

// String returns the role's display name.
func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleAgent:
		return "Agent"
	case RoleClient:
		return "Client"
	default:
		return fmt.Sprintf("Role(%d)", int64(r))
	}
}

// ParseRole accepts a role name or its numeric code.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin", "administrator", "1":
		return RoleAdministrator, nil
	case "agent", "2":
		return RoleAgent, nil
	case "client", "3":
		return RoleClient, nil
	}
	return 0, fmt.Errorf("unknown role: %q", s)
}

// ErrEmptyPassword is returned when setting an empty password.
var ErrEmptyPassword = errors.New("password must not be empty")

// User is a person with an account: client, agent or administrator.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword replaces the stored hash with a salted bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Identifier is the stable external ID handed to session tokens.
func (u *User) Identifier() string {
	return strconv.FormatInt(u.ID, 10)
}

// IsAuthenticated reports whether the user counts as authenticated.
// Administrators and agents always do; everyone else needs a valid session.
func (u *User) IsAuthenticated(sessionValid bool) bool {
	return u.Role == RoleAdministrator || u.Role == RoleAgent || sessionValid
}

// FullName returns "Name Surname".
func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
