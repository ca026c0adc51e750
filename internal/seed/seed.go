// Package seed creates the bootstrap administrator.
package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/user"
)

// ErrNoAdminPassword is returned when an admin email is configured without a password.
var ErrNoAdminPassword = errors.New("admin email configured without a password")

// Users is the part of user.Repository seeding needs.
type Users interface {
	GetByEmail(email string) (*user.User, error)
	Create(u *user.User) (*user.User, error)
}

// Admin creates the configured administrator unless a user with that email
// already exists. It reports whether a user was created.
func Admin(users Users, cfg config.Admin) (bool, error) {
	if cfg.Email == "" {
		slog.Info("no admin configured, skipping seed")
		return false, nil
	}
	if cfg.Password == "" {
		return false, ErrNoAdminPassword
	}

	existing, err := users.GetByEmail(cfg.Email)
	if err == nil {
		slog.Debug("admin already exists", "email", existing.Email, "id", existing.ID)
		return false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return false, fmt.Errorf("looking up admin: %w", err)
	}

	u := &user.User{
		Name:    defaultString(cfg.Name, "Admin"),
		Surname: defaultString(cfg.Surname, "Admin"),
		Email:   cfg.Email,
		Phone:   cfg.Phone,
		Address: cfg.Address,
		Role:    user.RoleAdministrator,
	}
	if err := u.SetPassword(cfg.Password); err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	created, err := users.Create(u)
	if err != nil {
		return false, fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("admin created", "email", created.Email, "id", created.ID)
	return true, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
