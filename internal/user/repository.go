package user

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides CRUD operations for users.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a user repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, name, surname, email, phone, address, password_hash, role_id, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &u.Phone, &u.Address,
		&u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// normalize trims fields, lower-cases the email and defaults the role.
func normalize(u *User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Surname = strings.TrimSpace(u.Surname)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = strings.TrimSpace(u.Phone)
	u.Address = strings.TrimSpace(u.Address)
	if u.Role == 0 {
		u.Role = RoleClient
	}
}

func validate(u *User) error {
	if u.Email == "" {
		return db.NewValidationError("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return db.NewValidationError("invalid email: %s", u.Email)
	}
	if u.Name == "" {
		return db.NewValidationError("name is required")
	}
	if u.Surname == "" {
		return db.NewValidationError("surname is required")
	}
	if !u.Role.Valid() {
		return db.NewValidationError("invalid role: %d", int64(u.Role))
	}
	return nil
}

// Create inserts a user whose password has already been set with SetPassword.
func (r *Repository) Create(u *User) (*User, error) {
	normalize(u)
	if err := validate(u); err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, db.NewValidationError("password is required")
	}

	result, err := r.db.Exec(
		`INSERT INTO users (name, surname, email, phone, address, password_hash, role_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Surname, u.Email, u.Phone, u.Address, u.PasswordHash, u.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", r.classify(err, u.Email))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(id int64) (*User, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM users WHERE id = ?", selectColumns), id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail returns a user by email, case-insensitively.
func (r *Repository) GetByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM users WHERE email = ?", selectColumns), email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", email, err)
	}
	return u, nil
}

// LoadUser resolves a session identifier to a user. It returns nil, nil when
// the identifier is malformed or no such user exists.
func (r *Repository) LoadUser(identifier string) (*User, error) {
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil || id <= 0 {
		return nil, nil
	}

	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM users WHERE id = ?", selectColumns), id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", id, err)
	}
	return u, nil
}

// List returns users ordered by email. A zero role lists every user.
func (r *Repository) List(role Role) ([]*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users", selectColumns)
	var args []interface{}
	if role != 0 {
		query += " WHERE role_id = ?"
		args = append(args, role)
	}
	query += " ORDER BY email"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// Update saves the profile fields and role of an existing user.
// The password is changed only through UpdatePassword.
func (r *Repository) Update(u *User) error {
	normalize(u)
	if err := validate(u); err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE users SET name = ?, surname = ?, email = ?, phone = ?, address = ?, role_id = ?
		 WHERE id = ?`,
		u.Name, u.Surname, u.Email, u.Phone, u.Address, u.Role, u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", r.classify(err, u.Email))
	}

	return requireRow(result, u.ID)
}

// UpdatePassword hashes plain and stores it for the user.
func (r *Repository) UpdatePassword(id int64, plain string) error {
	var u User
	if err := u.SetPassword(plain); err != nil {
		return err
	}

	result, err := r.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", u.PasswordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return requireRow(result, id)
}

// Delete removes a user. Favorites and sessions cascade; visits the user was
// assigned to as agent become unassigned. Users who requested visits cannot
// be deleted.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", db.ClassifyDelete(err, "user"))
	}

	return requireRow(result, id)
}

func (r *Repository) classify(err error, email string) error {
	err = db.Classify(err, "user")
	if strings.Contains(err.Error(), "UNIQUE") {
		return db.NewValidationError("email already registered: %s", email)
	}
	return err
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return db.NewNotFoundError("user", id)
	}
	return nil
}
