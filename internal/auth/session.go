package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evcraddock/realty/internal/user"
)

const (
	sessionExpiry = 30 * 24 * time.Hour // 30 days
	issuer        = "realty"
)

// ErrInvalidSession is returned when a token cannot be resolved to a live session.
var ErrInvalidSession = errors.New("invalid session")

// UserLoader resolves a session identifier to a user, returning nil when
// no such user exists. user.Repository satisfies it.
type UserLoader interface {
	LoadUser(identifier string) (*user.User, error)
}

// SessionStore manages sessions in SQLite and issues signed tokens for them.
type SessionStore struct {
	db     *sql.DB
	key    []byte
	users  UserLoader
	expiry time.Duration
}

// NewSessionStore creates a session store signing tokens with secret.
func NewSessionStore(db *sql.DB, secret string, users UserLoader) *SessionStore {
	return &SessionStore{
		db:     db,
		key:    []byte(secret),
		users:  users,
		expiry: sessionExpiry,
	}
}

// Create stores a new session for u and returns its signed token.
func (s *SessionStore) Create(u *user.User) (string, error) {
	if len(s.key) == 0 {
		return "", fmt.Errorf("creating session: no secret key configured")
	}

	id, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("generating session ID: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.expiry)

	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		id, u.ID, expiresAt.UTC(),
	); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   u.Identifier(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	return token, nil
}

// Validate checks the token signature and expiry and the stored session,
// then loads the session's user.
func (s *SessionStore) Validate(token string) (*user.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	var userID int64
	var expiresAt time.Time

	err = s.db.QueryRow(
		"SELECT user_id, expires_at FROM sessions WHERE id = ?",
		claims.ID,
	).Scan(&userID, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(expiresAt) {
		// Clean up expired session
		if _, delErr := s.db.Exec("DELETE FROM sessions WHERE id = ?", claims.ID); delErr != nil {
			return nil, fmt.Errorf("deleting expired session: %w", delErr)
		}
		return nil, fmt.Errorf("%w: expired", ErrInvalidSession)
	}

	if fmt.Sprint(userID) != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidSession)
	}

	u, err := s.users.LoadUser(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidSession
	}

	return u, nil
}

// Destroy removes the session behind token. An unparseable or unknown token
// is not an error.
func (s *SessionStore) Destroy(token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil // no session to destroy
	}

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", claims.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Cleanup removes expired sessions.
func (s *SessionStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM sessions WHERE expires_at < ?",
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("cleaning up sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) parse(token string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return &claims, nil
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
