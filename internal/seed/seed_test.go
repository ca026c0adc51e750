package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/user"
)

func openTestDB(t *testing.T) (*sql.DB, *user.Repository) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d, user.NewRepository(d)
}

func adminConfig() config.Admin {
	return config.Admin{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "Admin@Example.com",
		Phone:    "555-0100",
		Password: "bootstrap-pw",
	}
}

func TestAdminCreates(t *testing.T) {
	_, users := openTestDB(t)

	created, err := Admin(users, adminConfig())
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.GetByEmail("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdministrator, u.Role)
	assert.Equal(t, "Ada", u.Name)
	assert.True(t, u.CheckPassword("bootstrap-pw"))
	assert.NotContains(t, u.PasswordHash, "bootstrap-pw")
}

func TestAdminIdempotent(t *testing.T) {
	d, users := openTestDB(t)

	first, err := Admin(users, adminConfig())
	require.NoError(t, err)
	second, err := Admin(users, adminConfig())
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM users WHERE role_id = ?", user.RoleAdministrator).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestAdminKeepsExistingUser(t *testing.T) {
	_, users := openTestDB(t)

	existing := &user.User{Name: "Already", Surname: "Here", Email: "admin@example.com", Role: user.RoleAgent}
	require.NoError(t, existing.SetPassword("original"))
	_, err := users.Create(existing)
	require.NoError(t, err)

	created, err := Admin(users, adminConfig())
	require.NoError(t, err)
	assert.False(t, created)

	u, err := users.GetByEmail("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAgent, u.Role)
	assert.True(t, u.CheckPassword("original"))
}

func TestAdminSkippedWithoutEmail(t *testing.T) {
	d, users := openTestDB(t)

	created, err := Admin(users, config.Admin{})
	require.NoError(t, err)
	assert.False(t, created)

	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestAdminRequiresPassword(t *testing.T) {
	_, users := openTestDB(t)

	cfg := adminConfig()
	cfg.Password = ""

	_, err := Admin(users, cfg)
	assert.ErrorIs(t, err, ErrNoAdminPassword)
}

func TestAdminDefaultsName(t *testing.T) {
	_, users := openTestDB(t)

	_, err := Admin(users, config.Admin{Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)

	u, err := users.GetByEmail("root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Name)
	assert.Equal(t, "Admin", u.Surname)
}
