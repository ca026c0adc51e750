package favorite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/realty/internal/db"
)

func TestAddAndList(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	p1 := insertProperty(t, d, "One")
	p2 := insertProperty(t, d, "Two")

	f, err := repo.Add(userID, p1)
	require.NoError(t, err)
	assert.NotZero(t, f.ID)
	assert.Equal(t, userID, f.UserID)
	assert.Equal(t, p1, f.PropertyID)

	_, err = repo.Add(userID, p2)
	require.NoError(t, err)

	favs, err := repo.ListByUser(userID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, p2, favs[0].PropertyID, "newest first")

	byProp, err := repo.ListByProperty(p1)
	require.NoError(t, err)
	assert.Len(t, byProp, 1)
}

func TestAddDuplicate(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	propID := insertProperty(t, d, "One")

	_, err := repo.Add(userID, propID)
	require.NoError(t, err)

	_, err = repo.Add(userID, propID)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrValidation)

	favs, err := repo.ListByUser(userID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestSamePropertyDifferentUsers(t *testing.T) {
	repo, d := testSetup(t)
	u1 := insertUser(t, d, "a@example.com")
	u2 := insertUser(t, d, "b@example.com")
	propID := insertProperty(t, d, "Shared")

	_, err := repo.Add(u1, propID)
	require.NoError(t, err)
	_, err = repo.Add(u2, propID)
	require.NoError(t, err)

	favs, err := repo.ListByProperty(propID)
	require.NoError(t, err)
	assert.Len(t, favs, 2)
}

func TestAddUnknownReferences(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	propID := insertProperty(t, d, "One")

	_, err := repo.Add(userID, 9999)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = repo.Add(9999, propID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestExistsAndRemove(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	propID := insertProperty(t, d, "One")

	ok, err := repo.Exists(userID, propID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Add(userID, propID)
	require.NoError(t, err)

	ok, err = repo.Exists(userID, propID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Remove(userID, propID))
	assert.ErrorIs(t, repo.Remove(userID, propID), db.ErrNotFound)

	ok, err = repo.Exists(userID, propID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	propID := insertProperty(t, d, "One")

	f, err := repo.Add(userID, propID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(f.ID))
	assert.ErrorIs(t, repo.Delete(f.ID), db.ErrNotFound)
}

func TestDeletingUserCascades(t *testing.T) {
	repo, d := testSetup(t)
	userID := insertUser(t, d, "fan@example.com")
	p1 := insertProperty(t, d, "One")
	p2 := insertProperty(t, d, "Two")

	_, err := repo.Add(userID, p1)
	require.NoError(t, err)
	_, err = repo.Add(userID, p2)
	require.NoError(t, err)

	_, err = d.Exec("DELETE FROM users WHERE id = ?", userID)
	require.NoError(t, err)

	favs, err := repo.ListByUser(userID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	var props int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM properties").Scan(&props))
	assert.Equal(t, 2, props, "favorited properties must survive the user")
}

func testSetup(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, d.Close())
	})
	return NewRepository(d), d
}

func insertUser(t *testing.T, d *sql.DB, email string) int64 {
	t.Helper()
	res, err := d.Exec(
		"INSERT INTO users (name, surname, email, password_hash) VALUES (?, ?, ?, ?)",
		"Test", "User", email, "x",
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertProperty(t *testing.T, d *sql.DB, name string) int64 {
	t.Helper()
	res, err := d.Exec(
		"INSERT INTO properties (name, price, area_m2, rooms, bathrooms, address) VALUES (?, ?, ?, ?, ?, ?)",
		name, 1000, 50, 2, 1, name+" St",
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
