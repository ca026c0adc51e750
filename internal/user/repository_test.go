package user

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/realty/internal/db"
)

func TestCreateAndGet(t *testing.T) {
	repo := testRepo(t)

	saved := createUser(t, repo, "Ana@Example.com", RoleClient)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "ana@example.com", saved.Email)
	assert.Equal(t, RoleClient, saved.Role)
	assert.True(t, saved.CheckPassword("secret"))
	assert.False(t, saved.CreatedAt.IsZero())

	byID, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Email, byID.Email)

	byEmail, err := repo.GetByEmail("ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
}

func TestCreateDefaultsToClient(t *testing.T) {
	repo := testRepo(t)

	saved := createUser(t, repo, "norole@example.com", 0)
	assert.Equal(t, RoleClient, saved.Role)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := testRepo(t)

	createUser(t, repo, "dupe@example.com", RoleClient)

	u := &User{Name: "B", Surname: "C", Email: "DUPE@example.com"}
	require.NoError(t, u.SetPassword("other"))
	_, err := repo.Create(u)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrValidation)
	assert.Contains(t, err.Error(), "already registered")

	users, err := repo.List(0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateValidation(t *testing.T) {
	repo := testRepo(t)

	tests := []struct {
		name string
		user User
		pass string
	}{
		{"missing email", User{Name: "A", Surname: "B"}, "x"},
		{"malformed email", User{Name: "A", Surname: "B", Email: "nope"}, "x"},
		{"missing name", User{Surname: "B", Email: "a@b.c"}, "x"},
		{"missing surname", User{Name: "A", Email: "a@b.c"}, "x"},
		{"bad role", User{Name: "A", Surname: "B", Email: "a@b.c", Role: 7}, "x"},
		{"no password", User{Name: "A", Surname: "B", Email: "a@b.c"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			if tt.pass != "" {
				require.NoError(t, u.SetPassword(tt.pass))
			}
			_, err := repo.Create(&u)
			assert.ErrorIs(t, err, db.ErrValidation)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(9999)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = repo.GetByEmail("ghost@example.com")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestLoadUser(t *testing.T) {
	repo := testRepo(t)
	saved := createUser(t, repo, "load@example.com", RoleAgent)

	got, err := repo.LoadUser(saved.Identifier())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)

	for _, id := range []string{"9999", "abc", "", "-1", "0"} {
		got, err := repo.LoadUser(id)
		assert.NoError(t, err, id)
		assert.Nil(t, got, id)
	}
}

func TestListByRole(t *testing.T) {
	repo := testRepo(t)
	createUser(t, repo, "c1@example.com", RoleClient)
	createUser(t, repo, "a1@example.com", RoleAgent)
	createUser(t, repo, "a2@example.com", RoleAgent)

	agents, err := repo.List(RoleAgent)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "a1@example.com", agents[0].Email)

	all, err := repo.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdate(t *testing.T) {
	repo := testRepo(t)
	saved := createUser(t, repo, "upd@example.com", RoleClient)

	saved.Phone = "555-0100"
	saved.Role = RoleAgent
	require.NoError(t, repo.Update(saved))

	got, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, RoleAgent, got.Role)
	assert.True(t, got.CheckPassword("secret"), "update must not touch the password")
}

func TestUpdateToTakenEmail(t *testing.T) {
	repo := testRepo(t)
	createUser(t, repo, "taken@example.com", RoleClient)
	other := createUser(t, repo, "other@example.com", RoleClient)

	other.Email = "taken@example.com"
	assert.ErrorIs(t, repo.Update(other), db.ErrValidation)
}

func TestUpdateNotFound(t *testing.T) {
	repo := testRepo(t)

	err := repo.Update(&User{ID: 9999, Name: "A", Surname: "B", Email: "a@b.c"})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	repo := testRepo(t)
	saved := createUser(t, repo, "pw@example.com", RoleClient)

	require.NoError(t, repo.UpdatePassword(saved.ID, "new-secret"))

	got, err := repo.GetByID(saved.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("new-secret"))
	assert.False(t, got.CheckPassword("secret"))

	assert.ErrorIs(t, repo.UpdatePassword(saved.ID, ""), ErrEmptyPassword)
	assert.ErrorIs(t, repo.UpdatePassword(9999, "x"), db.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	saved := createUser(t, repo, "del@example.com", RoleClient)

	require.NoError(t, repo.Delete(saved.ID))

	_, err := repo.GetByID(saved.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(saved.ID), db.ErrNotFound)
}

func createUser(t *testing.T, repo *Repository, email string, role Role) *User {
	t.Helper()
	u := &User{Name: "Test", Surname: "User", Email: email, Role: role}
	require.NoError(t, u.SetPassword("secret"))
	saved, err := repo.Create(u)
	require.NoError(t, err)
	return saved
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, d.Close())
	})
	return NewRepository(d)
}
