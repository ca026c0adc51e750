package favorite

import (
	"database/sql"
	"fmt"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides CRUD operations for favorites.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a favorite repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = "id, user_id, property_id, created_at"

// Add bookmarks a property for a user. Adding the same pair twice is a
// validation error; unknown users or properties are not-found errors.
func (r *Repository) Add(userID, propertyID int64) (*Favorite, error) {
	result, err := r.db.Exec(
		"INSERT INTO favorites (user_id, property_id) VALUES (?, ?)",
		userID, propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting favorite: %w", db.Classify(err, "favorite"))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	var f Favorite
	err = r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM favorites WHERE id = ?", selectColumns), id,
	).Scan(&f.ID, &f.UserID, &f.PropertyID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back favorite: %w", err)
	}

	return &f, nil
}

// Exists reports whether the user has bookmarked the property.
func (r *Repository) Exists(userID, propertyID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM favorites WHERE user_id = ? AND property_id = ?",
		userID, propertyID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}
	return count > 0, nil
}

// ListByUser returns a user's favorites, newest first.
func (r *Repository) ListByUser(userID int64) ([]*Favorite, error) {
	return r.list("user_id", userID)
}

// ListByProperty returns every favorite that references a property.
func (r *Repository) ListByProperty(propertyID int64) ([]*Favorite, error) {
	return r.list("property_id", propertyID)
}

func (r *Repository) list(column string, id int64) ([]*Favorite, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM favorites WHERE %s = ? ORDER BY id DESC", selectColumns, column),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var favorites []*Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.PropertyID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}

	return favorites, nil
}

// Remove deletes the user's bookmark of a property.
func (r *Repository) Remove(userID, propertyID int64) error {
	result, err := r.db.Exec(
		"DELETE FROM favorites WHERE user_id = ? AND property_id = ?",
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}

	return requireRow(result, fmt.Sprintf("%d/%d", userID, propertyID))
}

// Delete removes a favorite by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM favorites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}

	return requireRow(result, id)
}

func requireRow(result sql.Result, key interface{}) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return db.NewNotFoundError("favorite", key)
	}
	return nil
}
