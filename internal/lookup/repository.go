package lookup

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/evcraddock/realty/internal/db"
)

// Repository reads the static lookup tables and manages cities.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a lookup repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns every row of a static lookup table, ordered by ID.
func (r *Repository) List(table Table) ([]*Entry, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(fmt.Sprintf("SELECT id, description FROM %s ORDER BY id", table))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}

	return entries, nil
}

// Get returns one row of a static lookup table.
func (r *Repository) Get(table Table, id int64) (*Entry, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	var e Entry
	err := r.db.QueryRow(
		fmt.Sprintf("SELECT id, description FROM %s WHERE id = ?", table), id,
	).Scan(&e.ID, &e.Description)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError(string(table), id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s %d: %w", table, id, err)
	}

	return &e, nil
}

// AddCity creates a city.
func (r *Repository) AddCity(name string) (*City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, db.NewValidationError("city name is required")
	}

	result, err := r.db.Exec("INSERT INTO cities (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("inserting city: %w", db.Classify(err, "city"))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return &City{ID: id, Name: name}, nil
}

// GetCity returns a city by ID.
func (r *Repository) GetCity(id int64) (*City, error) {
	var c City
	err := r.db.QueryRow("SELECT id, name FROM cities WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError("city", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying city %d: %w", id, err)
	}
	return &c, nil
}

// Cities returns all cities ordered by name.
func (r *Repository) Cities() ([]*City, error) {
	rows, err := r.db.Query("SELECT id, name FROM cities ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var cities []*City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning city: %w", err)
		}
		cities = append(cities, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cities: %w", err)
	}

	return cities, nil
}

// RenameCity changes a city's name.
func (r *Repository) RenameCity(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return db.NewValidationError("city name is required")
	}

	result, err := r.db.Exec("UPDATE cities SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("renaming city: %w", db.Classify(err, "city"))
	}

	return requireRow(result, "city", id)
}

// DeleteCity removes a city. Cities still used by a property cannot be removed.
func (r *Repository) DeleteCity(id int64) error {
	result, err := r.db.Exec("DELETE FROM cities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting city: %w", db.ClassifyDelete(err, "city"))
	}

	return requireRow(result, "city", id)
}

func checkTable(table Table) error {
	for _, t := range Tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("unknown lookup table: %q", table)
}

func requireRow(result sql.Result, resource string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return db.NewNotFoundError(resource, id)
	}
	return nil
}
