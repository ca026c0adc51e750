package db

import (
	"database/sql"
	"fmt"
	"time"
)

// migration is one schema step. Steps are applied in version order, each in
// its own transaction, and recorded in schema_migrations. New schema changes
// are appended; applied steps are never edited.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create lookup tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS roles (
				id          INTEGER PRIMARY KEY,
				description TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS property_types (
				id          INTEGER PRIMARY KEY,
				description TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS property_statuses (
				id          INTEGER PRIMARY KEY,
				description TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS visit_statuses (
				id          INTEGER PRIMARY KEY,
				description TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS cities (
				id   INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT    NOT NULL CHECK (length(trim(name)) > 0)
			)`,
		},
	},
	{
		version: 2,
		name:    "seed lookup tables",
		stmts: []string{
			`INSERT OR IGNORE INTO roles (id, description) VALUES
				(1, 'Administrator'), (2, 'Agent'), (3, 'Client')`,
			`INSERT OR IGNORE INTO property_types (id, description) VALUES
				(1, 'Apartment'), (2, 'House'), (3, 'Commercial'), (4, 'Office'), (5, 'Garage')`,
			`INSERT OR IGNORE INTO property_statuses (id, description) VALUES
				(1, 'For sale'), (2, 'For rent')`,
			`INSERT OR IGNORE INTO visit_statuses (id, description) VALUES
				(1, 'Pending'), (2, 'Confirmed'), (3, 'Completed'), (4, 'Cancelled')`,
		},
	},
	{
		version: 3,
		name:    "create properties",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS properties (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				name       TEXT    NOT NULL,
				price      REAL    NOT NULL CHECK (price >= 0),
				image_url  TEXT,
				city_id    INTEGER REFERENCES cities(id),
				status_id  INTEGER REFERENCES property_statuses(id),
				type_id    INTEGER REFERENCES property_types(id),
				area_m2    INTEGER NOT NULL CHECK (area_m2 >= 0),
				rooms      INTEGER NOT NULL CHECK (rooms >= 0),
				bathrooms  INTEGER NOT NULL CHECK (bathrooms >= 0),
				address    TEXT    NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS property_images (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
				url         TEXT    NOT NULL,
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_property_images_property ON property_images(property_id)`,
		},
	},
	{
		version: 4,
		name:    "create users",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				name          TEXT    NOT NULL,
				surname       TEXT    NOT NULL,
				email         TEXT    NOT NULL UNIQUE,
				phone         TEXT    NOT NULL DEFAULT '',
				address       TEXT    NOT NULL DEFAULT '',
				password_hash TEXT    NOT NULL,
				role_id       INTEGER NOT NULL DEFAULT 3 REFERENCES roles(id),
				created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 5,
		name:    "create favorites and visits",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS favorites (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (user_id, property_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_favorites_property ON favorites(property_id)`,
			`CREATE TABLE IF NOT EXISTS visits (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id      INTEGER  NOT NULL REFERENCES users(id),
				property_id  INTEGER  NOT NULL REFERENCES properties(id),
				scheduled_at DATETIME NOT NULL,
				status_id    INTEGER  REFERENCES visit_statuses(id),
				agent_id     INTEGER  REFERENCES users(id) ON DELETE SET NULL,
				created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_visits_agent ON visits(agent_id)`,
			`CREATE INDEX IF NOT EXISTS idx_visits_property ON visits(property_id)`,
		},
	},
	{
		version: 6,
		name:    "create sessions",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id         TEXT     PRIMARY KEY,
				user_id    INTEGER  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				expires_at DATETIME NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT    NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// MigrationStatus describes one known migration and whether it has run.
type MigrationStatus struct {
	Version   int        `json:"version"`
	Name      string     `json:"name"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// Migrate applies pending migrations and returns the versions it ran.
func Migrate(db *sql.DB) ([]int, error) {
	return migrate(db)
}

// migrate runs all pending migrations in order.
func migrate(db *sql.DB) ([]int, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}

	var ran []int
	for _, m := range migrations {
		if _, ok := applied[m.version]; ok {
			continue
		}

		err := WithTx(db, func(tx *sql.Tx) error {
			for i, stmt := range m.stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("statement %d: %w", i, err)
				}
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.version, m.name,
			)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		ran = append(ran, m.version)
	}

	return ran, nil
}

// Status lists every known migration with its applied time, if any.
func Status(db *sql.DB) ([]MigrationStatus, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		s := MigrationStatus{Version: m.version, Name: m.name}
		if at, ok := applied[m.version]; ok {
			s.AppliedAt = &at
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// appliedVersions returns version -> applied_at for recorded migrations.
func appliedVersions(db *sql.DB) (map[int]time.Time, error) {
	rows, err := db.Query("SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scanning migration: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}

	return applied, nil
}
