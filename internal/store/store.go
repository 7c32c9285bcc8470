// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists elements, isotopes and ionisation energies in
// SQLite and serves the queries behind the REST API.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/periodic-table/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "periodic.db"

	defaultMaxResults = 200
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a unique or primary key.
	ErrConflict = errors.New("conflict")

	// ErrInvalid is returned for records missing required fields or
	// referencing rows that do not exist.
	ErrInvalid = errors.New("invalid")
)

// Store manages the periodic table SQLite database.
type Store struct {
	db         *sqlx.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the database at <data_dir>/index/periodic.db
// and creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := newStore(db, cfg)
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func newStore(db *sqlx.DB, cfg types.StoreConfig) *Store {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Store{db: db, dataDir: cfg.DataDir, maxResults: maxResults}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS groups (
			number INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS periods (
			number INTEGER PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS orbitals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS oxidation_states (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			state TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS elements (
			atomic_number INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			symbol TEXT NOT NULL UNIQUE,
			group_number INTEGER REFERENCES groups(number),
			period INTEGER REFERENCES periods(number),
			block_id INTEGER REFERENCES blocks(id),
			melting_point_kelvin REAL,
			boiling_point_kelvin REAL,
			atomic_mass_u REAL,
			atomic_radius REAL,
			electronegativity REAL,
			electron_affinity REAL,
			first_ionisation_energy REAL,
			density TEXT NOT NULL DEFAULT '',
			electron_configuration TEXT NOT NULL DEFAULT '',
			classification TEXT NOT NULL DEFAULT '',
			year_discovered INTEGER,
			discovered_by TEXT NOT NULL DEFAULT '',
			estimated_crustal_abundance TEXT NOT NULL DEFAULT '',
			estimated_oceanic_abundance TEXT NOT NULL DEFAULT '',
			estimated_universal_abundance TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_period ON elements(period)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_group ON elements(group_number)`,
		`CREATE TABLE IF NOT EXISTS element_oxidation_states (
			atomic_number INTEGER NOT NULL REFERENCES elements(atomic_number) ON DELETE CASCADE,
			oxidation_state_id INTEGER NOT NULL REFERENCES oxidation_states(id),
			PRIMARY KEY (atomic_number, oxidation_state_id)
		)`,
		`CREATE TABLE IF NOT EXISTS element_orbitals (
			atomic_number INTEGER NOT NULL REFERENCES elements(atomic_number) ON DELETE CASCADE,
			orbital_id INTEGER NOT NULL REFERENCES orbitals(id),
			PRIMARY KEY (atomic_number, orbital_id)
		)`,
		`CREATE TABLE IF NOT EXISTS isotopes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			isotope TEXT NOT NULL UNIQUE,
			element INTEGER NOT NULL REFERENCES elements(atomic_number) ON DELETE CASCADE,
			atomic_mass REAL,
			abundance REAL,
			halflife TEXT NOT NULL DEFAULT '',
			decay_modes TEXT NOT NULL DEFAULT '',
			year_discovered INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_isotopes_element ON isotopes(element)`,
		`CREATE TABLE IF NOT EXISTS ionisation_energies (
			atomic_number INTEGER NOT NULL,
			ionisation_number INTEGER NOT NULL,
			energy REAL NOT NULL,
			PRIMARY KEY (atomic_number, ionisation_number)
		)`,
		`CREATE TABLE IF NOT EXISTS load_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// mapError translates SQLite constraint failures into the package's
// sentinel errors. Other errors pass through unchanged.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return err
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
}
