// Package duckdb stores parsed structural variant calls in DuckDB so they
// can be queried after loading.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding structural variant calls.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, or "" for an in-memory database.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sv_calls (
		source VARCHAR,
		id VARCHAR,
		chrom VARCHAR,
		pos BIGINT,
		end_chrom VARCHAR,
		end_pos BIGINT,
		svtype VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		qual VARCHAR,
		filter VARCHAR,
		ci_start_left BIGINT,
		ci_start_right BIGINT,
		ci_end_left BIGINT,
		ci_end_right BIGINT,
		mate_id VARCHAR,
		supported BOOLEAN,
		info VARCHAR,
		PRIMARY KEY (source, id)
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sources (
		path VARCHAR PRIMARY KEY,
		size BIGINT,
		mod_time BIGINT,
		variant_count BIGINT
	)`)
	return err
}
