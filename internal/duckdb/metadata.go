package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether two fingerprints describe the same file state.
func (fp FileFingerprint) Matches(other FileFingerprint) bool {
	return fp.Path == other.Path && fp.Size == other.Size && fp.ModTime.Equal(other.ModTime)
}

// RecordSource stores the fingerprint of a loaded VCF and its variant count.
func (s *Store) RecordSource(fp FileFingerprint, variantCount int) error {
	if _, err := s.db.Exec("DELETE FROM sources WHERE path = ?", fp.Path); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO sources VALUES (?, ?, ?, ?)",
		fp.Path, fp.Size, fp.ModTime.UnixNano(), int64(variantCount)); err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

// LoadedSource returns the stored fingerprint and variant count for path.
// ok is false if the path was never loaded.
func (s *Store) LoadedSource(path string) (fp FileFingerprint, variantCount int, ok bool, err error) {
	var size, modTime, count int64
	err = s.db.QueryRow("SELECT size, mod_time, variant_count FROM sources WHERE path = ?", path).
		Scan(&size, &modTime, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return FileFingerprint{}, 0, false, nil
	}
	if err != nil {
		return FileFingerprint{}, 0, false, fmt.Errorf("query source: %w", err)
	}
	return FileFingerprint{Path: path, Size: size, ModTime: time.Unix(0, modTime)}, int(count), true, nil
}

// UpToDate reports whether fp was already loaded with the same size and
// modification time.
func (s *Store) UpToDate(fp FileFingerprint) (bool, error) {
	stored, _, ok, err := s.LoadedSource(fp.Path)
	if err != nil || !ok {
		return false, err
	}
	return stored.Matches(fp), nil
}
