// Package thresholddb backs the per-family score thresholds and codon-score
// calibration tables in a DuckDB file instead of the flat matrixio format,
// so a driver can query them alongside a large ecurve without re-parsing a
// "[rows, cols]" text file on every run.
//
// Grounded on the teacher's internal/duckdb.Store (github.com/inodb/vibe-vep):
// same sql.Open("duckdb", path) / ensureSchema pattern, generalised from a
// single variant_results table to the two small calibration tables this
// domain needs. libuproc leaves family thresholds and codon-score tables
// as externally supplied model files; this is the opt-in queryable home
// for them alongside the portable matrixio path.
package thresholddb

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/gobics/ecurve-go/internal/errs"
)

// Store manages a DuckDB connection holding family score thresholds and
// precomputed codon-mask scores.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at path. An empty path opens an
// in-memory database, useful for tests.
func Open(path string) (*Store, error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errs.Wrap(errs.IoError, "create threshold db directory", err)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "open threshold db", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS family_thresholds (
			family INTEGER PRIMARY KEY,
			min_score DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS codon_scores (
			mask INTEGER PRIMARY KEY,
			score DOUBLE NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errs.Wrap(errs.IoError, "create threshold db schema", err)
		}
	}
	return nil
}

// SetFamilyThreshold upserts the minimum accepted score for family.
func (s *Store) SetFamilyThreshold(family uint16, minScore float64) error {
	_, err := s.db.Exec(
		`INSERT INTO family_thresholds (family, min_score) VALUES (?, ?)
		 ON CONFLICT (family) DO UPDATE SET min_score = EXCLUDED.min_score`,
		family, minScore,
	)
	if err != nil {
		return errs.Wrap(errs.IoError, "set family threshold", err)
	}
	return nil
}

// FamilyThresholds loads every stored (family, min_score) pair into a map
// suitable for a protein.FilterFunc closure.
func (s *Store) FamilyThresholds() (map[uint16]float64, error) {
	rows, err := s.db.Query(`SELECT family, min_score FROM family_thresholds`)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "query family thresholds", err)
	}
	defer rows.Close()

	out := make(map[uint16]float64)
	for rows.Next() {
		var family uint16
		var minScore float64
		if err := rows.Scan(&family, &minScore); err != nil {
			return nil, errs.Wrap(errs.IoError, "scan family threshold row", err)
		}
		out[family] = minScore
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.IoError, "iterate family thresholds", err)
	}
	return out, nil
}

// SetCodonScores replaces the codon_scores table with the given
// BinaryCodonCount-length precomputed score table (mask -> mean score).
func (s *Store) SetCodonScores(scores []float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errs.Wrap(errs.IoError, "begin codon score transaction", err)
	}

	if _, err := tx.Exec(`DELETE FROM codon_scores`); err != nil {
		_ = tx.Rollback()
		return errs.Wrap(errs.IoError, "clear codon scores", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO codon_scores (mask, score) VALUES (?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errs.Wrap(errs.IoError, "prepare codon score insert", err)
	}
	for mask, score := range scores {
		if _, err := stmt.Exec(uint16(mask), score); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return errs.Wrap(errs.IoError, "insert codon score", err)
		}
	}
	_ = stmt.Close()

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.IoError, "commit codon scores", err)
	}
	return nil
}

// CodonScores loads the codon_scores table back into a dense, mask-indexed
// slice of the given length (BinaryCodonCount); masks with no stored row
// score 0, matching codon.PrecomputeScores's convention for unmatched masks.
func (s *Store) CodonScores(length int) ([]float64, error) {
	rows, err := s.db.Query(`SELECT mask, score FROM codon_scores`)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "query codon scores", err)
	}
	defer rows.Close()

	out := make([]float64, length)
	for rows.Next() {
		var mask uint16
		var score float64
		if err := rows.Scan(&mask, &score); err != nil {
			return nil, errs.Wrap(errs.IoError, "scan codon score row", err)
		}
		if int(mask) < length {
			out[mask] = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.IoError, "iterate codon scores", err)
	}
	return out, nil
}
