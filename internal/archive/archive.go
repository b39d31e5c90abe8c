// SPDX-License-Identifier: MIT

// Package archive stores finished runs in a SQLite database: the effective
// configuration and its fingerprint, the spectrum, and the loudest sources of
// every realization.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jaedmunt/holodeck/gwb"
)

var (
	// ErrClosed indicates use of a closed or never-opened store.
	ErrClosed = errors.New("archive: store is not open")

	// ErrNilSpectrum indicates a run without a spectrum.
	ErrNilSpectrum = errors.New("archive: run has no spectrum")
)

// Run is what the caller hands to Save.
type Run struct {
	Fingerprint string
	Config      string // effective configuration, YAML
	Binaries    int
	Coalesced   int
	Spectrum    *gwb.Spectrum
}

// Record is a stored run.
type Record struct {
	ID          string
	Fingerprint string
	Created     time.Time
	Config      string
	Binaries    int
	Coalesced   int
	Spectrum    *Spectrum
}

// Source is one foreground source of one realization.
type Source struct {
	Rank        int
	Realization int
	Strain      float64 // h_c
}

// Store is a SQLite run archive. It is safe for concurrent use.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if needed) the archive at path. ":memory:" gives a
// private in-memory archive.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("archive: sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{path: path, db: db}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Save stores r under a fresh run ID and returns the ID.
func (s *Store) Save(ctx context.Context, r Run) (string, error) {
	if r.Spectrum == nil {
		return "", ErrNilSpectrum
	}
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	payload, err := encodeSpectrum(fromSpectrum(r.Spectrum))
	if err != nil {
		return "", fmt.Errorf("encode spectrum: %w", err)
	}

	id := uuid.NewString()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, fingerprint, created_ns, config, binaries, coalesced)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, r.Fingerprint, time.Now().UnixNano(), r.Config, r.Binaries, r.Coalesced)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO spectra (run_id, codec_version, payload) VALUES (?, ?, ?)
	`, id, codecVersion, payload)
	if err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO loudest (run_id, freq, rank, realization, strain) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	nf, nl, nr := r.Spectrum.Loudest.Shape()
	for j := 0; j < nf; j++ {
		for q := 0; q < nl; q++ {
			for rr := 0; rr < nr; rr++ {
				hc, _ := r.Spectrum.Loudest.At(j, q, rr)
				if hc == 0 {
					continue
				}
				if _, err := stmt.ExecContext(ctx, id, j, q, rr, hc); err != nil {
					return "", err
				}
			}
		}
	}
	return id, tx.Commit()
}

// Get loads the run with the given ID. The boolean is false when no such run
// exists.
func (s *Store) Get(ctx context.Context, id string) (*Record, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}
	rec := &Record{ID: id}
	var created int64
	var payload []byte
	var version int
	err = db.QueryRowContext(ctx, `
		SELECT r.fingerprint, r.created_ns, r.config, r.binaries, r.coalesced, s.codec_version, s.payload
		FROM runs r JOIN spectra s ON s.run_id = r.id
		WHERE r.id = ?
	`, id).Scan(&rec.Fingerprint, &created, &rec.Config, &rec.Binaries, &rec.Coalesced, &version, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if version != codecVersion {
		return nil, false, fmt.Errorf("decode spectrum %s: codec version %d, want %d", id, version, codecVersion)
	}
	rec.Created = time.Unix(0, created)
	if rec.Spectrum, err = decodeSpectrum(payload); err != nil {
		return nil, false, fmt.Errorf("decode spectrum %s: %w", id, err)
	}
	return rec, true, nil
}

// ByFingerprint lists the IDs of runs with fingerprint fp, oldest first.
func (s *Store) ByFingerprint(ctx context.Context, fp string) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id FROM runs WHERE fingerprint = ? ORDER BY created_ns, rowid
	`, fp)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Loudest returns the foreground sources of run id at frequency index freq,
// ordered by realization and then rank.
func (s *Store) Loudest(ctx context.Context, id string, freq int) ([]Source, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT rank, realization, strain FROM loudest
		WHERE run_id = ? AND freq = ?
		ORDER BY realization, rank
	`, id, freq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.Rank, &src.Realization, &src.Strain); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// Close releases the database. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			created_ns INTEGER NOT NULL,
			config TEXT NOT NULL,
			binaries INTEGER NOT NULL,
			coalesced INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_fingerprint ON runs (fingerprint);
		CREATE TABLE IF NOT EXISTS spectra (
			run_id TEXT PRIMARY KEY REFERENCES runs (id),
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS loudest (
			run_id TEXT NOT NULL REFERENCES runs (id),
			freq INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			realization INTEGER NOT NULL,
			strain REAL NOT NULL,
			PRIMARY KEY (run_id, freq, realization, rank)
		);
	`)
	return err
}
