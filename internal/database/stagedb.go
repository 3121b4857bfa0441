package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"logoscan/internal/model"
	"logoscan/internal/phash"
)

// StageDB stores staged logos, their hashes, and per-domain candidate
// rankings in a single SQLite file.
//
// Design decision: One database file for the whole harvest rather than a
// file per domain. Clustering always needs every domain's hash at once,
// and a single file keeps backup and inspection trivial.
type StageDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates a StageDB inside dbDir.
func Open(dbDir string) (*StageDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "logoscan.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports a single writer; more connections only add
	// lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &StageDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection.
func (s *StageDB) Close() error {
	return s.db.Close()
}

// Path returns the path of the SQLite database file.
func (s *StageDB) Path() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *StageDB) createTables() error {
	schema := `
	-- One staged logo per domain.
	CREATE TABLE IF NOT EXISTS staged_logos (
		domain TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		local_path TEXT NOT NULL,
		content_hash TEXT,
		perceptual_hash TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_staged_content ON staged_logos(content_hash);

	-- Full candidate ranking per domain, stored for inspection.
	CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		rank INTEGER NOT NULL,
		url TEXT NOT NULL,
		score INTEGER NOT NULL,
		signals TEXT,
		UNIQUE(domain, rank)
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_domain ON candidates(domain);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveLogo inserts or replaces the staged logo for its domain.
func (s *StageDB) SaveLogo(ctx context.Context, logo model.StagedLogo) error {
	fetchedAt := logo.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO staged_logos
			(domain, source_url, local_path, content_hash, perceptual_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		logo.Domain, logo.SourceURL, logo.LocalPath, logo.ContentHash, logo.PerceptualHash, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("save staged logo for %s: %w", logo.Domain, err)
	}
	return nil
}

// SaveHash stores the perceptual hash of an already staged logo.
func (s *StageDB) SaveHash(ctx context.Context, domain string, hash phash.Hash) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE staged_logos SET perceptual_hash = ? WHERE domain = ?`,
		hash.String(), domain,
	)
	if err != nil {
		return fmt.Errorf("save hash for %s: %w", domain, err)
	}
	return nil
}

// ListLogos returns every staged logo, ordered by domain.
func (s *StageDB) ListLogos(ctx context.Context) ([]model.StagedLogo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, source_url, local_path,
		       COALESCE(content_hash, ''), COALESCE(perceptual_hash, ''), fetched_at
		FROM staged_logos ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("list staged logos: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var logos []model.StagedLogo
	for rows.Next() {
		var logo model.StagedLogo
		if err := rows.Scan(&logo.Domain, &logo.SourceURL, &logo.LocalPath,
			&logo.ContentHash, &logo.PerceptualHash, &logo.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan staged logo: %w", err)
		}
		logos = append(logos, logo)
	}
	return logos, rows.Err()
}

// Hashes returns the domain to perceptual hash mapping for every staged
// logo whose hash has been computed. This is exactly the clustering
// engine's input; domains without a hash are absent.
func (s *StageDB) Hashes(ctx context.Context) (map[string]phash.Hash, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, perceptual_hash FROM staged_logos
		WHERE perceptual_hash IS NOT NULL AND perceptual_hash != ''`)
	if err != nil {
		return nil, fmt.Errorf("load hashes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	hashes := make(map[string]phash.Hash)
	for rows.Next() {
		var domain, hex string
		if err := rows.Scan(&domain, &hex); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		h, err := phash.Parse(hex)
		if err != nil {
			// A corrupt hash row costs one domain, not the run.
			continue
		}
		hashes[domain] = h
	}
	return hashes, rows.Err()
}

// SaveCandidates replaces the stored candidate ranking for a domain.
func (s *StageDB) SaveCandidates(ctx context.Context, domain string, ranked []model.RankedCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin candidates transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE domain = ?`, domain); err != nil {
		return fmt.Errorf("clear candidates for %s: %w", domain, err)
	}
	for _, c := range ranked {
		signals, err := json.Marshal(c.Signals)
		if err != nil {
			return fmt.Errorf("encode signals: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (domain, rank, url, score, signals)
			VALUES (?, ?, ?, ?, ?)`,
			domain, c.Rank, c.URL, c.Score, string(signals)); err != nil {
			return fmt.Errorf("save candidate for %s: %w", domain, err)
		}
	}
	return tx.Commit()
}

// Candidates returns the stored ranking for a domain, best first.
func (s *StageDB) Candidates(ctx context.Context, domain string) ([]model.RankedCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rank, url, score, COALESCE(signals, '[]')
		FROM candidates WHERE domain = ? ORDER BY rank`, domain)
	if err != nil {
		return nil, fmt.Errorf("load candidates for %s: %w", domain, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var ranked []model.RankedCandidate
	for rows.Next() {
		var c model.RankedCandidate
		var signals string
		if err := rows.Scan(&c.Rank, &c.URL, &c.Score, &signals); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if err := json.Unmarshal([]byte(signals), &c.Signals); err != nil {
			c.Signals = nil
		}
		ranked = append(ranked, c)
	}
	return ranked, rows.Err()
}

// ErrNotFound is returned when no staged logo exists for a domain.
var ErrNotFound = errors.New("domain not staged")

// GetLogo returns the staged logo for one domain.
func (s *StageDB) GetLogo(ctx context.Context, domain string) (model.StagedLogo, error) {
	var logo model.StagedLogo
	err := s.db.QueryRowContext(ctx, `
		SELECT domain, source_url, local_path,
		       COALESCE(content_hash, ''), COALESCE(perceptual_hash, ''), fetched_at
		FROM staged_logos WHERE domain = ?`, domain).
		Scan(&logo.Domain, &logo.SourceURL, &logo.LocalPath,
			&logo.ContentHash, &logo.PerceptualHash, &logo.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StagedLogo{}, fmt.Errorf("%s: %w", domain, ErrNotFound)
	}
	if err != nil {
		return model.StagedLogo{}, fmt.Errorf("load staged logo for %s: %w", domain, err)
	}
	return logo, nil
}
