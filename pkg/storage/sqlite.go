package storage

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS sites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	base_url TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	site_id INTEGER NOT NULL REFERENCES sites(id),
	seq INTEGER NOT NULL,
	crawled_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	pages BLOB NOT NULL,
	UNIQUE(site_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_site ON snapshots(site_id, seq);
`

// SQLiteStore keeps snapshot history in a SQLite database. Pages of each
// snapshot are stored as one gzip-compressed JSON payload.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, baseURL string, snap models.Snapshot) error {
	payload, err := marshalGzipJSON(snap.Pages)
	if err != nil {
		return fmt.Errorf("encode pages: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	base := utils.NormalizeURL(baseURL)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sites (base_url) VALUES (?) ON CONFLICT(base_url) DO NOTHING`, base); err != nil {
		return fmt.Errorf("insert site: %w", err)
	}

	var siteID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sites WHERE base_url = ?`, base).Scan(&siteID); err != nil {
		return fmt.Errorf("lookup site: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots WHERE site_id = ?`, siteID).Scan(&seq); err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, site_id, seq, crawled_at, duration_ms, pages) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, siteID, seq, snap.CrawledAt.UTC().Format(time.RFC3339Nano), snap.DurationMs, payload); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadHistory(ctx context.Context) ([]models.SiteHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sites.base_url, snapshots.id, snapshots.crawled_at, snapshots.duration_ms, snapshots.pages
		FROM snapshots JOIN sites ON sites.id = snapshots.site_id
		ORDER BY sites.id, snapshots.seq`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	histories := []models.SiteHistory{}
	for rows.Next() {
		var (
			baseURL, crawledAt string
			snap               models.Snapshot
			payload            []byte
		)
		if err := rows.Scan(&baseURL, &snap.ID, &crawledAt, &snap.DurationMs, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.CrawledAt, err = time.Parse(time.RFC3339Nano, crawledAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: parse time: %w", snap.ID, err)
		}
		if err := readGzipJSON(bytes.NewReader(payload), &snap.Pages); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
		}

		if n := len(histories); n > 0 && histories[n-1].BaseURL == baseURL {
			histories[n-1].Snapshots = append(histories[n-1].Snapshots, snap)
		} else {
			histories = append(histories, models.SiteHistory{BaseURL: baseURL, Snapshots: []models.Snapshot{snap}})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return histories, nil
}

// Path returns the database file location
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
