package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hacktolive/userscout/internal/model"
)

// dbFileName is the database file created under the data directory.
const dbFileName = "userscout.db"

// HitDB provides SQLite-based storage for confirmed hits.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all scans rather
// than one per username. This lets history queries span runs and keeps
// backup/restore a single-file operation.
type HitDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HitDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HitDB under the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HitDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HitDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HitDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HitDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HitDB) createTables() error {
	schema := `
	-- Hits store one row per (username, site, url) discovery.
	-- Re-finding the same hit updates its latest state and last_seen.
	CREATE TABLE IF NOT EXISTS hits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		site TEXT NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		title TEXT,
		elapsed_ms INTEGER,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(username, site, url)
	);

	CREATE INDEX IF NOT EXISTS idx_hits_username ON hits(username);
	CREATE INDEX IF NOT EXISTS idx_hits_site ON hits(site);
	CREATE INDEX IF NOT EXISTS idx_hits_last_seen ON hits(last_seen);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// HitRecord represents a stored hit.
type HitRecord struct {
	ID        int64
	Username  string
	Site      string
	URL       string
	Status    string
	Verified  bool
	Title     string
	ElapsedMS int64
	FirstSeen time.Time
	LastSeen  time.Time
}

// SaveHit inserts or refreshes the hit for a persisting probe result.
// Uses UPSERT: re-finding a known (username, site, url) updates its
// latest state and last_seen while preserving first_seen.
func (hdb *HitDB) SaveHit(ctx context.Context, res *model.ProbeResult) error {
	query := `
	INSERT INTO hits (username, site, url, status, verified, title, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(username, site, url) DO UPDATE SET
		status = excluded.status,
		verified = excluded.verified,
		title = excluded.title,
		elapsed_ms = excluded.elapsed_ms,
		last_seen = CURRENT_TIMESTAMP
	`

	_, err := hdb.db.ExecContext(ctx, query,
		res.Username,
		res.SiteName,
		res.URL,
		res.StatusLabel,
		res.VerifiedHit,
		res.PageTitle,
		res.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("failed to save hit: %w", err)
	}

	return nil
}

// Count returns the total number of stored hits.
func (hdb *HitDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hits").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count hits: %w", err)
	}
	return count, nil
}

// HitsForUsername retrieves all stored hits for a username, most
// recently seen first.
func (hdb *HitDB) HitsForUsername(ctx context.Context, username string) ([]HitRecord, error) {
	query := `
	SELECT id, username, site, url, status, verified, title, elapsed_ms, first_seen, last_seen
	FROM hits
	WHERE username = ?
	ORDER BY last_seen DESC, site
	`

	rows, err := hdb.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits: %w", err)
	}
	defer rows.Close()

	var results []HitRecord
	for rows.Next() {
		var rec HitRecord
		var title sql.NullString
		var firstSeen, lastSeen string

		err := rows.Scan(
			&rec.ID,
			&rec.Username,
			&rec.Site,
			&rec.URL,
			&rec.Status,
			&rec.Verified,
			&title,
			&rec.ElapsedMS,
			&firstSeen,
			&lastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}

		rec.Title = title.String
		rec.FirstSeen = parseTimestamp(firstSeen)
		rec.LastSeen = parseTimestamp(lastSeen)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// GetHit retrieves one hit by its unique key, or nil when unknown.
func (hdb *HitDB) GetHit(ctx context.Context, username, site, url string) (*HitRecord, error) {
	query := `
	SELECT id, username, site, url, status, verified, title, elapsed_ms, first_seen, last_seen
	FROM hits
	WHERE username = ? AND site = ? AND url = ?
	`

	var rec HitRecord
	var title sql.NullString
	var firstSeen, lastSeen string

	err := hdb.db.QueryRowContext(ctx, query, username, site, url).Scan(
		&rec.ID,
		&rec.Username,
		&rec.Site,
		&rec.URL,
		&rec.Status,
		&rec.Verified,
		&title,
		&rec.ElapsedMS,
		&firstSeen,
		&lastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hit: %w", err)
	}

	rec.Title = title.String
	rec.FirstSeen = parseTimestamp(firstSeen)
	rec.LastSeen = parseTimestamp(lastSeen)
	return &rec, nil
}

// ListUsernames returns every username with at least one stored hit.
func (hdb *HitDB) ListUsernames(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT username FROM hits
	ORDER BY username
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}

	return usernames, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
