// Package index maintains an optional sqlite-backed index of normalized
// sessions, so repeated searches do not have to re-read and re-parse every
// storage file. The in-memory corpus remains the authoritative query path;
// the index is an accelerator keyed on source-file mtime and size.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS sessions (
    source_file  TEXT PRIMARY KEY,
    session_id   TEXT NOT NULL DEFAULT '',
    session_type TEXT NOT NULL,
    agent        TEXT NOT NULL,
    workspace    TEXT NOT NULL DEFAULT '',
    ts           TEXT NOT NULL DEFAULT '',
    mtime        INTEGER NOT NULL DEFAULT 0,
    size         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    source_file TEXT NOT NULL,
    msg_idx     INTEGER NOT NULL,
    role        TEXT NOT NULL,
    ts          TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    PRIMARY KEY (source_file, msg_idx)
);
`

// schemaVersion should be bumped whenever normalization logic changes in a
// way that requires a full re-index.
const schemaVersion = "1"

// DB wraps the index database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the index database at dbPath.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("init meta: %w", err)
	}
	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return d, nil
}

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	// force re-index by resetting all session mtime/size to 0
	if _, err := d.db.Exec("UPDATE sessions SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Raw exposes the underlying handle for the indexer and search queries.
func (d *DB) Raw() *sql.DB {
	return d.db
}

// FileInfo is the freshness marker stored per indexed source file.
type FileInfo struct {
	Mtime int64
	Size  int64
}

// GetFileInfo returns the stored freshness marker for sourceFile, or nil if
// the file has never been indexed.
func (d *DB) GetFileInfo(sourceFile string) (*FileInfo, error) {
	var info FileInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM sessions WHERE source_file = ?",
		sourceFile,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// AllSourceFiles returns every indexed source file path.
func (d *DB) AllSourceFiles() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT source_file FROM sessions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make(map[string]struct{})
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files[f] = struct{}{}
	}
	return files, rows.Err()
}

// DeleteSession removes one indexed session and its messages.
func (d *DB) DeleteSession(sourceFile string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE source_file = ?", sourceFile); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE source_file = ?", sourceFile); err != nil {
		return err
	}
	return tx.Commit()
}

// SessionCount returns the number of indexed sessions.
func (d *DB) SessionCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

// MessageCount returns the number of indexed messages.
func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}
