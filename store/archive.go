package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shiwano/errdef"
	_ "modernc.org/sqlite"

	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Snapshot archive
// ---------------------------------------------------------------------------

// ErrSnapshotNotFound is returned when no archived snapshot has the
// requested id.
var ErrSnapshotNotFound = errdef.Define("snapshot_not_found")

// SnapshotID attaches the requested id to a snapshot_not_found error.
var SnapshotID, SnapshotIDFrom = errdef.DefineField[string]("snapshot_id")

// Meta describes an archived snapshot without its frame data.
type Meta struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Frames    int       `json:"frames"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores captured snapshots in a SQLite database, keyed by the
// hash of their canonical CBOR encoding. Identical stack content gets
// identical ids, so re-archiving a snapshot is a no-op.
type Archive struct {
	db *sql.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	frames     INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	data       BLOB NOT NULL
);
`

// OpenArchive opens (creating if needed) a snapshot archive at path.
// Use ":memory:" for an ephemeral archive.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open archive: %w", err)
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Put archives a snapshot under a content-derived id and returns the id.
// Archiving the same content twice returns the same id and keeps the
// original row.
func (a *Archive) Put(label string, snap *trace.Snapshot) (string, error) {
	data, err := trace.MarshalSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("store: encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	id := hex.EncodeToString(sum[:6])

	_, err = a.db.Exec(
		`INSERT INTO snapshots (id, label, frames, created_at, data)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, label, snap.Len(), time.Now().UTC().Format(time.RFC3339Nano), data,
	)
	if err != nil {
		return "", fmt.Errorf("store: archive snapshot: %w", err)
	}
	return id, nil
}

// Get returns the archived snapshot with the given id.
func (a *Archive) Get(id string) (*trace.Snapshot, error) {
	var data []byte
	err := a.db.QueryRow(`SELECT data FROM snapshots WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound.WithOptions(SnapshotID(id)).
			Errorf("no archived snapshot %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load snapshot: %w", err)
	}
	return trace.UnmarshalSnapshot(data)
}

// List returns metadata for all archived snapshots, newest first.
func (a *Archive) List() ([]Meta, error) {
	rows, err := a.db.Query(
		`SELECT id, label, frames, created_at FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var created string
		if err := rows.Scan(&m.ID, &m.Label, &m.Frames, &created); err != nil {
			return nil, fmt.Errorf("store: scan snapshot row: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes an archived snapshot.
func (a *Archive) Delete(id string) error {
	res, err := a.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSnapshotNotFound.WithOptions(SnapshotID(id)).
			Errorf("no archived snapshot %s", id)
	}
	return nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
