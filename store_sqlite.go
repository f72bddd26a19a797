package followerwatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the snapshot as a single row in a SQLite database.
// An alternative to FileStore for deployments that already keep state in
// SQLite; the two are interchangeable behind SnapshotStore.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// ensures the snapshot table exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite store %s", path)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	const schema = `
		CREATE TABLE IF NOT EXISTS snapshot (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			followers    TEXT NOT NULL,
			last_updated TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating snapshot table")
	}
	return &SQLiteStore{db: db}, nil
}

func (ss *SQLiteStore) Close() error {
	if ss == nil || ss.db == nil {
		return nil
	}
	return ss.db.Close()
}

func (ss *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	var (
		followersJSON string
		lastUpdated   string
	)
	err := ss.db.QueryRowContext(ctx,
		`SELECT followers, last_updated FROM snapshot WHERE id = 1`).
		Scan(&followersJSON, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading snapshot row")
	}

	var handles []string
	if err := json.Unmarshal([]byte(followersJSON), &handles); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot followers")
	}
	at, err := time.Parse(time.RFC3339Nano, lastUpdated)
	if err != nil {
		return nil, errors.Wrap(err, "decoding snapshot timestamp")
	}
	return &Snapshot{
		Followers:   NewFollowerSet(handles...),
		LastUpdated: at,
	}, nil
}

func (ss *SQLiteStore) Save(ctx context.Context, followers FollowerSet) error {
	b, err := json.Marshal(followers.Handles())
	if err != nil {
		return errors.Wrap(err, "encoding snapshot followers")
	}
	_, err = ss.db.ExecContext(ctx,
		`INSERT INTO snapshot(id, followers, last_updated) VALUES(1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   followers = excluded.followers,
		   last_updated = excluded.last_updated`,
		string(b), time.Now().Format(time.RFC3339Nano),
	)
	return errors.Wrap(err, "writing snapshot row")
}
