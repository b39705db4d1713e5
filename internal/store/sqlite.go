package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/averill/westbound/internal/game"
)

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		key TEXT PRIMARY KEY,
		story TEXT NOT NULL,
		state_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_key TEXT NOT NULL,
		day INTEGER NOT NULL,
		choice TEXT NOT NULL,
		fallback INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_key);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type sessionRow struct {
	Story     string `db:"story"`
	StateJSON string `db:"state_json"`
}

// Get returns the session stored under key. Unknown keys return a
// fresh default session rather than an error.
func (db *DB) Get(ctx context.Context, key string) (game.Session, error) {
	var row sessionRow
	err := db.conn.GetContext(ctx, &row,
		"SELECT story, state_json FROM sessions WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return game.NewSession(), nil
	}
	if err != nil {
		return game.Session{}, fmt.Errorf("load session: %w", err)
	}

	sess := game.Session{Story: row.Story}
	if err := json.Unmarshal([]byte(row.StateJSON), &sess.State); err != nil {
		return game.Session{}, fmt.Errorf("decode session state: %w", err)
	}
	return sess, nil
}

// Put writes the full session record, replacing any prior value.
func (db *DB) Put(ctx context.Context, key string, sess game.Session) error {
	stateJSON, err := json.Marshal(sess.State)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (key, story, state_json, updated_at) VALUES (?, ?, ?, ?)",
		key, sess.Story, string(stateJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LogTurn appends one turn to the history table.
func (db *DB) LogTurn(ctx context.Context, key string, day int, choice string, fallback bool) error {
	fb := 0
	if fallback {
		fb = 1
	}
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO turns (session_key, day, choice, fallback, created_at) VALUES (?, ?, ?, ?, ?)",
		key, day, choice, fb, time.Now().Unix(),
	)
	return err
}

// TurnCount returns the number of logged turns for a session key.
func (db *DB) TurnCount(ctx context.Context, key string) (int, error) {
	var n int
	err := db.conn.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM turns WHERE session_key = ?", key)
	return n, err
}
