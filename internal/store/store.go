// Package store persists per-player sessions in SQLite.
package store

import (
	"context"

	"github.com/averill/westbound/internal/game"
)

// Store is the session persistence contract. Get never reports "not
// found": an absent key yields a fresh default session. Put overwrites
// the full record, last writer wins.
type Store interface {
	Get(ctx context.Context, key string) (game.Session, error)
	Put(ctx context.Context, key string, sess game.Session) error
}

// TurnLogger is implemented by stores that keep an append-only history
// of turns for observability. Logging failures are non-fatal and the
// engine treats them as best-effort.
type TurnLogger interface {
	LogTurn(ctx context.Context, key string, day int, choice string, fallback bool) error
}
