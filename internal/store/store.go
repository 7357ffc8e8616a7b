// Package store defines the persistence contract for reading sessions and
// their progress logs, plus the typed records shared by every backend.
package store

import (
	"context"
	"time"
)

// Store is the pluggable persistence interface for reading sessions. Two
// implementations exist: a durable SQLite backend (internal/database) and an
// in-memory map (internal/store/memory) for environments without persistent
// storage. Callers depend only on this interface.
//
// Every operation acts on a single session's rows; nothing is transactional
// across sessions. Concurrent RecordProgress calls on the same session are
// not ordered: the later write to the cursor wins.
type Store interface {
	// CreateSession persists a new session. The caller fills in the id,
	// text, word count and creation time.
	CreateSession(ctx context.Context, session *ReadingSession) error

	// GetSession returns the session with the given id, or an error
	// wrapping ErrNotFound.
	GetSession(ctx context.Context, id string) (*ReadingSession, error)

	// RecordProgress appends one progress entry and moves the session
	// cursor to the entry's word index in a single atomic step. A failure
	// leaves neither the entry nor the cursor update behind.
	RecordProgress(ctx context.Context, entry *ReadingProgress) error

	// CompleteSession stamps the session's completion time (overwriting
	// any earlier stamp) and returns the progress tallies.
	CompleteSession(ctx context.Context, id string, completedAt time.Time) (*SessionCounts, error)

	// RecentSessions returns up to limit sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]*ReadingSession, error)

	// Close releases any resources held by the backend.
	Close() error
}
