// Package memory provides an in-memory Store backend for environments
// without persistent storage. Data lives for the lifetime of the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/readaloud/reading-assistant/internal/store"
)

// Store keeps sessions and progress logs in maps guarded by a RWMutex.
// It implements store.Store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*store.ReadingSession
	progress map[string][]*store.ReadingProgress
	nextID   uint
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*store.ReadingSession),
		progress: make(map[string][]*store.ReadingProgress),
	}
}

// CreateSession stores a copy of the session.
func (s *Store) CreateSession(_ context.Context, session *store.ReadingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// GetSession returns a copy of the session with the given id.
func (s *Store) GetSession(_ context.Context, id string) (*store.ReadingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, store.WithSessionID(store.ErrNotFound, id)
	}

	cp := *session
	return &cp, nil
}

// RecordProgress appends the entry and moves the session cursor under a
// single lock, so readers never observe one without the other.
func (s *Store) RecordProgress(_ context.Context, entry *store.ReadingProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[entry.SessionID]
	if !ok {
		return store.WithSessionID(store.ErrNotFound, entry.SessionID)
	}

	s.nextID++
	entry.ID = s.nextID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	cp := *entry
	s.progress[entry.SessionID] = append(s.progress[entry.SessionID], &cp)
	session.CurrentWordIndex = entry.WordIndex
	return nil
}

// CompleteSession stamps the completion time and tallies the progress log.
func (s *Store) CompleteSession(_ context.Context, id string, completedAt time.Time) (*store.SessionCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, store.WithSessionID(store.ErrNotFound, id)
	}

	session.CompletedAt = &completedAt

	counts := &store.SessionCounts{TotalWords: session.TotalWords}
	for _, entry := range s.progress[id] {
		counts.TotalAttempts++
		if entry.IsCorrect {
			counts.CorrectWords++
		}
	}
	return counts, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(_ context.Context, limit int) ([]*store.ReadingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*store.ReadingSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		cp := *session
		sessions = append(sessions, &cp)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}
