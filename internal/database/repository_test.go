package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readaloud/reading-assistant/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath, nil)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewRepository(db, nil)
}

func seedSession(t *testing.T, r *Repository, id string) {
	t.Helper()
	err := r.CreateSession(context.Background(), &store.ReadingSession{
		ID:          id,
		Filename:    "test.txt",
		TextContent: "hello world this is a test",
		TotalWords:  6,
	})
	require.NoError(t, err)
}

func TestRepositoryCreateAndGetSession(t *testing.T) {
	r := newTestRepository(t)
	seedSession(t, r, "11111111-1111-1111-1111-111111111111")

	session, err := r.GetSession(context.Background(), "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, "test.txt", session.Filename)
	assert.Equal(t, 6, session.TotalWords)
	assert.Equal(t, 0, session.CurrentWordIndex)
	assert.Nil(t, session.CompletedAt)
	assert.False(t, session.CreatedAt.IsZero(), "BeforeCreate should stamp CreatedAt")
}

func TestRepositoryGetSessionNotFound(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepositoryRecordProgress(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	seedSession(t, r, "s1")

	entry := &store.ReadingProgress{
		SessionID:       "s1",
		WordIndex:       3,
		ExpectedWord:    "is",
		SpokenWord:      "is",
		IsCorrect:       true,
		ConfidenceScore: 0.92,
	}
	require.NoError(t, r.RecordProgress(ctx, entry))
	assert.NotZero(t, entry.ID, "progress entry should get an auto-incremented id")

	session, err := r.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, session.CurrentWordIndex)
}

func TestRepositoryRecordProgressUnknownSession(t *testing.T) {
	r := newTestRepository(t)

	err := r.RecordProgress(context.Background(), &store.ReadingProgress{
		SessionID: "missing",
		WordIndex: 0,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepositoryCompleteSession(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	seedSession(t, r, "s1")

	attempts := []bool{true, false, true, true}
	for i, correct := range attempts {
		err := r.RecordProgress(ctx, &store.ReadingProgress{
			SessionID: "s1",
			WordIndex: i,
			IsCorrect: correct,
		})
		require.NoError(t, err)
	}

	counts, err := r.CompleteSession(ctx, "s1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 6, counts.TotalWords)
	assert.Equal(t, 4, counts.TotalAttempts)
	assert.Equal(t, 3, counts.CorrectWords)

	session, err := r.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, session.CompletedAt)
}

func TestRepositoryCompleteSessionNotFound(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.CompleteSession(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepositoryRecentSessions(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		err := r.CreateSession(ctx, &store.ReadingSession{
			ID:          id,
			Filename:    "test.txt",
			TextContent: "one two three",
			TotalWords:  3,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	recent, err := r.RecentSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}
