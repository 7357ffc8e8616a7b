package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/readaloud/reading-assistant/internal/logger"
	"github.com/readaloud/reading-assistant/internal/store"
)

// Repository provides session and progress persistence on top of Database.
// It implements store.Store.
type Repository struct {
	db     *Database
	logger *logger.Logger
}

// NewRepository creates a new repository instance
func NewRepository(db *Database, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateSession persists a new reading session.
func (r *Repository) CreateSession(ctx context.Context, session *store.ReadingSession) error {
	if err := r.db.GetDB().WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Info("Created reading session", map[string]interface{}{
		"session_id":  session.ID,
		"filename":    session.Filename,
		"total_words": session.TotalWords,
	})

	return nil
}

// GetSession retrieves a session by id.
func (r *Repository) GetSession(ctx context.Context, id string) (*store.ReadingSession, error) {
	var session store.ReadingSession
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.WithSessionID(store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// RecordProgress appends a progress entry and moves the session cursor in one
// transaction, so a storage failure leaves no partial rows behind.
func (r *Repository) RecordProgress(ctx context.Context, entry *store.ReadingProgress) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&store.ReadingSession{}).
			Where("id = ?", entry.SessionID).
			Update("current_word_index", entry.WordIndex)
		if result.Error != nil {
			return fmt.Errorf("failed to update session cursor: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return store.WithSessionID(store.ErrNotFound, entry.SessionID)
		}

		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create progress entry: %w", err)
		}

		return nil
	})
}

// CompleteSession stamps the completion time and tallies the progress log.
// Stamping is idempotent: completing twice overwrites the earlier stamp.
func (r *Repository) CompleteSession(ctx context.Context, id string, completedAt time.Time) (*store.SessionCounts, error) {
	counts := &store.SessionCounts{}

	err := r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session store.ReadingSession
		if err := tx.Where("id = ?", id).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.WithSessionID(store.ErrNotFound, id)
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if err := tx.Model(&session).Update("completed_at", completedAt).Error; err != nil {
			return fmt.Errorf("failed to mark session complete: %w", err)
		}

		var correct, total int64
		if err := tx.Model(&store.ReadingProgress{}).
			Where("session_id = ? AND is_correct = ?", id, true).
			Count(&correct).Error; err != nil {
			return fmt.Errorf("failed to count correct entries: %w", err)
		}
		if err := tx.Model(&store.ReadingProgress{}).
			Where("session_id = ?", id).
			Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count progress entries: %w", err)
		}

		counts.TotalWords = session.TotalWords
		counts.CorrectWords = int(correct)
		counts.TotalAttempts = int(total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Completed reading session", map[string]interface{}{
		"session_id":     id,
		"total_attempts": counts.TotalAttempts,
		"correct_words":  counts.CorrectWords,
	})

	return counts, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (r *Repository) RecentSessions(ctx context.Context, limit int) ([]*store.ReadingSession, error) {
	var sessions []*store.ReadingSession
	query := r.db.GetDB().WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}
