// Package session implements the reading-practice workflow: creating
// sessions from uploaded text, judging spoken words against expected words,
// and aggregating accuracy statistics on completion.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/readaloud/reading-assistant/internal/logger"
	"github.com/readaloud/reading-assistant/internal/matcher"
	"github.com/readaloud/reading-assistant/internal/store"
	"github.com/readaloud/reading-assistant/pkg/cache"
)

// wordCacheTTL bounds the word-list cache. Session text is immutable, so the
// TTL only caps memory held for abandoned sessions.
const wordCacheTTL = 15 * time.Minute

// Service coordinates the session store and the word matcher.
type Service struct {
	store  store.Store
	words  *cache.Cache
	logger *logger.Logger
}

// NewService creates a session service backed by the given store.
func NewService(st store.Store, log *logger.Logger) *Service {
	return &Service{
		store:  st,
		words:  cache.New(),
		logger: log,
	}
}

// ProgressResult is the verdict for one recorded word attempt.
type ProgressResult struct {
	IsCorrect          bool
	ProgressPercentage float64
}

// Statistics summarizes a completed session.
type Statistics struct {
	Accuracy      float64 `json:"accuracy"`
	TotalWords    int     `json:"totalWords"`
	CorrectWords  int     `json:"correctWords"`
	TotalAttempts int     `json:"totalAttempts"`
}

// CreateSession validates the text, computes the word count and persists a
// new session. Empty or whitespace-only text is rejected.
func (s *Service) CreateSession(ctx context.Context, filename, textContent string) (*store.ReadingSession, error) {
	textContent = strings.TrimSpace(textContent)
	if textContent == "" {
		return nil, NewValidationError("Text cannot be empty")
	}

	words := strings.Fields(textContent)
	if len(words) == 0 {
		return nil, NewValidationError("Text must contain at least one word")
	}

	if filename == "" {
		filename = "Pasted Text"
	}

	session := &store.ReadingSession{
		ID:          uuid.NewString(),
		Filename:    filename,
		TextContent: textContent,
		TotalWords:  len(words),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.words.Set(session.ID, words, wordCacheTTL)

	s.logger.Info("Created session", map[string]interface{}{
		"session_id":  session.ID,
		"filename":    filename,
		"total_words": session.TotalWords,
	})

	return session, nil
}

// GetSession returns the session and its word sequence.
func (s *Service) GetSession(ctx context.Context, id string) (*store.ReadingSession, []string, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return session, s.sessionWords(session), nil
}

// RecordProgress judges one spoken-word attempt, appends it to the progress
// log and moves the session cursor to the attempt's word index. The index is
// taken as sent: it is not range-checked and later calls win regardless of
// order, matching the trust the API places in the reading client.
func (s *Service) RecordProgress(ctx context.Context, sessionID string, wordIndex int, expectedWord, spokenWord string, confidence float64) (*ProgressResult, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	isCorrect := matcher.Match(strings.ToLower(spokenWord), strings.ToLower(expectedWord))

	entry := &store.ReadingProgress{
		SessionID:       sessionID,
		WordIndex:       wordIndex,
		ExpectedWord:    expectedWord,
		SpokenWord:      spokenWord,
		IsCorrect:       isCorrect,
		ConfidenceScore: confidence,
		Timestamp:       time.Now().UTC(),
	}
	if err := s.store.RecordProgress(ctx, entry); err != nil {
		return nil, err
	}

	percentage := 0.0
	if session.TotalWords > 0 {
		percentage = store.RoundPercent(float64(wordIndex+1) / float64(session.TotalWords) * 100)
	}

	s.logger.Debug("Recorded progress", map[string]interface{}{
		"session_id": sessionID,
		"word_index": wordIndex,
		"is_correct": isCorrect,
	})

	return &ProgressResult{
		IsCorrect:          isCorrect,
		ProgressPercentage: percentage,
	}, nil
}

// CompleteSession stamps the completion time and returns the accuracy
// statistics. Completing an already-completed session refreshes the stamp.
func (s *Service) CompleteSession(ctx context.Context, sessionID string) (*Statistics, error) {
	counts, err := s.store.CompleteSession(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if counts.TotalAttempts > 0 {
		accuracy = store.RoundPercent(float64(counts.CorrectWords) / float64(counts.TotalAttempts) * 100)
	}

	s.logger.Info("Completed session", map[string]interface{}{
		"session_id":     sessionID,
		"accuracy":       accuracy,
		"total_attempts": counts.TotalAttempts,
	})

	return &Statistics{
		Accuracy:      accuracy,
		TotalWords:    counts.TotalWords,
		CorrectWords:  counts.CorrectWords,
		TotalAttempts: counts.TotalAttempts,
	}, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Service) RecentSessions(ctx context.Context, limit int) ([]*store.ReadingSession, error) {
	return s.store.RecentSessions(ctx, limit)
}

// sessionWords returns the cached word sequence for the session, splitting
// the text on a cache miss. Text never changes, so entries cannot go stale.
func (s *Service) sessionWords(session *store.ReadingSession) []string {
	if cached, ok := s.words.Get(session.ID); ok {
		if words, ok := cached.([]string); ok {
			return words
		}
	}

	words := session.Words()
	s.words.Set(session.ID, words, wordCacheTTL)
	return words
}
