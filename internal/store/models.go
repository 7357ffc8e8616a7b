package store

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ReadingSession is one reading-practice run over a fixed text. The text and
// word count are immutable after creation; only the cursor and completion
// timestamp change.
type ReadingSession struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Filename         string     `gorm:"size:255;not null" json:"filename"`
	TextContent      string     `gorm:"type:text;not null" json:"text_content"`
	TotalWords       int        `gorm:"not null" json:"total_words"`
	CurrentWordIndex int        `gorm:"default:0" json:"current_word_index"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`

	// Relationship
	ProgressEntries []ReadingProgress `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"progress_entries,omitempty"`
}

// TableName keeps the table name aligned with the historical schema.
func (ReadingSession) TableName() string {
	return "reading_sessions"
}

// Words returns the word sequence of the session text, split on whitespace
// runs. TotalWords is always len(Words()).
func (s *ReadingSession) Words() []string {
	return strings.Fields(s.TextContent)
}

// ProgressPercentage is how far the cursor has advanced through the text,
// rounded to two decimals. Zero when the session has no words.
func (s *ReadingSession) ProgressPercentage() float64 {
	if s.TotalWords == 0 {
		return 0
	}
	return RoundPercent(float64(s.CurrentWordIndex+1) / float64(s.TotalWords) * 100)
}

// BeforeCreate hook for ReadingSession
func (s *ReadingSession) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// ReadingProgress is one recorded judgment of a spoken-word attempt. Entries
// are append-only: a session may hold several entries for the same word index
// (retries) and none is ever updated or deleted.
type ReadingProgress struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID       string    `gorm:"size:36;not null;index" json:"session_id"`
	WordIndex       int       `gorm:"not null" json:"word_index"`
	ExpectedWord    string    `gorm:"size:100;not null" json:"expected_word"`
	SpokenWord      string    `gorm:"size:100" json:"spoken_word"`
	IsCorrect       bool      `gorm:"default:true" json:"is_correct"`
	ConfidenceScore float64   `json:"confidence_score"`
	Timestamp       time.Time `json:"timestamp"`
}

// TableName keeps the table name aligned with the historical schema.
func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// BeforeCreate hook for ReadingProgress
func (p *ReadingProgress) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}

// SessionCounts are the raw progress tallies for a session, produced when it
// is completed. Accuracy is derived by the session service.
type SessionCounts struct {
	TotalWords    int
	CorrectWords  int
	TotalAttempts int
}

// RoundPercent rounds a percentage to two decimal places.
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
