// Package api provides the HTTP handlers and JSON contracts for the
// reading-practice REST endpoints.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/readaloud/reading-assistant/internal/logger"
	"github.com/readaloud/reading-assistant/internal/session"
	"github.com/readaloud/reading-assistant/internal/store"
)

// defaultRecentLimit caps the session listing on the landing page.
const defaultRecentLimit = 5

// Handler provides HTTP handlers for the reading-practice API
type Handler struct {
	sessions      *session.Service
	maxUploadSize int64
	logger        *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(sessions *session.Service, maxUploadSize int64, log *logger.Logger) *Handler {
	return &Handler{
		sessions:      sessions,
		maxUploadSize: maxUploadSize,
		logger:        log,
	}
}

// UploadTextRequest is the body for creating a session from pasted text.
type UploadTextRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// ProgressRequest is the body for recording one spoken-word attempt.
type ProgressRequest struct {
	SessionID    string  `json:"session_id"`
	WordIndex    int     `json:"word_index"`
	SpokenWord   string  `json:"spoken_word"`
	ExpectedWord string  `json:"expected_word"`
	Confidence   float64 `json:"confidence"`
}

// SessionPayload is the session representation returned to clients.
type SessionPayload struct {
	ID                 string     `json:"id"`
	Filename           string     `json:"filename"`
	TotalWords         int        `json:"total_words"`
	CurrentWordIndex   int        `json:"current_word_index"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at"`
}

func sessionPayload(s *store.ReadingSession) SessionPayload {
	return SessionPayload{
		ID:                 s.ID,
		Filename:           s.Filename,
		TotalWords:         s.TotalWords,
		CurrentWordIndex:   s.CurrentWordIndex,
		ProgressPercentage: s.ProgressPercentage(),
		CreatedAt:          s.CreatedAt,
		CompletedAt:        s.CompletedAt,
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode JSON response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// writeError writes an error response. Messages are generic and never carry
// internal detail; that goes to the log instead.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondWithServiceError maps service errors onto HTTP statuses: validation
// failures become 400, unknown sessions 404, everything else 500.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, operation string, err error) {
	fields := map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	}
	if sessionID, ok := store.GetSessionID(err); ok {
		fields["session_id"] = sessionID
	}

	var vErr *session.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.Warn("Request rejected", fields)
		h.writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, store.ErrNotFound):
		h.logger.Warn("Session not found", fields)
		h.writeError(w, http.StatusNotFound, "Session not found")
	default:
		h.logger.Error("Request failed", fields)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// UploadFile handles POST /upload: creates a session from an uploaded .txt
// file. Any other extension is rejected before the content is read.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		// The multipart reader does not always wrap the limit error, so
		// match on the message as well.
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			h.writeError(w, http.StatusBadRequest, "File is too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		h.writeError(w, http.StatusBadRequest, "Please upload a .txt file")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", map[string]interface{}{
			"operation": "upload_file",
			"filename":  header.Filename,
			"error":     err.Error(),
		})
		h.writeError(w, http.StatusBadRequest, "Failed to process file")
		return
	}

	created, err := h.sessions.CreateSession(r.Context(), filepath.Base(header.Filename), string(content))
	if err != nil {
		h.respondWithServiceError(w, "upload_file", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"session_id":   created.ID,
		"redirect_url": "/session/" + created.ID,
	})
}

// UploadText handles POST /upload-text: creates a session from pasted text.
func (h *Handler) UploadText(w http.ResponseWriter, r *http.Request) {
	var req UploadTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Text == "" {
		h.writeError(w, http.StatusBadRequest, "No text provided")
		return
	}

	created, err := h.sessions.CreateSession(r.Context(), req.Filename, req.Text)
	if err != nil {
		h.respondWithServiceError(w, "upload_text", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"session_id":   created.ID,
		"redirect_url": "/session/" + created.ID,
	})
}

// GetSession handles GET /api/sessions/{id}: the session view with its word
// list and current cursor.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, words, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		h.respondWithServiceError(w, "get_session", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"session":       sessionPayload(s),
		"words":         words,
		"current_index": s.CurrentWordIndex,
	})
}

// RecordProgress handles POST /api/sessions/{id}/progress.
func (h *Handler) RecordProgress(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	// The body's session id wins when present, matching clients that send
	// it redundantly alongside the path.
	if req.SessionID != "" {
		sessionID = req.SessionID
	}

	result, err := h.sessions.RecordProgress(r.Context(), sessionID, req.WordIndex, req.ExpectedWord, req.SpokenWord, req.Confidence)
	if err != nil {
		h.respondWithServiceError(w, "record_progress", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"is_correct":          result.IsCorrect,
		"progress_percentage": result.ProgressPercentage,
	})
}

// CompleteSession handles POST /api/sessions/{id}/complete.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	stats, err := h.sessions.CompleteSession(r.Context(), sessionID)
	if err != nil {
		h.respondWithServiceError(w, "complete_session", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"statistics": map[string]interface{}{
			"accuracy":       stats.Accuracy,
			"total_words":    stats.TotalWords,
			"correct_words":  stats.CorrectWords,
			"total_attempts": stats.TotalAttempts,
		},
	})
}

// RecentSessions handles GET /api/sessions: the newest sessions for the
// landing page.
func (h *Handler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := h.sessions.RecentSessions(r.Context(), limit)
	if err != nil {
		h.respondWithServiceError(w, "recent_sessions", err)
		return
	}

	payloads := make([]SessionPayload, 0, len(sessions))
	for _, s := range sessions {
		payloads = append(payloads, sessionPayload(s))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": payloads,
	})
}
