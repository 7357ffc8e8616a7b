// Package server wires the API handlers into an HTTP server with routing,
// CORS and request logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/readaloud/reading-assistant/internal/api"
	"github.com/readaloud/reading-assistant/internal/logger"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	apiHandler *api.Handler
	staticDir  string
	logger     *logger.Logger
}

// New creates a new HTTP server for the reading-practice API
func New(addr string, apiHandler *api.Handler, staticDir string, log *logger.Logger) *Server {
	s := &Server{
		server: &http.Server{
			Addr: addr,
		},
		apiHandler: apiHandler,
		staticDir:  staticDir,
		logger:     log,
	}

	// Set up routes
	handler := http.NewServeMux()

	// Health check
	handler.HandleFunc("/healthz", s.handleHealthCheck)

	// Session creation
	handler.HandleFunc("/upload", s.handleUpload)
	handler.HandleFunc("/upload-text", s.handleUploadText)

	// Session API
	handler.HandleFunc("/api/sessions", s.handleAPISessions)
	handler.HandleFunc("/api/sessions/", s.handleAPISessionsWithID)

	// Reading page and static web UI files
	handler.HandleFunc("/session/", s.handleSessionPage)
	handler.HandleFunc("/", s.handleStaticFiles)

	// Middleware chain: CORS -> Logger
	var finalHandler http.Handler = handler
	finalHandler = corsMiddleware(finalHandler)
	finalHandler = logger.HTTPMiddleware(finalHandler)
	s.server.Handler = finalHandler

	// Set timeouts
	s.server.ReadTimeout = 10 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.IdleTimeout = 120 * time.Second

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// corsMiddleware sets CORS headers and answers preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealthCheck handles health check requests
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// handleUpload handles POST /upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiHandler.UploadFile(w, r)
}

// handleUploadText handles POST /upload-text
func (s *Server) handleUploadText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiHandler.UploadText(w, r)
}

// handleAPISessions handles /api/sessions
func (s *Server) handleAPISessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiHandler.RecentSessions(w, r)
}

// handleAPISessionsWithID handles /api/sessions/{id} and related endpoints
func (s *Server) handleAPISessionsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		// /api/sessions/{id}
		if r.Method == http.MethodGet {
			s.apiHandler.GetSession(w, r, parts[0])
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	} else if len(parts) == 2 && parts[0] != "" {
		// /api/sessions/{id}/{action}
		switch parts[1] {
		case "progress":
			if r.Method == http.MethodPost {
				s.apiHandler.RecordProgress(w, r, parts[0])
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "complete":
			if r.Method == http.MethodPost {
				s.apiHandler.CompleteSession(w, r, parts[0])
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleSessionPage serves the reading page for /session/{id}. The page
// fetches the session over the API; an unknown id surfaces there.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	http.ServeFile(w, r, filepath.Join(s.staticDir, "reading.html"))
}

// handleStaticFiles serves static web UI files
func (s *Server) handleStaticFiles(w http.ResponseWriter, r *http.Request) {
	// Default to index.html for root path
	filePath := r.URL.Path
	if filePath == "/" {
		filePath = "/index.html"
	}

	// Security: prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	fullPath := filepath.Join(s.staticDir, filePath)

	// Set content type based on file extension
	switch filepath.Ext(fullPath) {
	case ".html":
		w.Header().Set("Content-Type", "text/html")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".json":
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/plain")
	}

	// Serve the file
	http.ServeFile(w, r, fullPath)
}
