// Package server exposes the ask pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"askweb/internal/logger"
	"askweb/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Asker answers one question. *pipeline.Pipeline satisfies it.
type Asker interface {
	Run(ctx context.Context, query string) (*pipeline.Candidate, error)
}

// Server serves the ask API.
type Server struct {
	asker Asker
	http  *http.Server
}

type askRequest struct {
	Q string `json:"q"`
}

type askResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Mode    string   `json:"mode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server listening on addr.
func New(addr string, asker Asker) *Server {
	s := &Server{asker: asker}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a fatal error.
func (s *Server) ListenAndServe() error {
	logger.Info("server: listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqID := uuid.NewString()
	start := time.Now()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Q)
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	logger.Info("ask[%s]: %q", reqID, query)

	candidate, err := s.asker.Run(r.Context(), query)
	if err != nil {
		// Provider details stay in the log; the client gets a generic error.
		logger.Error("ask[%s]: failed after %v: %v", reqID, time.Since(start), err)
		writeError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}

	logger.Info("ask[%s]: answered via %s in %v with %d sources",
		reqID, candidate.Mode, time.Since(start), len(candidate.Sources))

	writeJSON(w, http.StatusOK, askResponse{
		Answer:  candidate.Answer,
		Sources: candidate.Sources,
		Mode:    string(candidate.Mode),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("server: failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
