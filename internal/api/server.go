// Package api serves the trail game over HTTP: an inline HTML client at
// /, a start endpoint at /play, and a turn endpoint at /continue.
// Session identity rides in an HttpOnly cookie; the engine only ever
// sees the key as an explicit argument.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/averill/westbound/internal/engine"
)

const sessionCookie = "session"

// Server wires the turn engine to the HTTP surface.
type Server struct {
	Engine      *engine.Engine
	TurnsPerMin int // per-IP limit on /continue; 0 disables
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/play", s.handlePlay)

	turn := s.handleContinue
	if s.TurnsPerMin > 0 {
		limiter := NewRateLimiter(s.TurnsPerMin, time.Minute)
		turn = RateLimitMiddleware(limiter, turn)
	}
	mux.HandleFunc("/continue", turn)

	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.Write([]byte("Westbound trail server running."))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// sessionKey returns the caller's session key, minting a new one when
// the cookie is absent. The key is opaque; nothing downstream inspects it.
func sessionKey(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return uuid.NewString()
}

func setSessionCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
	})
}

// storyResponse is the JSON body both endpoints return on success.
type storyResponse struct {
	Story string `json:"story"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := sessionKey(r)
	story, err := s.Engine.StartGame(r.Context(), key)
	if err != nil {
		slog.Error("start game failed", "session", key, "error", err)
		http.Error(w, "could not start a new game", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, key)
	writeJSON(w, storyResponse{Story: story})
}

// continueRequest is the /continue body. The old client also sent
// storySoFar; it is accepted and ignored.
type continueRequest struct {
	PlayerChoice string `json:"playerChoice"`
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req continueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	key := sessionKey(r)
	story, err := s.Engine.AdvanceTurn(r.Context(), key, req.PlayerChoice)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrGenerator):
			slog.Error("turn failed: generator", "session", key, "error", err)
			http.Error(w, "The narrator is unavailable. Try again in a moment.", http.StatusBadGateway)
		default:
			slog.Error("turn failed: store", "session", key, "error", err)
			http.Error(w, "could not save your progress", http.StatusInternalServerError)
		}
		return
	}

	setSessionCookie(w, key)
	writeJSON(w, storyResponse{Story: story})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}
