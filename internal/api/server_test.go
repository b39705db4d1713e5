package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/averill/westbound/internal/engine"
	"github.com/averill/westbound/internal/game"
	"github.com/averill/westbound/internal/trail"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]game.Session
}

func (m *memStore) Get(_ context.Context, key string) (game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[key]; ok {
		return sess, nil
	}
	return game.NewSession(), nil
}

func (m *memStore) Put(_ context.Context, key string, sess game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = sess
	return nil
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func newTestServer(gen engine.Generator) *Server {
	st := &memStore{sessions: make(map[string]game.Session)}
	return &Server{
		Engine: engine.New(st, gen, trail.New(1848), time.Second),
	}
}

func TestPlayStartsGameAndSetsCookie(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/play", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /play status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp storyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Story, "Oregon Trail") {
		t.Errorf("intro story missing scenario text: %q", resp.Story)
	}

	var sessionSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" && c.HttpOnly {
			sessionSet = true
		}
	}
	if !sessionSet {
		t.Error("no HttpOnly session cookie set on /play")
	}
}

func TestContinueAdvancesTurn(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return `{"story":"You set off.","changes":{"day":1,"distance":12,"food":-6,"materials":0,"health":0},"nextOptions":["Push on","Rest","Hunt"]}`, nil
	}))
	h := srv.Handler()

	// Start and keep the cookie.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/play", nil))
	cookies := rec.Result().Cookies()

	body := strings.NewReader(`{"playerChoice":"Begin the journey"}`)
	req := httptest.NewRequest(http.MethodPost, "/continue", body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /continue status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp storyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, want := range []string{"You set off.", "Day: 2", "Distance: 12 miles", "1. Push on"} {
		if !strings.Contains(resp.Story, want) {
			t.Errorf("turn text missing %q:\n%s", want, resp.Story)
		}
	}
}

func TestContinueRejectsWrongMethod(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/continue", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /continue status = %d, want 405", rec.Code)
	}
}

func TestContinueGeneratorFailureIs502(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", context.DeadlineExceeded
	}))
	h := srv.Handler()

	body := strings.NewReader(`{"playerChoice":"Push on"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/continue", body))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Try again") {
		t.Errorf("expected a try-again message, got: %s", rec.Body.String())
	}
}

func TestContinueBadBodyIs400(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/continue", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIndexServesClient(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sendChoice()") {
		t.Error("index page missing client script")
	}
}

func TestUnknownPathFallthrough(t *testing.T) {
	srv := newTestServer(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if !strings.Contains(rec.Body.String(), "running") {
		t.Errorf("fallthrough body = %q", rec.Body.String())
	}
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other IPs should be unaffected")
	}
}
