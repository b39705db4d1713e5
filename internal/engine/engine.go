// Package engine owns the turn-advancement algorithm: it builds the
// narrative prompt from session state, parses the model's reply,
// applies bounded stat changes, and persists the updated session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/averill/westbound/internal/game"
	"github.com/averill/westbound/internal/store"
	"github.com/averill/westbound/internal/trail"
)

// Sentinel errors let the HTTP layer tell a dead narrator apart from a
// dead database.
var (
	ErrGenerator = errors.New("narrative generator unavailable")
	ErrStore     = errors.New("session store unavailable")
)

// Generator produces a raw text continuation for a prompt. Implemented
// by llm.Client in production and by plain funcs in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IntroStory is the fixed opening shown when a new game starts.
const IntroStory = `You are leading a wagon party westward on the Oregon Trail.
It's the spring of 1848, and your supplies are packed.
You have 100 units of food, 50 materials, and 100 health.
Each day, your group consumes food as you travel.

What will you do next?
* Begin the journey.
* Trade for extra supplies.
* Rest before departing.`

// Engine advances trail-game sessions one turn at a time. Turns for the
// same session key are serialized so concurrent requests cannot lose
// each other's writes; different keys proceed in parallel.
type Engine struct {
	store   store.Store
	gen     Generator
	trail   *trail.Map
	timeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs an Engine. timeout bounds each generator call; zero
// means no bound beyond the caller's context.
func New(st store.Store, gen Generator, tr *trail.Map, timeout time.Duration) *Engine {
	return &Engine{
		store:   st,
		gen:     gen,
		trail:   tr,
		timeout: timeout,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockSession acquires the per-key turn lock, creating it on first use.
// Locks are never reaped; one mutex per session ever seen is cheap at
// this scale.
func (e *Engine) lockSession(key string) func() {
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// StartGame resets the session under key to the default state and the
// fixed introduction, then returns the introduction text.
func (e *Engine) StartGame(ctx context.Context, key string) (string, error) {
	unlock := e.lockSession(key)
	defer unlock()

	sess := game.NewSession()
	sess.Story = IntroStory
	if err := e.store.Put(ctx, key, sess); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	slog.Info("game started", "session", key)
	return IntroStory, nil
}

// AdvanceTurn runs one full turn for the session under key: read,
// prompt, generate, parse, apply, render, write. Malformed model output
// is recovered with the fixed fallback; generator and store failures
// propagate and leave the session unmodified.
func (e *Engine) AdvanceTurn(ctx context.Context, key, playerChoice string) (string, error) {
	unlock := e.lockSession(key)
	defer unlock()

	sess, err := e.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	conditions := e.trail.Conditions(sess.State.Day, sess.State.Distance)
	prompt := buildPrompt(sess.State, conditions, playerChoice)

	genCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.gen.Generate(genCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerator, err)
	}

	reply, ok := parseReply(raw)
	if !ok {
		slog.Warn("malformed model output, using fallback", "session", key, "raw_len", len(raw))
		reply = fallbackReply(raw)
	}

	sess.State.Apply(reply.Changes)
	sess.Story = renderTurn(reply, sess.State)

	if err := e.store.Put(ctx, key, sess); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	if tl, isLogger := e.store.(store.TurnLogger); isLogger {
		if err := tl.LogTurn(ctx, key, sess.State.Day, playerChoice, !ok); err != nil {
			slog.Warn("turn log write failed", "session", key, "error", err)
		}
	}

	slog.Info("turn advanced",
		"session", key,
		"day", sess.State.Day,
		"distance", sess.State.Distance,
		"fallback", !ok,
	)
	return sess.Story, nil
}
