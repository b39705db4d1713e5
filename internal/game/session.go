package game

// Session is the durable per-player record: the last rendered story text
// plus the current game state. Sessions are keyed externally by an
// opaque string; the key never appears inside the record.
type Session struct {
	Story string    `json:"story"`
	State GameState `json:"state"`
}

// NewSession returns a fresh session with default state and no story.
// The store hands this out for keys it has never seen, so an absent
// session is indistinguishable from a brand-new one.
func NewSession() Session {
	return Session{State: NewGameState()}
}
