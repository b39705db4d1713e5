// Package game holds the core trail-game types: the numeric game state,
// the model-proposed stat changes, and the per-player session record.
package game

// GameState is the small numeric record that tracks a wagon party's
// progress. Food and materials never go negative; health stays in [0, 100].
type GameState struct {
	Day       int `json:"day"`
	Distance  int `json:"distance"`
	Food      int `json:"food"`
	Materials int `json:"materials"`
	Health    int `json:"health"`
}

// NewGameState returns the starting state for a fresh wagon party.
func NewGameState() GameState {
	return GameState{
		Day:       1,
		Distance:  0,
		Food:      100,
		Materials: 50,
		Health:    100,
	}
}

// StatChanges carries the model's proposed per-stat deltas for one turn.
// These are changes, not absolute values; fields the model omits
// unmarshal as zero and leave the stat untouched.
type StatChanges struct {
	Day       int `json:"day"`
	Distance  int `json:"distance"`
	Food      int `json:"food"`
	Materials int `json:"materials"`
	Health    int `json:"health"`
}

// Apply adds the deltas to the state and clamps the result. Food and
// materials floor at zero; health is held to [0, 100]. Day and distance
// are added as-is — the model is instructed to keep them non-decreasing
// but nothing here enforces it.
func (s *GameState) Apply(d StatChanges) {
	s.Day += d.Day
	s.Distance += d.Distance
	s.Food = max(0, s.Food+d.Food)
	s.Materials = max(0, s.Materials+d.Materials)
	s.Health = min(100, max(0, s.Health+d.Health))
}

// TurnReply is the structured response the narrative model is asked to
// produce each turn: a short story continuation, stat deltas, and
// exactly three follow-up options for the player.
type TurnReply struct {
	Story       string      `json:"story"`
	Changes     StatChanges `json:"changes"`
	NextOptions []string    `json:"nextOptions"`
}
