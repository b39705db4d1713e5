package engine

import (
	"encoding/json"
	"strings"

	"github.com/averill/westbound/internal/game"
)

// parseReply extracts the model's structured turn reply from raw output.
// The model is told to return bare JSON but often wraps it in prose, so
// the parser takes the outermost brace-delimited object. The boolean
// tags the outcome: false means malformed, and the caller substitutes
// the fallback. A reply only counts as parsed when the story is a
// non-empty string and exactly three next options are present;
// individual missing "changes" fields are fine and stay zero.
func parseReply(raw string) (game.TurnReply, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return game.TurnReply{}, false
	}

	var reply game.TurnReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return game.TurnReply{}, false
	}
	if reply.Story == "" || len(reply.NextOptions) != 3 {
		return game.TurnReply{}, false
	}
	return reply, true
}

// fallbackReply is the single place a malformed model response becomes a
// playable turn: the raw text stands in as the story, the stats take a
// fixed one-day march, and the player gets generic options.
func fallbackReply(raw string) game.TurnReply {
	return game.TurnReply{
		Story:       raw,
		Changes:     game.StatChanges{Day: 1, Distance: 10, Food: -5, Materials: 0, Health: 0},
		NextOptions: []string{"Continue", "Rest", "Trade"},
	}
}
