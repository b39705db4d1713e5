package engine

import (
	"fmt"
	"strings"

	"github.com/averill/westbound/internal/game"
)

// renderTurn formats the display text for one turn: the narrative, a
// stats block for the already-updated state, and the three numbered
// options. This text is what the player sees and what gets persisted as
// the session's story.
func renderTurn(reply game.TurnReply, state game.GameState) string {
	var b strings.Builder

	b.WriteString(reply.Story)
	b.WriteString("\n\nStats:\n")
	fmt.Fprintf(&b, "  Day: %d\n", state.Day)
	fmt.Fprintf(&b, "  Distance: %d miles\n", state.Distance)
	fmt.Fprintf(&b, "  Food: %d\n", state.Food)
	fmt.Fprintf(&b, "  Materials: %d\n", state.Materials)
	fmt.Fprintf(&b, "  Health: %d\n", state.Health)

	b.WriteString("\nWhat will you do next?\n")
	for i, opt := range reply.NextOptions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}

	return strings.TrimRight(b.String(), "\n")
}
