package engine

import (
	"fmt"
	"strings"

	"github.com/averill/westbound/internal/game"
)

// buildPrompt renders the deterministic model prompt for one turn: task
// preamble, current stats as labeled lines, the trail conditions, the
// player's choice quoted verbatim, and strict output-format instructions.
func buildPrompt(state game.GameState, conditions, playerChoice string) string {
	var b strings.Builder

	b.WriteString("You are running an Oregon Trail text adventure.\n\n")

	b.WriteString("Player stats before action:\n")
	fmt.Fprintf(&b, "Day: %d\n", state.Day)
	fmt.Fprintf(&b, "Distance: %d\n", state.Distance)
	fmt.Fprintf(&b, "Food: %d\n", state.Food)
	fmt.Fprintf(&b, "Materials: %d\n", state.Materials)
	fmt.Fprintf(&b, "Health: %d\n\n", state.Health)

	fmt.Fprintf(&b, "Trail conditions: %s.\n\n", conditions)

	fmt.Fprintf(&b, "The player chose: %q\n\n", playerChoice)

	b.WriteString(`1. Decide what happens next in the story (max 80 words).
2. Decide how much each stat CHANGES as a result. NOT the new stat value.
Return your response as strict JSON in this format:

{
  "story": "<short continuation text>",
  "changes": {
    "day": <integer>,
    "distance": <integer>,
    "food": <integer>,
    "materials": <integer>,
    "health": <integer>
  },
  "nextOptions": ["<option1>", "<option2>", "<option3>"]
}

Do NOT include extra commentary or text outside the JSON.`)

	return b.String()
}
