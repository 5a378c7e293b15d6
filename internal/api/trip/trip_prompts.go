package trip

import (
	"fmt"
	"strings"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

const assistantPersona = `You are JalanJalan.AI, a friendly travel assistant.
Guide the user step-by-step to create a weekend trip.
Always respond conversationally and provide options for budget, travel style, and interests.`

// buildItineraryPrompt renders the accumulated preferences as plain sentences,
// the candidate POIs as a bulleted list, and a fixed schema instruction. The
// schema text is not user-controllable, to keep the response machine-parseable.
func buildItineraryPrompt(prefs types.TripPreferences, pois []types.POIDetail) string {
	var b strings.Builder

	b.WriteString("You are JalanJalan.AI, planning a weekend trip.\n")
	fmt.Fprintf(&b, "The user's budget is %s.\n", prefs.Budget)
	fmt.Fprintf(&b, "The user's travel style is %s.\n", prefs.TravelStyle)
	fmt.Fprintf(&b, "The user's interests are: %s.\n", strings.Join(prefs.Interests, ", "))

	b.WriteString("Suggested POIs:\n")
	for _, p := range pois {
		fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Category)
	}

	b.WriteString(`Generate a weekend itinerary, hour-by-hour.
Return STRICTLY a JSON array of activity objects with fields: time, title, description, poi_name, lat, lon`)

	return b.String()
}

// buildFreeFormPrompt prepends the fixed persona instruction to the full
// conversation history for the default free-form generation path.
func buildFreeFormPrompt(history []types.ConversationMessage) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	b.WriteString("\n\nConversation history:\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	return b.String()
}
