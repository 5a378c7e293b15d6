package trip

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// cleanJSONArrayResponse strips markdown code fences and surrounding prose so
// a JSON array embedded in a chatty response still parses.
func cleanJSONArrayResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	firstBracket := strings.Index(response, "[")
	lastBracket := strings.LastIndex(response, "]")
	if firstBracket == -1 || lastBracket == -1 || lastBracket <= firstBracket {
		return response
	}
	return strings.TrimSpace(response[firstBracket : lastBracket+1])
}

// parseItineraryActivities parses the generation response as a JSON array of
// activity objects. Unknown fields are ignored; missing optional fields stay
// zero-valued.
func parseItineraryActivities(raw string) ([]types.ItineraryActivity, error) {
	var activities []types.ItineraryActivity
	if err := json.Unmarshal([]byte(cleanJSONArrayResponse(raw)), &activities); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary JSON: %w", err)
	}
	return activities, nil
}

// fallbackItinerary wraps an unparseable generation response in a single
// activity whose description is the raw text verbatim. This is the degraded
// path that keeps the generation service's non-determinism from ever reaching
// the caller as a failure.
func fallbackItinerary(raw string) []types.ItineraryActivity {
	return []types.ItineraryActivity{
		{
			Title:       "Itinerary",
			Description: raw,
		},
	}
}
