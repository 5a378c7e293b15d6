package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItineraryActivities(t *testing.T) {
	t.Run("plain JSON array", func(t *testing.T) {
		raw := `[{"time": "09:00", "title": "Museum", "description": "Visit.", "poi_name": "Brunei Museum", "lat": 4.86, "lon": 114.94}]`

		activities, err := parseItineraryActivities(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "09:00", activities[0].Time)
		assert.Equal(t, "Museum", activities[0].Title)
		assert.Equal(t, "Brunei Museum", activities[0].POIName)
		assert.InDelta(t, 4.86, activities[0].Latitude, 0.001)
		assert.InDelta(t, 114.94, activities[0].Longitude, 0.001)
	})

	t.Run("fenced json block", func(t *testing.T) {
		raw := "```json\n[{\"time\": \"10:00\", \"title\": \"Market\"}]\n```"

		activities, err := parseItineraryActivities(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "Market", activities[0].Title)
	})

	t.Run("bare fence", func(t *testing.T) {
		raw := "```\n[{\"title\": \"Walk\"}]\n```"

		activities, err := parseItineraryActivities(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "Walk", activities[0].Title)
	})

	t.Run("array embedded in prose", func(t *testing.T) {
		raw := "Here is your itinerary:\n[{\"title\": \"Hike\"}]\nEnjoy your trip!"

		activities, err := parseItineraryActivities(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "Hike", activities[0].Title)
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		raw := `[{"title": "Dinner", "cost": "20 BND", "rating": 4.5}]`

		activities, err := parseItineraryActivities(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "Dinner", activities[0].Title)
		assert.Empty(t, activities[0].Time)
	})

	t.Run("empty array", func(t *testing.T) {
		activities, err := parseItineraryActivities("[]")

		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("plain text is an error", func(t *testing.T) {
		_, err := parseItineraryActivities("Day 1: go hiking in the morning.")

		assert.Error(t, err)
	})

	t.Run("truncated JSON is an error", func(t *testing.T) {
		_, err := parseItineraryActivities(`[{"title": "Museum"`)

		assert.Error(t, err)
	})
}

func TestFallbackItinerary(t *testing.T) {
	raw := "Sure! Start at the museum, then head to the night market."

	activities := fallbackItinerary(raw)

	require.Len(t, activities, 1)
	assert.Equal(t, "Itinerary", activities[0].Title)
	assert.Equal(t, raw, activities[0].Description)
	assert.Empty(t, activities[0].POIName)
	assert.Empty(t, activities[0].Photo)
}
