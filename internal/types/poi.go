package types

// POIDetail is a catalog entry eligible for inclusion in an itinerary.
// Reference data: owned by the catalog, never mutated by the conversation.
type POIDetail struct {
	ID          int64       `json:"id,omitempty"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	BudgetLevel Budget      `json:"budget_level,omitempty"`
	TravelStyle TravelStyle `json:"travel_style,omitempty"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description"`
	Latitude    float64     `json:"latitude,omitempty"`
	Longitude   float64     `json:"longitude,omitempty"`
}

// ItineraryActivity is one hour-by-hour entry of a generated itinerary.
// Produced only by the itinerary response parser and never mutated after
// enrichment.
type ItineraryActivity struct {
	Time        string  `json:"time"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	POIName     string  `json:"poi_name,omitempty"`
	Latitude    float64 `json:"lat,omitempty"`
	Longitude   float64 `json:"lon,omitempty"`
	Photo       string  `json:"photo,omitempty"`
}
