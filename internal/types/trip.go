package types

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Stage is a discrete point in the scripted trip-planning conversation.
// Transitions are strictly forward; there is no backward edge.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageCollectingBudget    Stage = "collecting_budget"
	StageCollectingStyle     Stage = "collecting_style"
	StageCollectingInterests Stage = "collecting_interests"
	StageReviewingCandidates Stage = "reviewing_candidates"
	StageCompleted           Stage = "completed"
)

// PreferenceKind tags a structured choice sent by the client.
type PreferenceKind string

const (
	KindBudget            PreferenceKind = "budget"
	KindTravelStyle       PreferenceKind = "travel_style"
	KindInterest          PreferenceKind = "interest"
	KindConfirmInterests  PreferenceKind = "confirm_interests"
	KindGenerateItinerary PreferenceKind = "generate_itinerary"
)

type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// ValidBudget reports whether s belongs to the closed budget set.
func ValidBudget(s string) bool {
	switch Budget(s) {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

type TravelStyle string

const (
	StyleRelaxed        TravelStyle = "relaxed"
	StyleAdventurous    TravelStyle = "adventurous"
	StyleFamilyFriendly TravelStyle = "family-friendly"
)

// ValidTravelStyle reports whether s belongs to the closed style set.
func ValidTravelStyle(s string) bool {
	switch TravelStyle(s) {
	case StyleRelaxed, StyleAdventurous, StyleFamilyFriendly:
		return true
	}
	return false
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ConversationMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// TripPreferences accumulates the user's answers across turns. Budget and
// TravelStyle are write-once: the stage machine never revisits a collection
// stage, so a populated field is never overwritten. Interests deduplicate on
// exact value match.
type TripPreferences struct {
	Budget      Budget      `json:"budget,omitempty"`
	TravelStyle TravelStyle `json:"travel_style,omitempty"`
	Interests   []string    `json:"interests,omitempty"`
}

// HasInterest is order-independent membership on the interest set.
func (p *TripPreferences) HasInterest(value string) bool {
	for _, v := range p.Interests {
		if v == value {
			return true
		}
	}
	return false
}

// AddInterest appends value if absent. Idempotent.
func (p *TripPreferences) AddInterest(value string) {
	if !p.HasInterest(value) {
		p.Interests = append(p.Interests, value)
	}
}

// TripSession is the per-user conversation state. Created lazily on the first
// turn for a session key and kept for the process lifetime. All mutation goes
// through the trip service while holding Mu, so concurrent turns on the same
// key cannot interleave half-applied transitions.
type TripSession struct {
	Mu         sync.Mutex            `json:"-"`
	Key        string                `json:"key"`
	Stage      Stage                 `json:"stage"`
	History    []ConversationMessage `json:"history"`
	Prefs      TripPreferences       `json:"prefs"`
	Candidates []POIDetail           `json:"candidates,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func NewTripSession(key string) *TripSession {
	now := time.Now()
	return &TripSession{
		Key:       key,
		Stage:     StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *TripSession) AppendTurn(role MessageRole, content string) {
	s.History = append(s.History, ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.UpdatedAt = time.Now()
}

// StructuredChoice is the machine-readable preference selection the frontend
// buttons send, JSON-encoded inside the chat message field.
type StructuredChoice struct {
	PreferenceType PreferenceKind `json:"preference_type"`
	Value          string         `json:"value"`
}

// TurnInput is the tagged ingress form of a chat turn: either a structured
// choice or plain free text. The decision is made once at the boundary so the
// stage machine never re-parses message content.
type TurnInput struct {
	Text   string
	Choice *StructuredChoice
}

func (t TurnInput) IsChoice(kind PreferenceKind) bool {
	return t.Choice != nil && t.Choice.PreferenceType == kind
}

// ParseTurnInput classifies a raw chat message. A message is a structured
// choice only when it is valid JSON carrying a non-empty preference_type;
// anything else, malformed JSON included, is free text.
func ParseTurnInput(message string) TurnInput {
	trimmed := strings.TrimSpace(message)
	if strings.HasPrefix(trimmed, "{") {
		var choice StructuredChoice
		if err := json.Unmarshal([]byte(trimmed), &choice); err == nil && choice.PreferenceType != "" {
			return TurnInput{Text: message, Choice: &choice}
		}
	}
	return TurnInput{Text: message}
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ReplyOption is a selectable action offered alongside a reply, the data form
// of the preference buttons the web client renders.
type ReplyOption struct {
	Kind  PreferenceKind `json:"preference_type"`
	Value string         `json:"value"`
	Label string         `json:"label"`
}

// ChatResponse is the unit returned to the caller each turn.
type ChatResponse struct {
	Reply     string              `json:"reply"`
	Options   []ReplyOption       `json:"options,omitempty"`
	POIs      []POIDetail         `json:"pois,omitempty"`
	Itinerary []ItineraryActivity `json:"itinerary,omitempty"`
}
