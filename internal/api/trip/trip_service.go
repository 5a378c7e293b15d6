package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jalanjalan-ai/trip-planner/app/observability/metrics"
	generativeAI "github.com/jalanjalan-ai/trip-planner/internal/api/generative_ai"
	"github.com/jalanjalan-ai/trip-planner/internal/api/media"
	"github.com/jalanjalan-ai/trip-planner/internal/api/poi"
	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// ErrGenerationUnavailable marks an infrastructure-level generation failure
// (network, timeout, quota). The session stage is left unchanged so the user
// can retry the same action.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

const (
	replySelectBudget      = "Great! Let's plan your weekend trip. Select your budget:"
	replySelectInterests   = "Great! Now select your interests:"
	replyItineraryReady    = "Hour-by-hour itinerary generated!"
	replyItineraryFallback = "Itinerary generated, but could not parse as JSON. Showing as text."
	replyNoCandidates      = "No POIs in the catalog matched your interests. You can still generate an itinerary from your preferences:"
)

var budgetOptions = []types.ReplyOption{
	{Kind: types.KindBudget, Value: string(types.BudgetLow), Label: "Low"},
	{Kind: types.KindBudget, Value: string(types.BudgetMedium), Label: "Medium"},
	{Kind: types.KindBudget, Value: string(types.BudgetHigh), Label: "High"},
}

var styleOptions = []types.ReplyOption{
	{Kind: types.KindTravelStyle, Value: string(types.StyleRelaxed), Label: "Relaxed"},
	{Kind: types.KindTravelStyle, Value: string(types.StyleAdventurous), Label: "Adventurous"},
	{Kind: types.KindTravelStyle, Value: string(types.StyleFamilyFriendly), Label: "Family-friendly"},
}

var interestOptions = []types.ReplyOption{
	{Kind: types.KindInterest, Value: "alam", Label: "Alam"},
	{Kind: types.KindInterest, Value: "kuliner", Label: "Kuliner"},
	{Kind: types.KindInterest, Value: "sejarah", Label: "Sejarah"},
	{Kind: types.KindInterest, Value: "belanja", Label: "Belanja"},
	{Kind: types.KindInterest, Value: "santai", Label: "Santai"},
	{Kind: types.KindConfirmInterests, Value: "done", Label: "Done"},
}

var generateOption = []types.ReplyOption{
	{Kind: types.KindGenerateItinerary, Value: "yes", Label: "Confirm & Generate Hourly Itinerary"},
}

var _ Service = (*ServiceImpl)(nil)

// Service drives one conversation turn through the stage machine.
type Service interface {
	HandleTurn(ctx context.Context, sessionKey, message string) (*types.ChatResponse, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	store       Store
	poiService  poi.Service
	aiClient    generativeAI.Client
	imageClient media.Client
	genTimeout  time.Duration
}

func NewServiceImpl(store Store, poiService poi.Service, aiClient generativeAI.Client,
	imageClient media.Client, genTimeout time.Duration, logger *slog.Logger) *ServiceImpl {
	if genTimeout <= 0 {
		genTimeout = 30 * time.Second
	}
	return &ServiceImpl{
		logger:      logger,
		store:       store,
		poiService:  poiService,
		aiClient:    aiClient,
		imageClient: imageClient,
		genTimeout:  genTimeout,
	}
}

// HandleTurn dispatches an incoming turn against the session's current stage.
// Input that does not match the stage's expected structured choice is never an
// error: it falls through to the free-form assistant path, so the conversation
// cannot deadlock on malformed input.
func (s *ServiceImpl) HandleTurn(ctx context.Context, sessionKey, message string) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "HandleTurn", trace.WithAttributes(
		attribute.String("session.key", sessionKey),
	))
	defer span.End()

	metrics.Get().ChatTurnsTotal.Add(ctx, 1)

	sess := s.getOrCreate(sessionKey)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	span.SetAttributes(attribute.String("session.stage", string(sess.Stage)))
	l := s.logger.With(slog.String("session", sessionKey), slog.String("stage", string(sess.Stage)))

	sess.AppendTurn(types.RoleUser, message)
	input := types.ParseTurnInput(message)

	switch sess.Stage {
	case types.StageIdle:
		if input.Choice == nil && isTripTrigger(input.Text) {
			s.transition(ctx, sess, types.StageCollectingBudget)
			return &types.ChatResponse{Reply: replySelectBudget, Options: budgetOptions}, nil
		}

	case types.StageCollectingBudget:
		if input.IsChoice(types.KindBudget) && types.ValidBudget(input.Choice.Value) {
			sess.Prefs.Budget = types.Budget(input.Choice.Value)
			s.transition(ctx, sess, types.StageCollectingStyle)
			return &types.ChatResponse{
				Reply:   fmt.Sprintf("Got it! Budget: %s. Select your travel style:", input.Choice.Value),
				Options: styleOptions,
			}, nil
		}

	case types.StageCollectingStyle:
		if input.IsChoice(types.KindTravelStyle) && types.ValidTravelStyle(input.Choice.Value) {
			sess.Prefs.TravelStyle = types.TravelStyle(input.Choice.Value)
			sess.Prefs.Interests = []string{}
			s.transition(ctx, sess, types.StageCollectingInterests)
			return &types.ChatResponse{Reply: replySelectInterests, Options: interestOptions}, nil
		}

	case types.StageCollectingInterests:
		if input.IsChoice(types.KindInterest) && input.Choice.Value != "" {
			sess.Prefs.AddInterest(input.Choice.Value)
			return &types.ChatResponse{Reply: fmt.Sprintf("Added interest: %s", input.Choice.Value)}, nil
		}
		if input.IsChoice(types.KindConfirmInterests) {
			return s.confirmInterests(ctx, sess)
		}

	case types.StageReviewingCandidates:
		if input.IsChoice(types.KindGenerateItinerary) {
			return s.generateItinerary(ctx, sess)
		}

	case types.StageCompleted:
		// Terminal stage: every input, trigger phrases included, falls
		// through to the free-form path. A new session key restarts the flow.
	}

	l.DebugContext(ctx, "Input did not match stage contract, using free-form path")
	return s.freeForm(ctx, sess)
}

// isTripTrigger detects the trip-initiation phrase, case-insensitive on the
// two required keywords.
func isTripTrigger(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "create") && strings.Contains(lower, "trip")
}

func (s *ServiceImpl) getOrCreate(key string) *types.TripSession {
	if sess, ok := s.store.Get(key); ok {
		return sess
	}
	sess := types.NewTripSession(key)
	s.store.Upsert(key, sess)
	return sess
}

func (s *ServiceImpl) transition(ctx context.Context, sess *types.TripSession, next types.Stage) {
	metrics.Get().StageTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(sess.Stage)),
		attribute.String("to", string(next)),
	))
	s.logger.InfoContext(ctx, "Stage transition",
		slog.String("session", sess.Key),
		slog.String("from", string(sess.Stage)),
		slog.String("to", string(next)),
	)
	sess.Stage = next
	sess.UpdatedAt = time.Now()
}

// confirmInterests runs the catalog lookup with the accumulated preferences
// and advances to candidate review. An empty candidate list is a normal
// outcome; only a catalog infrastructure failure aborts without advancing.
func (s *ServiceImpl) confirmInterests(ctx context.Context, sess *types.TripSession) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ConfirmInterests")
	defer span.End()

	pois, err := s.poiService.Lookup(ctx, sess.Prefs.Budget, sess.Prefs.Interests, sess.Prefs.TravelStyle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog lookup failed")
		return nil, fmt.Errorf("failed to look up candidate POIs: %w", err)
	}

	sess.Candidates = pois
	s.transition(ctx, sess, types.StageReviewingCandidates)

	if len(pois) == 0 {
		return &types.ChatResponse{Reply: replyNoCandidates, Options: generateOption}, nil
	}

	var b strings.Builder
	b.WriteString("Here are suggested POIs for your trip:\n")
	for _, p := range pois {
		fmt.Fprintf(&b, "- %s (%s): %s\n", p.Name, p.Category, p.Description)
	}
	span.SetAttributes(attribute.Int("candidates.count", len(pois)))
	return &types.ChatResponse{Reply: b.String(), Options: generateOption, POIs: pois}, nil
}

// generateItinerary performs the single request/response generation call and
// interprets the result. Parse failures degrade to a one-activity fallback;
// call failures leave the stage untouched for retry.
func (s *ServiceImpl) generateItinerary(ctx context.Context, sess *types.TripSession) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateItinerary")
	defer span.End()

	prompt := buildItineraryPrompt(sess.Prefs, sess.Candidates)

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.aiClient.GenerateContent(genCtx, prompt, nil)
	metrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().GenerationErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation call failed")
		s.logger.ErrorContext(ctx, "Itinerary generation failed, stage unchanged",
			slog.String("session", sess.Key), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	reply := replyItineraryReady
	activities, parseErr := parseItineraryActivities(raw)
	if parseErr != nil {
		s.logger.WarnContext(ctx, "Itinerary response not parseable, using fallback",
			slog.String("session", sess.Key), slog.Any("error", parseErr))
		span.AddEvent("itinerary parse fallback")
		activities = fallbackItinerary(raw)
		reply = replyItineraryFallback
	} else {
		s.enrichWithImages(ctx, activities)
	}

	s.transition(ctx, sess, types.StageCompleted)
	span.SetAttributes(attribute.Int("itinerary.activities", len(activities)))
	return &types.ChatResponse{Reply: reply, Itinerary: activities}, nil
}

// enrichWithImages attaches a best-effort image URL to every activity that
// names a POI. Lookup failures leave the photo absent.
func (s *ServiceImpl) enrichWithImages(ctx context.Context, activities []types.ItineraryActivity) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range activities {
		if activities[i].POIName == "" {
			continue
		}
		i := i
		g.Go(func() error {
			url, err := s.imageClient.ImageFor(gctx, activities[i].POIName, "destination")
			if err != nil {
				s.logger.DebugContext(gctx, "Image enrichment failed",
					slog.String("poi", activities[i].POIName), slog.Any("error", err))
				return nil
			}
			activities[i].Photo = url
			return nil
		})
	}
	_ = g.Wait()
}

// freeForm forwards the full history plus the persona instruction to the
// generation service and returns its raw text. The current user turn is
// already on the history at this point.
func (s *ServiceImpl) freeForm(ctx context.Context, sess *types.TripSession) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "FreeFormReply")
	defer span.End()

	prompt := buildFreeFormPrompt(sess.History)

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.aiClient.GenerateContent(genCtx, prompt, nil)
	metrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().GenerationErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Free-form generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	sess.AppendTurn(types.RoleAssistant, raw)
	span.SetStatus(codes.Ok, "Free-form reply generated")
	return &types.ChatResponse{Reply: raw}, nil
}
