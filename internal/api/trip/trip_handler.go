package trip

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/jalanjalan-ai/trip-planner/app/middleware"
	"github.com/jalanjalan-ai/trip-planner/internal/api"
	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Chat(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	tripService Service
	logger      *slog.Logger
}

func NewHandlerImpl(tripService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		tripService: tripService,
		logger:      logger,
	}
}

// Chat handles one conversation turn.
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "Chat", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Chat"))

	sessionKey, ok := appMiddleware.GetSessionKeyFromContext(ctx)
	if !ok || sessionKey == "" {
		l.ErrorContext(ctx, "Session key not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Session identification required")
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message is required")
		return
	}

	resp, err := h.tripService.HandleTurn(ctx, sessionKey, req.Message)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrGenerationUnavailable) {
			l.ErrorContext(ctx, "Generation service unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "Internal error, please try again.")
			return
		}
		l.ErrorContext(ctx, "Failed to handle chat turn", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal error, please try again.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
