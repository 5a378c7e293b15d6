package poi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jalanjalan-ai/trip-planner/app/observability/metrics"
	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for catalog lookups.
type Service interface {
	Lookup(ctx context.Context, budget types.Budget, interests []string, style types.TravelStyle) ([]types.POIDetail, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	poiRepository Repository
}

func NewServiceImpl(poiRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		poiRepository: poiRepository,
	}
}

// Lookup returns catalog entries whose category intersects the interest set,
// in catalog order. An empty result is a normal outcome, never an error.
func (s *ServiceImpl) Lookup(ctx context.Context, budget types.Budget, interests []string, style types.TravelStyle) ([]types.POIDetail, error) {
	ctx, span := otel.Tracer("POIService").Start(ctx, "Lookup", trace.WithAttributes(
		attribute.StringSlice("interests", interests),
		attribute.String("budget", string(budget)),
	))
	defer span.End()

	start := time.Now()
	pois, err := s.poiRepository.Lookup(ctx, budget, interests, style)
	metrics.Get().CatalogLookupSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to look up POIs", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to look up POIs: %w", err)
	}

	span.SetAttributes(attribute.Int("pois.count", len(pois)))
	span.SetStatus(codes.Ok, "POIs retrieved")
	return pois, nil
}
