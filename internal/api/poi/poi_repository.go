package poi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// PGXPool is the subset of pgxpool.Pool the catalog repository needs. Kept
// narrow so repository tests can substitute a mock pool.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the catalog lookup contract. Budget and travel style are part
// of the signature for future refinement; the current matching policy is
// interest-only, which maximizes recall while the catalog is small.
type Repository interface {
	Lookup(ctx context.Context, budget types.Budget, interests []string, style types.TravelStyle) ([]types.POIDetail, error)
}

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository serves the catalog from the poi table created by the
// embedded migrations.
type PostgresRepository struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewPostgresRepository(pgpool PGXPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) Lookup(ctx context.Context, budget types.Budget, interests []string, style types.TravelStyle) ([]types.POIDetail, error) {
	if len(interests) == 0 {
		return []types.POIDetail{}, nil
	}

	query := `
        SELECT id, name, category, budget_level, travel_style, location, description, latitude, longitude
        FROM poi
        WHERE category = ANY($1)
        ORDER BY id`

	rows, err := r.pgpool.Query(ctx, query, interests)
	if err != nil {
		return nil, fmt.Errorf("failed to query poi catalog: %w", err)
	}
	defer rows.Close()

	pois := []types.POIDetail{}
	for rows.Next() {
		var p types.POIDetail
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.BudgetLevel, &p.TravelStyle,
			&p.Location, &p.Description, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan poi row: %w", err)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poi rows: %w", err)
	}
	return pois, nil
}
