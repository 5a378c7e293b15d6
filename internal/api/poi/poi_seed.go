package poi

import (
	"context"
	"log/slog"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// seedCatalog mirrors the rows inserted by the catalog migration so the
// service stays usable without a database.
var seedCatalog = []types.POIDetail{
	{ID: 1, Name: "Tasek Lama Recreational Park", Category: "alam", BudgetLevel: types.BudgetLow, TravelStyle: types.StyleRelaxed, Location: "Bandar Seri Begawan", Description: "Nature hike and waterfall spot", Latitude: 4.8990, Longitude: 114.9515},
	{ID: 2, Name: "Gadong Night Market", Category: "kuliner", BudgetLevel: types.BudgetLow, TravelStyle: types.StyleFamilyFriendly, Location: "Gadong", Description: "Local street food experience", Latitude: 4.9072, Longitude: 114.9163},
	{ID: 3, Name: "Brunei Museum", Category: "sejarah", BudgetLevel: types.BudgetMedium, TravelStyle: types.StyleRelaxed, Location: "Kota Batu", Description: "Cultural and history exhibits", Latitude: 4.8672, Longitude: 114.9421},
	{ID: 4, Name: "Jerudong Park Playground", Category: "santai", BudgetLevel: types.BudgetMedium, TravelStyle: types.StyleFamilyFriendly, Location: "Jerudong", Description: "Relaxing park with leisure areas", Latitude: 4.9442, Longitude: 114.8256},
}

var _ Repository = (*SeedRepository)(nil)

// SeedRepository serves the embedded static catalog. Used when no Postgres
// catalog is configured, and by tests.
type SeedRepository struct {
	logger *slog.Logger
	pois   []types.POIDetail
}

func NewSeedRepository(logger *slog.Logger) *SeedRepository {
	return &SeedRepository{
		logger: logger,
		pois:   seedCatalog,
	}
}

func (r *SeedRepository) Lookup(_ context.Context, _ types.Budget, interests []string, _ types.TravelStyle) ([]types.POIDetail, error) {
	wanted := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		wanted[interest] = struct{}{}
	}

	matches := []types.POIDetail{}
	for _, p := range r.pois {
		if _, ok := wanted[p.Category]; ok {
			matches = append(matches, p)
		}
	}
	return matches, nil
}
