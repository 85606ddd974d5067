package ports

import (
	"context"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// LeaderboardQuery selects one venue leaderboard slice.
type LeaderboardQuery struct {
	Metric         string // volume | projected_pnl | num_markets_traded
	SinceDayBefore int
	Category       string // empty = all categories
	Limit          int
}

// MarketData reads public position and metrics data for tracked users.
// Implementations may be API-backed or fed by an external scraper; the engine
// only cares that the records are well formed.
type MarketData interface {
	// FetchHoldings returns the user's currently open positions, one per
	// market-side, flattened from the venue's event holdings.
	FetchHoldings(ctx context.Context, nickname string) ([]domain.Position, error)

	// FetchMetrics returns the user's aggregate trading metrics.
	FetchMetrics(ctx context.Context, nickname string) (domain.UserMetrics, error)

	// FetchLeaderboard returns the nicknames ranked for the given slice.
	// A rank entry without a nickname is a domain.ValidationError.
	FetchLeaderboard(ctx context.Context, q LeaderboardQuery) ([]string, error)
}
