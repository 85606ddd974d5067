package follower

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/alejandrodnm/bestie/internal/ports"
)

// ScorerConfig controls leaderboard discovery and the skill ranking.
type ScorerConfig struct {
	Metrics          []string // leaderboard metrics to sweep
	Windows          []int    // since_day_before values to sweep
	Categories       []string // extra category slices ("" = all markets, always included)
	LeaderboardLimit int
	ShrinkageK       float64 // prior strength for skill shrinkage
	MinTrades        int     // reliability floor before scoring
	TopN             int
}

// Scorer turns the venue's public leaderboards and metrics into the ranked
// tracked-user list the engine copies.
type Scorer struct {
	market ports.MarketData
	cfg    ScorerConfig
}

// NewScorer creates a Scorer over the given market data source.
func NewScorer(market ports.MarketData, cfg ScorerConfig) *Scorer {
	return &Scorer{market: market, cfg: cfg}
}

// Discover sweeps every configured leaderboard slice and returns the union of
// nicknames in first-seen order. A malformed rank entry aborts the sweep: the
// dataset cannot be trusted once one record is broken.
func (s *Scorer) Discover(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var nicknames []string

	categories := append([]string{""}, s.cfg.Categories...)
	for _, metric := range s.cfg.Metrics {
		for _, window := range s.cfg.Windows {
			for _, category := range categories {
				names, err := s.market.FetchLeaderboard(ctx, ports.LeaderboardQuery{
					Metric:         metric,
					SinceDayBefore: window,
					Category:       category,
					Limit:          s.cfg.LeaderboardLimit,
				})
				if err != nil {
					return nil, fmt.Errorf("follower.Discover: %s/%d/%q: %w",
						metric, window, category, err)
				}
				for _, name := range names {
					if _, ok := seen[name]; ok {
						continue
					}
					seen[name] = struct{}{}
					nicknames = append(nicknames, name)
				}
			}
		}
	}

	slog.Debug("leaderboard discovery complete",
		"slices", len(s.cfg.Metrics)*len(s.cfg.Windows)*len(categories),
		"users", len(nicknames),
	)
	return nicknames, nil
}

// Rank fetches metrics for every nickname and returns the skill-ranked top-N.
// One user's fetch failure skips that user, not the batch; a ValidationError
// is fatal.
func (s *Scorer) Rank(ctx context.Context, nicknames []string) ([]domain.TrackedUser, error) {
	metrics := make([]domain.UserMetrics, 0, len(nicknames))
	for _, nickname := range nicknames {
		m, err := s.market.FetchMetrics(ctx, nickname)
		if err != nil {
			var validationErr *domain.ValidationError
			if errors.As(err, &validationErr) {
				return nil, fmt.Errorf("follower.Rank: %w", err)
			}
			slog.Warn("metrics fetch failed, skipping user", "nickname", nickname, "err", err)
			continue
		}
		metrics = append(metrics, m)
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("follower.Rank: no metrics for any of %d users", len(nicknames))
	}

	ranked := domain.RankUsers(metrics, s.cfg.ShrinkageK, s.cfg.MinTrades, s.cfg.TopN)
	slog.Info("skill scores refreshed", "scored", len(metrics), "tracked", len(ranked))
	return ranked, nil
}

// Refresh ranks the fixed nicknames when given, otherwise discovers them from
// the leaderboards first.
func (s *Scorer) Refresh(ctx context.Context, fixed []string) ([]domain.TrackedUser, error) {
	nicknames := fixed
	if len(nicknames) == 0 {
		var err error
		nicknames, err = s.Discover(ctx)
		if err != nil {
			return nil, err
		}
	}
	return s.Rank(ctx, nicknames)
}
