package follower

import (
	"context"
	"errors"
	"testing"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/alejandrodnm/bestie/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMarket implements ports.MarketData from canned data.
type fakeMarket struct {
	leaderboards map[string][]string // "metric/window/category" → nicknames
	metrics      map[string]domain.UserMetrics
	metricsErr   map[string]error
	holdings     map[string][]domain.Position
	holdingsErr  map[string]error
	holdingsHook func(nickname string) // runs before every holdings fetch

	leaderboardCalls []ports.LeaderboardQuery
}

func (f *fakeMarket) FetchHoldings(_ context.Context, nickname string) ([]domain.Position, error) {
	if f.holdingsHook != nil {
		f.holdingsHook(nickname)
	}
	if err := f.holdingsErr[nickname]; err != nil {
		return nil, err
	}
	return f.holdings[nickname], nil
}

func (f *fakeMarket) FetchMetrics(_ context.Context, nickname string) (domain.UserMetrics, error) {
	if err := f.metricsErr[nickname]; err != nil {
		return domain.UserMetrics{}, err
	}
	m, ok := f.metrics[nickname]
	if !ok {
		return domain.UserMetrics{}, &domain.ValidationError{Record: "metrics", Reason: "missing object"}
	}
	return m, nil
}

func (f *fakeMarket) FetchLeaderboard(_ context.Context, q ports.LeaderboardQuery) ([]string, error) {
	f.leaderboardCalls = append(f.leaderboardCalls, q)
	key := leaderboardKey(q.Metric, q.SinceDayBefore, q.Category)
	return f.leaderboards[key], nil
}

func leaderboardKey(metric string, window int, category string) string {
	return metric + "/" + string(rune('0'+window)) + "/" + category
}

func TestScorer_DiscoverUnionsSlices(t *testing.T) {
	market := &fakeMarket{leaderboards: map[string][]string{
		leaderboardKey("volume", 0, ""):        {"alice", "bob"},
		leaderboardKey("projected_pnl", 0, ""): {"bob", "carol"},
	}}
	s := NewScorer(market, ScorerConfig{
		Metrics: []string{"volume", "projected_pnl"},
		Windows: []int{0},
	})

	nicknames, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, nicknames,
		"duplicates collapse, first-seen order kept")
}

func TestScorer_DiscoverSweepsCategories(t *testing.T) {
	market := &fakeMarket{leaderboards: map[string][]string{}}
	s := NewScorer(market, ScorerConfig{
		Metrics:    []string{"volume"},
		Windows:    []int{0, 7},
		Categories: []string{"Sports"},
	})

	_, err := s.Discover(context.Background())
	require.NoError(t, err)
	// 1 metric × 2 windows × (all + Sports) = 4 slices.
	require.Len(t, market.leaderboardCalls, 4)
	assert.Equal(t, "", market.leaderboardCalls[0].Category)
	assert.Equal(t, "Sports", market.leaderboardCalls[1].Category)
}

func TestScorer_RankSkipsFailingUsers(t *testing.T) {
	market := &fakeMarket{
		metrics: map[string]domain.UserMetrics{
			"alice": {Nickname: "alice", PnL: 10_000_000, Volume: 2000, NumTrades: 500},
			"carol": {Nickname: "carol", PnL: 1_000_000, Volume: 5000, NumTrades: 300},
		},
		metricsErr: map[string]error{
			"bob": errors.New("timeout"),
		},
	}
	s := NewScorer(market, ScorerConfig{ShrinkageK: 200})

	ranked, err := s.Rank(context.Background(), []string{"alice", "bob", "carol"})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "alice", ranked[0].Nickname)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Greater(t, ranked[0].SkillScore, ranked[1].SkillScore)
}

func TestScorer_RankValidationErrorIsFatal(t *testing.T) {
	market := &fakeMarket{
		metrics: map[string]domain.UserMetrics{
			"alice": {Nickname: "alice", PnL: 10_000_000, Volume: 2000, NumTrades: 500},
		},
	}
	s := NewScorer(market, ScorerConfig{ShrinkageK: 200})

	_, err := s.Rank(context.Background(), []string{"alice", "ghost"})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestScorer_RefreshUsesFixedUsers(t *testing.T) {
	market := &fakeMarket{
		metrics: map[string]domain.UserMetrics{
			"alice": {Nickname: "alice", PnL: 10_000_000, Volume: 2000, NumTrades: 500},
		},
	}
	s := NewScorer(market, ScorerConfig{ShrinkageK: 200})

	ranked, err := s.Refresh(context.Background(), []string{"alice"})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Empty(t, market.leaderboardCalls, "fixed users bypass discovery")
}
