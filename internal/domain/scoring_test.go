package domain_test

import (
	"testing"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillScore_ShrinkageFormula(t *testing.T) {
	// roi = 0.1, n = 200, k = 200, global = 0.02
	// skill = (0.1*200 + 0.02*200) / 400 = 0.06
	// confidence = 200/400 = 0.5 → score = 0.03
	score := domain.SkillScore(100, 1000, 200, 0.02, 200)
	assert.InDelta(t, 0.03, score, 1e-9)
}

func TestSkillScore_MonotonicInPnL(t *testing.T) {
	// Holding volume and trades fixed, the score strictly increases in pnl.
	prev := domain.SkillScore(-500, 1000, 50, 0.01, 200)
	for pnl := -400.0; pnl <= 500; pnl += 100 {
		score := domain.SkillScore(pnl, 1000, 50, 0.01, 200)
		assert.Greater(t, score, prev, "pnl=%v", pnl)
		prev = score
	}
}

func TestSkillScore_ZeroVolume(t *testing.T) {
	assert.Zero(t, domain.SkillScore(100, 0, 50, 0.01, 200))
}

func TestGlobalROIAvg_VolumeWeighted(t *testing.T) {
	users := makeUsers(
		UserSpec{"a", 100, 1000, 50},
		UserSpec{"b", -50, 500, 50},
	)
	avg := domain.GlobalROIAvg(users)
	assert.InDelta(t, 50.0/1500.0, avg, 1e-9)
}

func TestGlobalROIAvg_FiltersOutliers(t *testing.T) {
	users := makeUsers(
		UserSpec{"ok", 100, 1000, 50},
		UserSpec{"tiny-volume", 5000, 50, 50},  // volume < 100
		UserSpec{"few-trades", 100, 1000, 5},   // trades < 10
		UserSpec{"implausible", 2000, 1000, 50}, // roi = 2.0
	)
	avg := domain.GlobalROIAvg(users)
	assert.InDelta(t, 100.0/1000.0, avg, 1e-9)
}

func TestGlobalROIAvg_EmptyPopulation(t *testing.T) {
	assert.Zero(t, domain.GlobalROIAvg(nil))
	assert.Zero(t, domain.GlobalROIAvg([]domain.UserMetrics{
		{Nickname: "x", PnL: 10, Volume: 1, NumTrades: 1},
	}))
}

func TestRankUsers_FilterSortTruncate(t *testing.T) {
	users := makeUsers(
		UserSpec{"sharp", 2000, 5000, 300},
		UserSpec{"average", 100, 5000, 300},
		UserSpec{"newbie", 5000, 5000, 20}, // below min trades, excluded
		UserSpec{"loser", -2000, 5000, 300},
	)

	ranked := domain.RankUsers(users, 200, 100, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "sharp", ranked[0].Nickname)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "average", ranked[1].Nickname)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Greater(t, ranked[0].SkillScore, ranked[1].SkillScore)
}

// UserSpec keeps the metric fixtures compact: pnl in dollars.
type UserSpec struct {
	Nickname  string
	PnLDollar float64
	Volume    float64
	NumTrades int
}

func makeUsers(specs ...UserSpec) []domain.UserMetrics {
	out := make([]domain.UserMetrics, 0, len(specs))
	for _, s := range specs {
		out = append(out, domain.UserMetrics{
			Nickname:  s.Nickname,
			PnL:       int64(s.PnLDollar * 10000),
			Volume:    s.Volume,
			NumTrades: s.NumTrades,
		})
	}
	return out
}
