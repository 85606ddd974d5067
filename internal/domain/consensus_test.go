package domain_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsensusScore_WeightedAverage(t *testing.T) {
	holders := []domain.Holder{
		{Nickname: "big", Contracts: 10, SkillScore: 2.0},
		{Nickname: "small", Contracts: 1, SkillScore: 5.0},
	}
	// weights [20, 5] → (2·20 + 5·5)/25 = 2.6
	assert.InDelta(t, 2.6, domain.ConsensusScore(holders), 1e-9)
}

func TestConsensusScore_NegativeSkillContributesNothing(t *testing.T) {
	holders := []domain.Holder{
		{Nickname: "skilled", Contracts: 10, SkillScore: 1.0},
		{Nickname: "unskilled", Contracts: 1000, SkillScore: -3.0},
	}
	// The unskilled holder gets zero weight, never negative.
	assert.InDelta(t, 1.0, domain.ConsensusScore(holders), 1e-9)
}

func TestConsensusScore_ZeroWeight(t *testing.T) {
	assert.Zero(t, domain.ConsensusScore(nil))
	assert.Zero(t, domain.ConsensusScore([]domain.Holder{
		{Nickname: "a", Contracts: 0, SkillScore: 2},
		{Nickname: "b", Contracts: 10, SkillScore: -1},
	}))
}

func TestConsensusBuilder_MergesAndRanks(t *testing.T) {
	now := time.Now()
	alice := domain.TrackedUser{Nickname: "alice", SkillScore: 2.0, Rank: 1}
	bob := domain.TrackedUser{Nickname: "bob", SkillScore: 0.5, Rank: 2}

	b := domain.NewConsensusBuilder()
	b.Add(alice, domain.NewPosition("m1", "TICK-1", "EVT-1", "SER", 10, 0, now))
	b.Add(bob, domain.NewPosition("m1", "TICK-1", "EVT-1", "SER", 5, 0, now))
	b.Add(bob, domain.NewPosition("m2", "TICK-2", "EVT-2", "SER", -40, 0, now))

	ranked := b.Ranked()
	require.Len(t, ranked, 2)

	// m1 has the skilled holder → ranks first.
	assert.Equal(t, "m1:yes", ranked[0].ID)
	assert.Equal(t, domain.SideYes, ranked[0].Side)
	require.Len(t, ranked[0].Holders, 2)
	// Discovery order preserved.
	assert.Equal(t, "alice", ranked[0].Holders[0].Nickname)
	assert.Equal(t, "bob", ranked[0].Holders[1].Nickname)
	assert.Equal(t, 10, ranked[0].MaxContracts())

	assert.Equal(t, "m2:no", ranked[1].ID)
	assert.Equal(t, domain.SideNo, ranked[1].Side)
	assert.Equal(t, 40, ranked[1].MaxContracts())
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestConsensusBuilder_SameMarketOppositeSides(t *testing.T) {
	now := time.Now()
	u := domain.TrackedUser{Nickname: "u", SkillScore: 1}

	b := domain.NewConsensusBuilder()
	b.Add(u, domain.NewPosition("m1", "TICK-1", "EVT-1", "SER", 10, 0, now))
	b.Add(u, domain.NewPosition("m1", "TICK-1", "EVT-1", "SER", -10, 0, now))

	// Opposite sides of one market are distinct signals.
	assert.Len(t, b.Ranked(), 2)
}
