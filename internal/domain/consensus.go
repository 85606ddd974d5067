package domain

import "sort"

// Holder is one tracked user's stake in a market-side.
type Holder struct {
	Nickname   string
	SkillScore float64
	Contracts  int
	PnL        int64
}

// MarketConsensus aggregates every tracked holder of the same market-side.
// Holders keep discovery order.
type MarketConsensus struct {
	ID           string // Position.ID of the shared market-side
	MarketID     string
	MarketTicker string
	EventTicker  string
	SeriesTicker string
	Side         Side
	Holders      []Holder
	Score        float64
	Fresh        bool // at least one holder opened this position since the last poll
}

// MaxContracts returns the largest single-holder stake in this market-side.
func (m MarketConsensus) MaxContracts() int {
	max := 0
	for _, h := range m.Holders {
		if h.Contracts > max {
			max = h.Contracts
		}
	}
	return max
}

// ConsensusScore combines multiple holders' sized positions into one weighted
// conviction score.
//
//	weight_i = contracts_i · max(skill_i, 0)
//	score    = Σ(skill_i · weight_i) / Σ weight_i
//
// Holders are counted by both size and skill, so one large skilled holder
// dominates many small low-skill ones. Non-skilled holders contribute zero
// weight, never negative. A zero total weight yields a zero score.
func ConsensusScore(holders []Holder) float64 {
	var totalWeight, weightedSkill float64
	for _, h := range holders {
		skill := h.SkillScore
		if skill < 0 {
			skill = 0
		}
		w := float64(h.Contracts) * skill
		totalWeight += w
		weightedSkill += h.SkillScore * w
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSkill / totalWeight
}

// ConsensusBuilder accumulates positions across tracked users and produces
// the ranked per-market consensus list. Rebuilt from scratch every cycle.
type ConsensusBuilder struct {
	byID  map[string]*MarketConsensus
	order []string // insertion order of market-side ids
}

// NewConsensusBuilder returns an empty builder.
func NewConsensusBuilder() *ConsensusBuilder {
	return &ConsensusBuilder{byID: make(map[string]*MarketConsensus)}
}

// Add records one user's position. Positions sharing a Position.ID are merged
// into the same MarketConsensus; holders keep discovery order.
func (b *ConsensusBuilder) Add(user TrackedUser, p Position) {
	mc, ok := b.byID[p.ID]
	if !ok {
		mc = &MarketConsensus{
			ID:           p.ID,
			MarketID:     p.MarketID,
			MarketTicker: p.MarketTicker,
			EventTicker:  p.EventTicker,
			SeriesTicker: p.SeriesTicker,
			Side:         p.Side,
		}
		b.byID[p.ID] = mc
		b.order = append(b.order, p.ID)
	}
	mc.Holders = append(mc.Holders, Holder{
		Nickname:   user.Nickname,
		SkillScore: user.SkillScore,
		Contracts:  p.TotalAbsolutePosition,
		PnL:        p.PnL,
	})
}

// MarkFresh flags a market-side as carrying a newly-opened position this
// cycle. Unknown ids are ignored.
func (b *ConsensusBuilder) MarkFresh(id string) {
	if mc, ok := b.byID[id]; ok {
		mc.Fresh = true
	}
}

// Ranked scores every accumulated market-side and returns them sorted by
// consensus score descending. Ties keep insertion order.
func (b *ConsensusBuilder) Ranked() []MarketConsensus {
	out := make([]MarketConsensus, 0, len(b.order))
	for _, id := range b.order {
		mc := *b.byID[id]
		mc.Score = ConsensusScore(mc.Holders)
		out = append(out, mc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
