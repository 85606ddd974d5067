package domain

import "sort"

// Bounds for the population used to estimate the global ROI average.
// Users outside these bounds are either too small to carry signal or report
// economically implausible returns.
const (
	globalROIMinVolume = 100.0
	globalROIMinTrades = 10
	globalROIBound     = 1.0 // reject |roi| >= 100%
)

// SkillScore converts raw per-user trading metrics into a single confidence
// score using Bayesian shrinkage.
//
//	roi        = pnl / volume
//	skill      = (roi·n + globalROIAvg·k) / (n + k)
//	confidence = n / (n + k)
//	score      = skill · confidence
//
// Raw ROI is noisy for low-volume traders; shrinkage pulls it toward the
// population mean with prior strength k (a pseudo-count), and the confidence
// factor discounts low-experience traders toward zero instead of letting them
// rank highly on a lucky small sample.
func SkillScore(pnlDollars, volumeDollars float64, numTrades int, globalROIAvg, k float64) float64 {
	if volumeDollars == 0 || float64(numTrades)+k == 0 {
		return 0
	}
	roi := pnlDollars / volumeDollars
	n := float64(numTrades)
	skill := (roi*n + globalROIAvg*k) / (n + k)
	confidence := n / (n + k)
	return skill * confidence
}

// GlobalROIAvg computes the volume-weighted average ROI over the filtered
// population: sum(pnl) / sum(volume) across users with enough volume and
// trades and a plausible raw ROI. Returns 0 if the filtered set has no volume.
func GlobalROIAvg(users []UserMetrics) float64 {
	var pnl, volume float64
	for _, u := range users {
		if u.Volume < globalROIMinVolume || u.NumTrades < globalROIMinTrades {
			continue
		}
		roi := u.ROI()
		if roi <= -globalROIBound || roi >= globalROIBound {
			continue
		}
		pnl += u.PnLDollars()
		volume += u.Volume
	}
	if volume <= 0 {
		return 0
	}
	return pnl / volume
}

// RankUsers scores every user with at least minTrades trades, sorts them by
// skill score descending and returns the top topN with 1-based ranks.
// The global ROI average is estimated over the full (unfiltered) input.
func RankUsers(users []UserMetrics, k float64, minTrades, topN int) []TrackedUser {
	globalROIAvg := GlobalROIAvg(users)

	ranked := make([]TrackedUser, 0, len(users))
	for _, u := range users {
		if u.NumTrades < minTrades {
			continue
		}
		ranked = append(ranked, TrackedUser{
			Nickname:   u.Nickname,
			SkillScore: SkillScore(u.PnLDollars(), u.Volume, u.NumTrades, globalROIAvg, k),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SkillScore != ranked[j].SkillScore {
			return ranked[i].SkillScore > ranked[j].SkillScore
		}
		return ranked[i].Nickname < ranked[j].Nickname
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
