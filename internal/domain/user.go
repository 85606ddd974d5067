package domain

// centiCentsPerDollar converts the venue's pnl unit to dollars.
const centiCentsPerDollar = 10000

// UserMetrics are the raw trading metrics the venue reports for one user.
type UserMetrics struct {
	Nickname  string
	PnL       int64   // centi-cents
	Volume    float64 // dollars
	NumTrades int     // markets traded
}

// PnLDollars converts the raw pnl to dollars.
func (m UserMetrics) PnLDollars() float64 {
	return float64(m.PnL) / centiCentsPerDollar
}

// ROI is the raw return on volume. Zero volume yields zero.
func (m UserMetrics) ROI() float64 {
	if m.Volume == 0 {
		return 0
	}
	return m.PnLDollars() / m.Volume
}

// TrackedUser is a user being monitored for copy-trading signal.
type TrackedUser struct {
	Nickname   string
	SkillScore float64
	Rank       int // 1-based, assigned after sorting by SkillScore desc
}
