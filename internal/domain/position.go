package domain

import "time"

// Side is the outcome a position bets on.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// SideFromSignedPosition derives the side from a signed contract count.
// Positive means yes, everything else (including zero) means no, matching
// the venue's holdings semantics.
func SideFromSignedPosition(signed int) Side {
	if signed > 0 {
		return SideYes
	}
	return SideNo
}

// PositionID builds the stable dedup key for one market-side.
func PositionID(marketID string, side Side) string {
	return marketID + ":" + string(side)
}

// Position is one open stake a tracked user holds in one market-side.
type Position struct {
	ID                    string    // MarketID + ":" + Side
	MarketID              string
	MarketTicker          string
	EventTicker           string
	SeriesTicker          string
	Side                  Side
	SignedOpenPosition    int   // signed contract count; sign determines Side
	TotalAbsolutePosition int   // always |SignedOpenPosition|
	PnL                   int64 // centi-cents (40000 = $4.00)
	FetchedAt             time.Time
}

// NewPosition builds a Position from raw holdings data, deriving Side,
// TotalAbsolutePosition and ID from the signed contract count.
func NewPosition(marketID, marketTicker, eventTicker, seriesTicker string, signed int, pnl int64, fetchedAt time.Time) Position {
	side := SideFromSignedPosition(signed)
	total := signed
	if total < 0 {
		total = -total
	}
	return Position{
		ID:                    PositionID(marketID, side),
		MarketID:              marketID,
		MarketTicker:          marketTicker,
		EventTicker:           eventTicker,
		SeriesTicker:          seriesTicker,
		Side:                  side,
		SignedOpenPosition:    signed,
		TotalAbsolutePosition: total,
		PnL:                   pnl,
		FetchedAt:             fetchedAt,
	}
}

// NewPositions returns the subset of current whose ID is not present in prior.
// Order of current is preserved.
func NewPositions(prior, current []Position) []Position {
	seen := make(map[string]struct{}, len(prior))
	for _, p := range prior {
		seen[p.ID] = struct{}{}
	}
	var fresh []Position
	for _, p := range current {
		if _, ok := seen[p.ID]; !ok {
			fresh = append(fresh, p)
		}
	}
	return fresh
}
