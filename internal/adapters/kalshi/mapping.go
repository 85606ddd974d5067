package kalshi

import (
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// flattenHoldings turns the event-grouped holdings response into one
// domain.Position per market-side, stamping every position with fetchedAt.
func flattenHoldings(resp holdingsResponse, fetchedAt time.Time) []domain.Position {
	var positions []domain.Position
	for _, h := range resp.Holdings {
		for _, mh := range h.MarketHoldings {
			positions = append(positions, domain.NewPosition(
				mh.MarketID,
				mh.MarketTicker,
				h.EventTicker,
				h.SeriesTicker,
				mh.SignedOpenPosition,
				mh.PnL,
				fetchedAt,
			))
		}
	}
	return positions
}
