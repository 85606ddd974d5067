package ports

import (
	"context"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// OrderExecutor submits authenticated orders to the venue.
type OrderExecutor interface {
	// PlaceOrder submits one market buy and returns the venue's order state.
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)

	// Balance returns the available account balance in cents.
	Balance(ctx context.Context) (int64, error)
}
