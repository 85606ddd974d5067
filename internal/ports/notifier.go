package ports

import (
	"context"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// Notifier presents the per-cycle decision summary to the operator.
type Notifier interface {
	// CycleSummary reports every decision made in one cycle.
	// In the console implementation, prints a formatted table.
	CycleSummary(ctx context.Context, summary domain.CycleSummary) error
}
