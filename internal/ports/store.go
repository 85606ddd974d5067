package ports

import (
	"context"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// PositionStore gives each tracked user durable memory of previously-seen
// positions. The snapshot only grows; closed positions simply stop reappearing
// in new polls but stay in history.
type PositionStore interface {
	// Snapshot returns every position ever observed for the user
	// (empty, not an error, if the user has never been polled).
	Snapshot(ctx context.Context, nickname string) ([]domain.Position, error)

	// AppendPositions adds newly-observed positions to the user's snapshot.
	// Already-present ids are left untouched.
	AppendPositions(ctx context.Context, nickname string, positions []domain.Position) error
}

// Ledger is the append-only durable log of every decision and order attempt,
// doubling as the de-duplication index across process restarts.
type Ledger interface {
	// Append writes one immutable timestamped record to the category and
	// marks the given identifiers as processed for that category.
	Append(ctx context.Context, category string, payload any, identifiers ...string) error

	// HasBeenProcessed reports whether the exact identifier was recorded in
	// the category by a previous Append.
	HasBeenProcessed(ctx context.Context, category, identifier string) (bool, error)
}

// InvoiceStore tracks the cumulative contract count already ordered per
// tracked position. Invoices only ever grow.
type InvoiceStore interface {
	// Invoice returns the running order total for the position and whether
	// an invoice exists.
	Invoice(ctx context.Context, positionID string) (int, bool, error)

	// SetInvoice records the new running total for the position.
	SetInvoice(ctx context.Context, positionID string, contractOrderCount int) error
}

// Ledger categories used by the engine.
const (
	CategoryOrders = "orders"
	CategoryErrors = "errors"
)

// Store bundles the persistence surfaces backed by one database.
type Store interface {
	PositionStore
	Ledger
	InvoiceStore

	Close() error
}
