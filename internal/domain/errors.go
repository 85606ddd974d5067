package domain

import "fmt"

// ValidationError reports a malformed upstream record, e.g. a leaderboard
// entry without a nickname. The dataset cannot be trusted past one of these,
// so callers treat it as fatal rather than skipping the record.
type ValidationError struct {
	Record string // what kind of record was malformed
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Record, e.Reason)
}

// FillMismatchError reports an order whose fill count or status is
// inconsistent with what was requested. The position is skipped, not retried;
// the next cycle re-evaluates it.
type FillMismatchError struct {
	Ticker    string
	Requested int
	Filled    int
	Status    string
}

func (e *FillMismatchError) Error() string {
	return fmt.Sprintf("odd fill for %s: requested %d, filled %d, status %q",
		e.Ticker, e.Requested, e.Filled, e.Status)
}
