package follower

import (
	"context"
	"math"

	"github.com/alejandrodnm/bestie/internal/ports"
)

// Sizer converts observed exposure into a bounded contract count, remembering
// how much has already been committed per position so growth orders only cover
// the delta.
//
// The baseline is the largest position size observed when tracking began. It
// normalizes every later observation: a position as large as the baseline maps
// to the full maxBet, smaller ones scale down proportionally. It is fixed for
// the process lifetime.
type Sizer struct {
	invoices ports.InvoiceStore
	maxBet   int
	baseline int
}

// NewSizer creates a Sizer with no baseline yet; the first cycle sets it.
func NewSizer(invoices ports.InvoiceStore, maxBet int) *Sizer {
	return &Sizer{invoices: invoices, maxBet: maxBet}
}

// Baseline returns the normalizing reference, 0 until set.
func (s *Sizer) Baseline() int {
	return s.baseline
}

// SetBaseline fixes the normalizing reference. Later calls are ignored.
func (s *Sizer) SetBaseline(n int) {
	if s.baseline == 0 && n > 0 {
		s.baseline = n
	}
}

// Target maps an observed total position to the contracts this process wants
// to hold in it, capped at maxBet.
func (s *Sizer) Target(totalAbs int) int {
	if s.baseline <= 0 || totalAbs <= 0 {
		return 0
	}
	target := int(math.Round(float64(totalAbs) / float64(s.baseline) * float64(s.maxBet)))
	if target > s.maxBet {
		target = s.maxBet
	}
	return target
}

// Size returns how many contracts to order now for the position: the full
// target when no invoice exists, otherwise only the growth over what was
// already ordered (zero when exposure has not grown).
func (s *Sizer) Size(ctx context.Context, positionID string, totalAbs int) (delta, target int, err error) {
	target = s.Target(totalAbs)
	invoiced, ok, err := s.invoices.Invoice(ctx, positionID)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return target, target, nil
	}
	delta = target - invoiced
	if delta < 0 {
		delta = 0
	}
	return delta, target, nil
}

// Commit records the new running total after a verified fill. Invoices never
// decrease.
func (s *Sizer) Commit(ctx context.Context, positionID string, target int) error {
	invoiced, ok, err := s.invoices.Invoice(ctx, positionID)
	if err != nil {
		return err
	}
	if ok && target <= invoiced {
		return nil
	}
	return s.invoices.SetInvoice(ctx, positionID, target)
}
