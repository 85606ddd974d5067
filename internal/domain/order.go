package domain

import "time"

// OrderRequest describes one market buy to submit to the venue.
type OrderRequest struct {
	Ticker        string
	Side          Side
	Count         int
	MaxPriceCents int // cap on the per-contract price
	ClientOrderID string
}

// OrderResult is the venue's view of a placed order.
type OrderResult struct {
	OrderID       string
	Status        string
	FillCount     int
	TakerFillCost int // total cost in cents actually paid
}

// Decision actions reported in the per-cycle summary.
const (
	ActionOrder = "order"
	ActionSeed  = "seed" // bootstrap run: recorded, not traded
	ActionSkip  = "skip"
	ActionError = "error"
)

// Decision is one line of the per-cycle summary: what the engine did about
// one market-side and why.
type Decision struct {
	MarketTicker string
	EventTicker  string
	Side         Side
	Score        float64
	Holders      int
	Contracts    int // contracts ordered (0 unless Action == "order")
	Action       string
	Reason       string
}

// CycleSummary lists every decision made in one scheduler cycle. This is the
// primary operational visibility mechanism.
type CycleSummary struct {
	RunAt        time.Time
	Bootstrap    bool
	Users        int
	Markets      int
	BalanceCents int64
	Decisions    []Decision
	Duration     time.Duration
}

// Orders counts decisions that placed an order.
func (s CycleSummary) Orders() int {
	return s.countAction(ActionOrder)
}

// Errors counts decisions that failed.
func (s CycleSummary) Errors() int {
	return s.countAction(ActionError)
}

// Skipped counts decisions that deliberately placed nothing.
func (s CycleSummary) Skipped() int {
	return s.countAction(ActionSkip)
}

// Seeded counts positions recorded without trading during bootstrap.
func (s CycleSummary) Seeded() int {
	return s.countAction(ActionSeed)
}

func (s CycleSummary) countAction(action string) int {
	n := 0
	for _, d := range s.Decisions {
		if d.Action == action {
			n++
		}
	}
	return n
}
