package follower

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/alejandrodnm/bestie/internal/ports"
	"github.com/google/uuid"
)

// Config contains the engine's run parameters.
type Config struct {
	Interval          time.Duration // live cycle cadence
	ScoreRefresh      time.Duration // skill score recompute cadence (slower)
	Users             []string      // fixed tracked users; empty = leaderboard discovery
	MaxBetContracts   int
	MaxOrdersPerCycle int
	MinConsensusScore float64
	MaxPriceCents     int   // per-contract price cap on market buys
	MinBalanceCents   int64 // below this, cycles observe but never trade
}

// Engine drives the periodic fetch → score → dedupe → size → execute cycle.
// One bootstrap run seeds state without trading before the first live cycle.
type Engine struct {
	cfg      Config
	market   ports.MarketData
	executor ports.OrderExecutor
	store    ports.Store
	notifier ports.Notifier
	scorer   *Scorer
	sizer    *Sizer

	busy         atomic.Bool
	bootstrapped bool
	tracked      []domain.TrackedUser
	scoredAt     time.Time
}

// New creates an Engine with all dependencies injected.
func New(
	cfg Config,
	market ports.MarketData,
	executor ports.OrderExecutor,
	store ports.Store,
	notifier ports.Notifier,
	scorer *Scorer,
) *Engine {
	return &Engine{
		cfg:      cfg,
		market:   market,
		executor: executor,
		store:    store,
		notifier: notifier,
		scorer:   scorer,
		sizer:    NewSizer(store, cfg.MaxBetContracts),
	}
}

// Bootstrap runs the seeding cycle: current positions are recorded as the
// baseline and no orders are placed. A failure here is fatal; the engine must
// not trade without a valid baseline.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e.bootstrapped {
		return nil
	}
	summary, err := e.cycle(ctx, true)
	if err != nil {
		return fmt.Errorf("follower.Bootstrap: %w", err)
	}
	e.bootstrapped = true
	slog.Info("bootstrap complete",
		"users", summary.Users,
		"markets", summary.Markets,
		"seeded", summary.Seeded(),
	)
	return nil
}

// RunOnce executes exactly one live cycle. Bootstrap must have completed.
func (e *Engine) RunOnce(ctx context.Context) (domain.CycleSummary, error) {
	if !e.bootstrapped {
		return domain.CycleSummary{}, errors.New("follower.RunOnce: bootstrap has not run")
	}
	return e.cycle(ctx, false)
}

// Run bootstraps if needed, then executes live cycles on the configured
// interval until the context is cancelled. A tick that arrives while the
// previous cycle is still in flight is skipped, never queued, so cycles can
// not race on the store.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Bootstrap(ctx); err != nil {
		return err
	}

	slog.Info("engine starting",
		"interval", e.cfg.Interval,
		"score_refresh", e.cfg.ScoreRefresh,
		"max_bet", e.cfg.MaxBetContracts,
	)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped")
			return nil
		case <-ticker.C:
			if !e.busy.CompareAndSwap(false, true) {
				slog.Warn("previous cycle still running, skipping tick")
				continue
			}
			go func() {
				defer e.busy.Store(false)
				if _, err := e.cycle(ctx, false); err != nil {
					slog.Error("cycle failed", "err", err)
				}
			}()
		}
	}
}

// cycle runs one full pass and notifies the summary. Per-item failures are
// logged to the errors category and the cycle continues; only failures that
// invalidate the whole pass (scoring from scratch, balance fetch) abort it.
func (e *Engine) cycle(ctx context.Context, bootstrap bool) (domain.CycleSummary, error) {
	start := time.Now()

	if err := e.refreshScores(ctx); err != nil {
		return domain.CycleSummary{}, err
	}

	var balance int64
	if !bootstrap {
		var err error
		balance, err = e.executor.Balance(ctx)
		if err != nil {
			return domain.CycleSummary{}, fmt.Errorf("follower.cycle: fetch balance: %w", err)
		}
	}

	consensus, maxObserved := e.observe(ctx)
	e.sizer.SetBaseline(maxObserved)

	ranked := consensus.Ranked()
	summary := domain.CycleSummary{
		RunAt:        start,
		Bootstrap:    bootstrap,
		Users:        len(e.tracked),
		Markets:      len(ranked),
		BalanceCents: balance,
	}

	ordersPlaced := 0
	for _, mc := range ranked {
		decision, ok := e.decide(ctx, mc, bootstrap, &balance, &ordersPlaced)
		if ok {
			summary.Decisions = append(summary.Decisions, decision)
		}
	}

	summary.Duration = time.Since(start)
	if err := e.notifier.CycleSummary(ctx, summary); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("cycle complete",
		"bootstrap", bootstrap,
		"markets", summary.Markets,
		"orders", summary.Orders(),
		"errors", summary.Errors(),
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, nil
}

// refreshScores recomputes the tracked-user list on the configured cadence.
// With no usable list at all the cycle cannot proceed; once a list exists a
// failed refresh keeps the stale scores and moves on.
func (e *Engine) refreshScores(ctx context.Context) error {
	if len(e.tracked) > 0 && time.Since(e.scoredAt) < e.cfg.ScoreRefresh {
		return nil
	}
	tracked, err := e.scorer.Refresh(ctx, e.cfg.Users)
	if err != nil {
		if len(e.tracked) == 0 {
			return fmt.Errorf("follower.cycle: initial scoring: %w", err)
		}
		slog.Warn("score refresh failed, keeping stale scores",
			"age", time.Since(e.scoredAt).Round(time.Second), "err", err)
		return nil
	}
	e.tracked = tracked
	e.scoredAt = time.Now()
	return nil
}

// observe polls every tracked user, persists newly-seen positions and builds
// the consensus working set for this cycle. Users and positions are processed
// in a fixed enumeration order, one at a time. Returns the builder and the
// largest position observed (the baseline candidate).
func (e *Engine) observe(ctx context.Context) (*domain.ConsensusBuilder, int) {
	builder := domain.NewConsensusBuilder()
	maxObserved := 0

	for _, user := range e.tracked {
		active, fresh, err := e.fetchActivePositions(ctx, user.Nickname)
		if err != nil {
			slog.Warn("holdings fetch failed, skipping user", "nickname", user.Nickname, "err", err)
			e.logError(ctx, map[string]any{
				"stage":    "holdings",
				"nickname": user.Nickname,
				"error":    err.Error(),
			})
			continue
		}

		freshIDs := make(map[string]struct{}, len(fresh))
		for _, p := range fresh {
			freshIDs[p.ID] = struct{}{}
		}

		for _, p := range active {
			builder.Add(user, p)
			if _, ok := freshIDs[p.ID]; ok {
				builder.MarkFresh(p.ID)
			}
			if p.TotalAbsolutePosition > maxObserved {
				maxObserved = p.TotalAbsolutePosition
			}
		}
	}
	return builder, maxObserved
}

// fetchActivePositions polls the venue for the user's open positions, appends
// the ones never seen before to the durable snapshot and returns both the full
// current list and the delta.
func (e *Engine) fetchActivePositions(ctx context.Context, nickname string) (active, fresh []domain.Position, err error) {
	active, err = e.market.FetchHoldings(ctx, nickname)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch holdings: %w", err)
	}
	prior, err := e.store.Snapshot(ctx, nickname)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	fresh = domain.NewPositions(prior, active)
	if len(fresh) > 0 {
		if err := e.store.AppendPositions(ctx, nickname, fresh); err != nil {
			return nil, nil, fmt.Errorf("append snapshot: %w", err)
		}
	}
	return active, fresh, nil
}

// decide evaluates one market-side and returns the decision taken, or ok=false
// when the market carries no actionable signal this cycle (nothing new, no
// growth) and is left out of the summary.
func (e *Engine) decide(
	ctx context.Context,
	mc domain.MarketConsensus,
	bootstrap bool,
	balance *int64,
	ordersPlaced *int,
) (domain.Decision, bool) {
	decision := domain.Decision{
		MarketTicker: mc.MarketTicker,
		EventTicker:  mc.EventTicker,
		Side:         mc.Side,
		Score:        mc.Score,
		Holders:      len(mc.Holders),
	}

	delta, target, err := e.sizer.Size(ctx, mc.ID, mc.MaxContracts())
	if err != nil {
		decision.Action = domain.ActionError
		decision.Reason = "sizing: " + err.Error()
		e.logError(ctx, map[string]any{"stage": "sizing", "position_id": mc.ID, "error": err.Error()})
		return decision, true
	}

	if bootstrap {
		// Record the pre-existing exposure as already matched so live
		// cycles only follow growth from here.
		if err := e.seed(ctx, mc, target); err != nil {
			decision.Action = domain.ActionError
			decision.Reason = "seed: " + err.Error()
			return decision, true
		}
		decision.Action = domain.ActionSeed
		decision.Reason = "bootstrap seed"
		return decision, true
	}

	_, invoiced, err := e.store.Invoice(ctx, mc.ID)
	if err != nil {
		decision.Action = domain.ActionError
		decision.Reason = "invoice lookup: " + err.Error()
		return decision, true
	}

	if invoiced {
		// Growth path: the invoice governs, the dedup ledger does not.
		if delta <= 0 {
			return decision, false
		}
	} else {
		processed, err := e.store.HasBeenProcessed(ctx, ports.CategoryOrders, mc.ID)
		if err != nil {
			decision.Action = domain.ActionError
			decision.Reason = "dedup lookup: " + err.Error()
			return decision, true
		}
		if processed {
			// Only surface the skip while the signal is new; a market
			// acted on long ago is not a decision every cycle.
			if mc.Fresh {
				decision.Action = domain.ActionSkip
				decision.Reason = "already acted on"
				return decision, true
			}
			return decision, false
		}
	}

	if mc.Score < e.cfg.MinConsensusScore {
		decision.Action = domain.ActionSkip
		decision.Reason = "score below minimum"
		return decision, true
	}
	if delta < 1 {
		decision.Action = domain.ActionSkip
		decision.Reason = "sized to zero"
		return decision, true
	}
	if *ordersPlaced >= e.cfg.MaxOrdersPerCycle {
		decision.Action = domain.ActionSkip
		decision.Reason = "order budget exhausted"
		return decision, true
	}
	if *balance < e.cfg.MinBalanceCents {
		decision.Action = domain.ActionSkip
		decision.Reason = "balance below floor"
		return decision, true
	}

	result, err := e.placeOrder(ctx, mc, delta)
	if err != nil {
		decision.Action = domain.ActionError
		decision.Reason = err.Error()
		e.logError(ctx, map[string]any{
			"stage":       "order",
			"position_id": mc.ID,
			"ticker":      mc.MarketTicker,
			"side":        string(mc.Side),
			"count":       delta,
			"error":       err.Error(),
		})
		return decision, true
	}

	// Ledger append and invoice commit happen strictly after the verified
	// attempt, so neither ever claims an order that was not placed.
	if err := e.sizer.Commit(ctx, mc.ID, target); err != nil {
		slog.Error("invoice commit failed", "position_id", mc.ID, "err", err)
	}
	if err := e.store.Append(ctx, ports.CategoryOrders, map[string]any{
		"position_id":     mc.ID,
		"ticker":          mc.MarketTicker,
		"side":            string(mc.Side),
		"count":           delta,
		"target":          target,
		"consensus_score": mc.Score,
		"order_id":        result.OrderID,
		"fill_cost":       result.TakerFillCost,
	}, mc.ID); err != nil {
		slog.Error("ledger append failed", "position_id", mc.ID, "err", err)
	}

	*ordersPlaced++
	*balance -= int64(result.TakerFillCost)

	decision.Action = domain.ActionOrder
	decision.Contracts = delta
	decision.Reason = "consensus above threshold"
	return decision, true
}

// seed records one pre-existing market-side during bootstrap: a ledger entry
// so live cycles do not treat it as a new signal, and an invoice at the
// current target so only later growth produces orders. Re-seeding an already
// recorded position on restart is a no-op.
func (e *Engine) seed(ctx context.Context, mc domain.MarketConsensus, target int) error {
	processed, err := e.store.HasBeenProcessed(ctx, ports.CategoryOrders, mc.ID)
	if err != nil {
		return err
	}
	if !processed {
		if err := e.store.Append(ctx, ports.CategoryOrders, map[string]any{
			"position_id": mc.ID,
			"ticker":      mc.MarketTicker,
			"side":        string(mc.Side),
			"seed":        true,
		}, mc.ID); err != nil {
			return err
		}
	}
	if target > 0 {
		if err := e.sizer.Commit(ctx, mc.ID, target); err != nil {
			return err
		}
	}
	return nil
}

// placeOrder submits one fill-or-kill market buy and verifies the fill. A
// status other than executed or a short fill is a FillMismatchError; the
// position is skipped, not retried, and the next cycle re-evaluates it.
func (e *Engine) placeOrder(ctx context.Context, mc domain.MarketConsensus, count int) (domain.OrderResult, error) {
	req := domain.OrderRequest{
		Ticker:        mc.MarketTicker,
		Side:          mc.Side,
		Count:         count,
		MaxPriceCents: e.cfg.MaxPriceCents,
		ClientOrderID: "bestie-" + uuid.NewString(),
	}
	result, err := e.executor.PlaceOrder(ctx, req)
	if err != nil {
		return domain.OrderResult{}, err
	}
	if result.Status != "executed" || result.FillCount != count {
		return domain.OrderResult{}, &domain.FillMismatchError{
			Ticker:    mc.MarketTicker,
			Requested: count,
			Filled:    result.FillCount,
			Status:    result.Status,
		}
	}
	slog.Info("order filled",
		"ticker", mc.MarketTicker,
		"side", mc.Side,
		"count", count,
		"order_id", result.OrderID,
		"cost_cents", result.TakerFillCost,
	)
	return result, nil
}

// logError appends one record to the errors category. Best effort: a failing
// error log must not abort the cycle.
func (e *Engine) logError(ctx context.Context, payload map[string]any) {
	if err := e.store.Append(ctx, ports.CategoryErrors, payload); err != nil {
		slog.Error("errors ledger append failed", "err", err)
	}
}
