package storage

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// Snapshot returns every position ever observed for the user, oldest first.
func (s *Store) Snapshot(ctx context.Context, nickname string) ([]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position_id, market_id, market_ticker, event_ticker, series_ticker,
		       side, signed_open_position, total_abs_position, pnl, fetched_at
		FROM positions
		WHERE nickname = ?
		ORDER BY fetched_at, position_id
	`, safeNickname(nickname))
	if err != nil {
		return nil, fmt.Errorf("storage.Snapshot %q: %w", nickname, err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		var side string
		if err := rows.Scan(
			&p.ID, &p.MarketID, &p.MarketTicker, &p.EventTicker, &p.SeriesTicker,
			&side, &p.SignedOpenPosition, &p.TotalAbsolutePosition, &p.PnL, &p.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.Snapshot %q: scan: %w", nickname, err)
		}
		p.Side = domain.Side(side)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// AppendPositions adds newly-observed positions to the user's snapshot.
// Already-present ids are ignored, so the snapshot only grows and re-appends
// are harmless.
func (s *Store) AppendPositions(ctx context.Context, nickname string, positions []domain.Position) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.AppendPositions %q: begin tx: %w", nickname, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO positions
			(nickname, position_id, market_id, market_ticker, event_ticker,
			 series_ticker, side, signed_open_position, total_abs_position, pnl, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.AppendPositions %q: prepare: %w", nickname, err)
	}
	defer stmt.Close()

	key := safeNickname(nickname)
	for _, p := range positions {
		if _, err := stmt.ExecContext(ctx,
			key, p.ID, p.MarketID, p.MarketTicker, p.EventTicker,
			p.SeriesTicker, string(p.Side), p.SignedOpenPosition,
			p.TotalAbsolutePosition, p.PnL, p.FetchedAt.UTC(),
		); err != nil {
			return fmt.Errorf("storage.AppendPositions %q: insert %s: %w", nickname, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.AppendPositions %q: commit: %w", nickname, err)
	}
	return nil
}
