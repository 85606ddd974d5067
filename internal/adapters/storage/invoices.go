package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Invoice returns the running contract total already ordered for the
// position, and whether an invoice exists.
func (s *Store) Invoice(ctx context.Context, positionID string) (int, bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT contract_order_count FROM invoices WHERE position_id = ?`,
		positionID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage.Invoice %q: %w", positionID, err)
	}
	return count, true, nil
}

// SetInvoice records the new running total for the position.
func (s *Store) SetInvoice(ctx context.Context, positionID string, contractOrderCount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (position_id, contract_order_count) VALUES (?, ?)
		ON CONFLICT(position_id) DO UPDATE SET contract_order_count = excluded.contract_order_count
	`, positionID, contractOrderCount)
	if err != nil {
		return fmt.Errorf("storage.SetInvoice %q: %w", positionID, err)
	}
	return nil
}
