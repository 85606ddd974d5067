package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Append writes one immutable timestamped JSON record to the category and
// marks the identifiers as processed. Prior records are never rewritten.
func (s *Store) Append(ctx context.Context, category string, payload any, identifiers ...string) error {
	doc, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("storage.Append %q: marshal payload: %w", category, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Append %q: begin tx: %w", category, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger (category, created_at, payload) VALUES (?, ?, ?)`,
		category, nowUTC(), string(doc),
	); err != nil {
		return fmt.Errorf("storage.Append %q: insert: %w", category, err)
	}

	for _, id := range identifiers {
		if id == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO ledger_seen (category, identifier) VALUES (?, ?)`,
			category, id,
		); err != nil {
			return fmt.Errorf("storage.Append %q: mark %s: %w", category, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Append %q: commit: %w", category, err)
	}

	s.mu.Lock()
	for _, id := range identifiers {
		if id != "" {
			s.markSeenLocked(category, id)
		}
	}
	s.mu.Unlock()
	return nil
}

// HasBeenProcessed reports whether the exact identifier was recorded in the
// category. Matching is by identifier, not by substring: "ABC" is not marked
// processed by a record for "ABC2".
func (s *Store) HasBeenProcessed(_ context.Context, category, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[category][identifier]
	return ok, nil
}
