package storage

// sqlite.go — durable state for the follower, one database for everything:
//
//   - `positions`: per-user snapshot of every position ever observed.
//     Append-only; closed positions stay in history.
//   - `ledger` + `ledger_seen`: append-only audit log per category plus the
//     exact-identifier dedup index over it. The seen-set is mirrored in
//     memory at startup so cycles never re-scan log text.
//   - `invoices`: running contract totals already ordered per position.

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
-- Every position ever observed, per tracked user. Never deleted.
CREATE TABLE IF NOT EXISTS positions (
    nickname             TEXT     NOT NULL,
    position_id          TEXT     NOT NULL,
    market_id            TEXT     NOT NULL,
    market_ticker        TEXT     NOT NULL,
    event_ticker         TEXT     NOT NULL DEFAULT '',
    series_ticker        TEXT     NOT NULL DEFAULT '',
    side                 TEXT     NOT NULL,
    signed_open_position INTEGER  NOT NULL,
    total_abs_position   INTEGER  NOT NULL,
    pnl                  INTEGER  NOT NULL DEFAULT 0,
    fetched_at           DATETIME NOT NULL,
    PRIMARY KEY (nickname, position_id)
);

-- Append-only audit log, one JSON document per decision/order attempt.
CREATE TABLE IF NOT EXISTS ledger (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    category   TEXT     NOT NULL,
    created_at DATETIME NOT NULL,
    payload    TEXT     NOT NULL
);

-- Exact identifiers already acted on, per category.
CREATE TABLE IF NOT EXISTS ledger_seen (
    category   TEXT NOT NULL,
    identifier TEXT NOT NULL,
    PRIMARY KEY (category, identifier)
);

-- Running contract totals already ordered per position.
CREATE TABLE IF NOT EXISTS invoices (
    position_id          TEXT    PRIMARY KEY,
    contract_order_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_cat ON ledger(category, created_at);
`

// Store implements ports.Store on SQLite (pure Go, no CGo).
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	seen map[string]map[string]struct{} // category → identifiers
}

// New opens (or creates) the database at path, applies the schema and warms
// the dedup index.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.New: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.New: apply schema: %w", err)
	}

	s := &Store{db: db, seen: make(map[string]map[string]struct{})}
	if err := s.warmSeen(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.New: warm dedup index: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// warmSeen rebuilds the in-memory dedup index from ledger_seen.
func (s *Store) warmSeen(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT category, identifier FROM ledger_seen`)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var category, id string
		if err := rows.Scan(&category, &id); err != nil {
			return err
		}
		s.markSeenLocked(category, id)
	}
	return rows.Err()
}

func (s *Store) markSeenLocked(category, id string) {
	ids, ok := s.seen[category]
	if !ok {
		ids = make(map[string]struct{})
		s.seen[category] = ids
	}
	ids[id] = struct{}{}
}

var unsafeNicknameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// safeNickname normalizes a nickname into a filesystem-safe storage key, the
// same transform the scraped position files use, so both producers address
// the same snapshot.
func safeNickname(nickname string) string {
	return unsafeNicknameChars.ReplaceAllString(nickname, "_")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
