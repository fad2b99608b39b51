// Package store persists player profiles and the transaction audit
// trail in a local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// ErrNotFound is returned when a profile has no saved state yet.
var ErrNotFound = errors.New("profile not found")

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    name       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transactions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    profile    TEXT NOT NULL,
    tx_id      TEXT NOT NULL,
    status     TEXT NOT NULL,
    mode       TEXT NOT NULL DEFAULT '',
    ok         INTEGER NOT NULL,
    gold_delta INTEGER NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    items      TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_profile ON transactions(profile, id);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	slog.Debug("store opened", "path", path)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveProfile upserts a profile's serialized state.
func (s *Store) SaveProfile(name string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO profiles (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		name, string(data))
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", name, err)
	}
	return nil
}

// LoadProfile reads a profile's serialized state.
func (s *Store) LoadProfile(name string) ([]byte, error) {
	var data string
	err := s.db.Get(&data, `SELECT data FROM profiles WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", name, err)
	}
	return []byte(data), nil
}

// RecordTransaction appends one transaction to the audit trail.
func (s *Store) RecordTransaction(profile string, tx types.Transaction) error {
	items, err := json.Marshal(tx.Items)
	if err != nil {
		return fmt.Errorf("encoding transaction items: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO transactions (profile, tx_id, status, mode, ok, gold_delta, reason, items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile, tx.TransactionID, tx.Status, tx.Mode, tx.OK, tx.GoldDelta, tx.Reason, string(items))
	if err != nil {
		return fmt.Errorf("recording transaction %s: %w", tx.TransactionID, err)
	}
	return nil
}

type txRow struct {
	TxID      string `db:"tx_id"`
	Status    string `db:"status"`
	Mode      string `db:"mode"`
	OK        bool   `db:"ok"`
	GoldDelta int    `db:"gold_delta"`
	Reason    string `db:"reason"`
	Items     string `db:"items"`
}

// RecentTransactions returns up to n most recent transactions for a
// profile, oldest first.
func (s *Store) RecentTransactions(profile string, n int) ([]types.Transaction, error) {
	if n < 1 {
		return nil, nil
	}
	var rows []txRow
	err := s.db.Select(&rows, `
		SELECT tx_id, status, mode, ok, gold_delta, reason, items
		FROM (
			SELECT * FROM transactions WHERE profile = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, profile, n)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for %s: %w", profile, err)
	}

	out := make([]types.Transaction, 0, len(rows))
	for _, r := range rows {
		tx := types.Transaction{
			TransactionID: r.TxID,
			Status:        r.Status,
			Mode:          r.Mode,
			OK:            r.OK,
			GoldDelta:     r.GoldDelta,
			Reason:        r.Reason,
		}
		if err := json.Unmarshal([]byte(r.Items), &tx.Items); err != nil {
			return nil, fmt.Errorf("decoding items of %s: %w", r.TxID, err)
		}
		out = append(out, tx)
	}
	return out, nil
}
