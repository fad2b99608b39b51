package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trade.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := testStore(t)

	if _, err := s.LoadProfile("hero"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadProfile on empty store: %v, want ErrNotFound", err)
	}

	if err := s.SaveProfile("hero", []byte(`{"gold":100}`)); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	data, err := s.LoadProfile("hero")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if string(data) != `{"gold":100}` {
		t.Errorf("data = %s", data)
	}

	// Upsert replaces.
	if err := s.SaveProfile("hero", []byte(`{"gold":148}`)); err != nil {
		t.Fatalf("SaveProfile upsert: %v", err)
	}
	data, err = s.LoadProfile("hero")
	if err != nil {
		t.Fatalf("LoadProfile after upsert: %v", err)
	}
	if string(data) != `{"gold":148}` {
		t.Errorf("data after upsert = %s", data)
	}
}

func TestTransactionTrail(t *testing.T) {
	s := testStore(t)

	for i, tx := range []types.Transaction{
		{TransactionID: "tx_000001", Status: "ok", Mode: "sell", OK: true, GoldDelta: 48,
			Items: []types.TxItem{{ItemID: "apprentice_sword", Qty: 8, UnitPrice: 6, Subtotal: 48}}},
		{TransactionID: "tx_000002", Status: "insufficient_gold", Mode: "buy", Reason: "insufficient_gold",
			Items: []types.TxItem{}},
	} {
		if err := s.RecordTransaction("hero", tx); err != nil {
			t.Fatalf("RecordTransaction %d: %v", i, err)
		}
	}
	// Another profile's rows stay invisible.
	if err := s.RecordTransaction("other", types.Transaction{TransactionID: "tx_000001", Status: "ok", Items: []types.TxItem{}}); err != nil {
		t.Fatalf("RecordTransaction other: %v", err)
	}

	txs, err := s.RecentTransactions("hero", 10)
	if err != nil {
		t.Fatalf("RecentTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].TransactionID != "tx_000001" || txs[1].TransactionID != "tx_000002" {
		t.Errorf("order = %q, %q, want oldest first", txs[0].TransactionID, txs[1].TransactionID)
	}
	if txs[0].GoldDelta != 48 || !txs[0].OK {
		t.Errorf("tx_000001 = %+v", txs[0])
	}
	if len(txs[0].Items) != 1 || txs[0].Items[0].ItemID != "apprentice_sword" {
		t.Errorf("items = %+v", txs[0].Items)
	}
	if txs[1].Reason != "insufficient_gold" {
		t.Errorf("reason = %q", txs[1].Reason)
	}

	limited, err := s.RecentTransactions("hero", 1)
	if err != nil {
		t.Fatalf("RecentTransactions limited: %v", err)
	}
	if len(limited) != 1 || limited[0].TransactionID != "tx_000002" {
		t.Errorf("limited = %+v, want just the newest", limited)
	}
}
