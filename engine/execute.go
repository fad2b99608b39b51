package engine

import (
	"fmt"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/ledger"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// Failure reasons recorded on the transaction and returned in
// TradeResult.Error.
const (
	ReasonNotConfirmed      = "not_confirmed"
	ReasonInsufficientItems = "insufficient_items"
	ReasonInsufficientGold  = "insufficient_gold"
	ReasonInventoryFull     = "inventory_full"
	ReasonAtomicRollback    = "atomic_rollback"
)

// defaultStackMax bounds stacking for items the catalog no longer knows.
const defaultStackMax = 99

func (e *Engine) stackMax(itemID string) int {
	if item, ok := e.Catalog.LookupItem(itemID); ok && item.StackMax > 0 {
		return item.StackMax
	}
	return defaultStackMax
}

// cartTxItems summarizes the cart for the transaction record.
func cartTxItems(cart []types.LineItem) []types.TxItem {
	items := make([]types.TxItem, 0, len(cart))
	for _, row := range cart {
		items = append(items, types.TxItem{
			ItemID:    row.ItemID,
			Qty:       row.Qty,
			UnitPrice: row.UnitPrice,
			Subtotal:  row.Subtotal,
		})
	}
	return items
}

// fail records a failed transaction, returns the session to confirming
// when a negotiation is still live, and builds the failure result.
func (e *Engine) fail(reason string, backToConfirming bool) types.TradeResult {
	if backToConfirming {
		e.Session.Status = types.StatusConfirming
	}
	note := fmt.Sprintf("Trade failed: %s.", reason)
	session.AppendTranscript(&e.Session, note)
	session.Normalize(&e.Session)

	tx := e.Log.Append(types.Transaction{
		Status: reason,
		Mode:   e.Session.Mode,
		OK:     false,
		Reason: reason,
		Items:  cartTxItems(e.Session.Cart),
	})
	return types.TradeResult{
		OK:    false,
		Error: reason,
		TradeContext: types.TradeContext{
			Status:        reason,
			Mode:          e.Session.Mode,
			TransactionID: tx.TransactionID,
		},
		Session: e.ExportSession(),
		Lines:   []string{note},
	}
}

// ExecuteTrade applies the confirmed cart to the ledger atomically:
// either every line is fulfilled in full and the gold moves, or the
// ledger is byte-for-byte what it was before the call. Every attempt,
// including refused ones, lands in the transaction history.
func (e *Engine) ExecuteTrade() types.TradeResult {
	// 1. Only a confirmed session with staged lines may execute. An
	// empty cart is the same refusal as a wrong status, and neither
	// touches the session's state.
	session.Normalize(&e.Session)
	if e.Session.Status != types.StatusConfirming && e.Session.Status != types.StatusExecuting {
		return e.fail(ReasonNotConfirmed, false)
	}
	if len(e.Session.Cart) == 0 {
		return e.fail(ReasonNotConfirmed, false)
	}

	e.Session.Status = types.StatusExecuting
	selling := e.Session.Mode == types.ModeSell
	total := session.CartTotal(&e.Session)

	// 2. Snapshot the ledger before touching it.
	snap := ledger.Capture(e.Ledger)

	// 3. Pre-checks. These catch the common failures before any
	// mutation; the per-line pass below still verifies its own work.
	if selling {
		for _, row := range e.Session.Cart {
			if ledger.Count(e.Ledger, row.ItemID) < row.Qty {
				return e.fail(ReasonInsufficientItems, true)
			}
		}
	} else {
		if e.Ledger.Gold < total {
			return e.fail(ReasonInsufficientGold, true)
		}
		for _, row := range e.Session.Cart {
			if ledger.CapacityFor(e.Ledger, row.ItemID, e.stackMax(row.ItemID)) < row.Qty {
				return e.fail(ReasonInventoryFull, true)
			}
		}
	}

	// 4. Per-line execution, tracking fulfillment exactly.
	var requested, done, goldGain, goldSpent int
	deltas := make([]types.InventoryDelta, 0, len(e.Session.Cart))
	txItems := make([]types.TxItem, 0, len(e.Session.Cart))
	lines := make([]string, 0, len(e.Session.Cart)+1)

	for _, row := range e.Session.Cart {
		requested += row.Qty
		var moved int
		if selling {
			moved = ledger.Remove(e.Ledger, row.ItemID, row.Qty)
			goldGain += moved * row.UnitPrice
			deltas = append(deltas, types.InventoryDelta{ItemID: row.ItemID, Delta: -moved})
			lines = append(lines, fmt.Sprintf("Sold %d x %s for %d gold.",
				moved, row.ItemName, moved*row.UnitPrice))
		} else {
			moved = ledger.Add(e.Ledger, row.ItemID, row.Qty, e.stackMax(row.ItemID))
			goldSpent += moved * row.UnitPrice
			deltas = append(deltas, types.InventoryDelta{ItemID: row.ItemID, Delta: moved})
			lines = append(lines, fmt.Sprintf("Bought %d x %s for %d gold.",
				moved, row.ItemName, moved*row.UnitPrice))
		}
		done += moved
		txItems = append(txItems, types.TxItem{
			ItemID:    row.ItemID,
			Qty:       moved,
			UnitPrice: row.UnitPrice,
			Subtotal:  moved * row.UnitPrice,
		})
	}

	// 5. Any shortfall undoes everything.
	if done < requested {
		ledger.Restore(e.Ledger, snap)
		return e.fail(ReasonAtomicRollback, true)
	}

	// 6. Commit the gold movement and close the session.
	goldDelta := goldGain - goldSpent
	e.Ledger.Gold += goldDelta
	e.Session.Status = types.StatusDone
	e.Session.PendingQuestion = nil
	e.Session.LastActionFingerprint = ""

	sign := "+"
	if goldDelta < 0 {
		sign = ""
	}
	session.AppendTranscript(&e.Session, fmt.Sprintf("Trade completed: %s%d gold.", sign, goldDelta))
	session.Normalize(&e.Session)

	tx := e.Log.Append(types.Transaction{
		Status:    "ok",
		Mode:      e.Session.Mode,
		OK:        true,
		GoldDelta: goldDelta,
		Items:     txItems,
	})

	lines = append(lines, fmt.Sprintf("Gold: %d.", e.Ledger.Gold))
	return types.TradeResult{
		OK: true,
		StatePatch: types.StatePatch{
			Inventory: deltas,
			GoldDelta: goldDelta,
		},
		TradeContext: types.TradeContext{
			Status:        "ok",
			Mode:          e.Session.Mode,
			TransactionID: tx.TransactionID,
			QtyDone:       done,
			GoldDelta:     goldDelta,
			TotalPrice:    total,
		},
		Session: e.ExportSession(),
		Lines:   lines,
	}
}
