// Package ledger provides the count/remove/add primitives over the shared
// inventory grids and gold balance, plus the snapshot/restore pair used by
// atomic execution. Item keys are case-folded throughout.
package ledger

import (
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// New creates a ledger with two empty grids of the given slot counts.
func New(carriedSlots, storageSlots, gold int) *types.Ledger {
	if carriedSlots < 0 {
		carriedSlots = 0
	}
	if storageSlots < 0 {
		storageSlots = 0
	}
	if gold < 0 {
		gold = 0
	}
	return &types.Ledger{
		Carried: &types.Grid{Slots: make([]*types.Stack, carriedSlots)},
		Storage: &types.Grid{Slots: make([]*types.Stack, storageSlots)},
		Gold:    gold,
	}
}

func key(itemID string) string {
	return strings.ToLower(strings.TrimSpace(itemID))
}

func grids(l *types.Ledger) []*types.Grid {
	var out []*types.Grid
	if l.Carried != nil {
		out = append(out, l.Carried)
	}
	if l.Storage != nil {
		out = append(out, l.Storage)
	}
	return out
}

// Count returns the total quantity of an item across both grids.
func Count(l *types.Ledger, itemID string) int {
	target := key(itemID)
	if l == nil || target == "" {
		return 0
	}
	total := 0
	for _, g := range grids(l) {
		for _, stack := range g.Slots {
			if stack == nil || key(stack.ItemID) != target {
				continue
			}
			if stack.Qty > 0 {
				total += stack.Qty
			}
		}
	}
	return total
}

// Totals returns item id → owned quantity for every stocked item.
func Totals(l *types.Ledger) map[string]int {
	out := map[string]int{}
	if l == nil {
		return out
	}
	for _, g := range grids(l) {
		for _, stack := range g.Slots {
			if stack == nil {
				continue
			}
			id := key(stack.ItemID)
			if id == "" || stack.Qty <= 0 {
				continue
			}
			out[id] += stack.Qty
		}
	}
	return out
}

// Remove takes up to qty units of an item out of the ledger, draining
// carried slots before storage. It returns the quantity actually removed.
func Remove(l *types.Ledger, itemID string, qty int) int {
	target := key(itemID)
	if l == nil || target == "" || qty <= 0 {
		return 0
	}
	removed := 0
	for _, g := range grids(l) {
		for idx, stack := range g.Slots {
			if removed >= qty {
				break
			}
			if stack == nil || key(stack.ItemID) != target {
				continue
			}
			if stack.Qty <= 0 {
				g.Slots[idx] = nil
				continue
			}
			take := stack.Qty
			if take > qty-removed {
				take = qty - removed
			}
			removed += take
			if left := stack.Qty - take; left > 0 {
				stack.Qty = left
			} else {
				g.Slots[idx] = nil
			}
		}
		if removed >= qty {
			break
		}
	}
	return removed
}

// Add places up to qty units of an item into the ledger, topping up
// existing stacks first and then filling empty slots, with each stack
// bounded by stackMax. It returns the quantity actually placed.
func Add(l *types.Ledger, itemID string, qty, stackMax int) int {
	target := key(itemID)
	if l == nil || target == "" || qty <= 0 {
		return 0
	}
	if stackMax < 1 {
		stackMax = 1
	}
	added := 0

	// Top up existing stacks.
	for _, g := range grids(l) {
		for _, stack := range g.Slots {
			if added >= qty {
				return added
			}
			if stack == nil || key(stack.ItemID) != target {
				continue
			}
			room := stackMax - stack.Qty
			if room <= 0 {
				continue
			}
			take := room
			if take > qty-added {
				take = qty - added
			}
			stack.Qty += take
			added += take
		}
	}

	// Fill empty slots.
	for _, g := range grids(l) {
		for idx, stack := range g.Slots {
			if added >= qty {
				return added
			}
			if stack != nil {
				continue
			}
			take := stackMax
			if take > qty-added {
				take = qty - added
			}
			g.Slots[idx] = &types.Stack{ItemID: target, Qty: take}
			added += take
		}
	}
	return added
}

// CapacityFor returns how many more units of an item the ledger can hold:
// free room in the item's existing stacks plus whole empty slots.
func CapacityFor(l *types.Ledger, itemID string, stackMax int) int {
	target := key(itemID)
	if l == nil || target == "" {
		return 0
	}
	if stackMax < 1 {
		stackMax = 1
	}
	free := 0
	for _, g := range grids(l) {
		for _, stack := range g.Slots {
			if stack == nil {
				free += stackMax
				continue
			}
			if key(stack.ItemID) != target {
				continue
			}
			if room := stackMax - stack.Qty; room > 0 {
				free += room
			}
		}
	}
	return free
}

// Snapshot is a full copy of the ledger state, sufficient for exact
// restoration after a failed execution.
type Snapshot struct {
	Gold    int
	Carried []*types.Stack
	Storage []*types.Stack
}

func snapshotGrid(g *types.Grid) []*types.Stack {
	if g == nil {
		return nil
	}
	rows := make([]*types.Stack, len(g.Slots))
	for idx, stack := range g.Slots {
		if stack == nil {
			continue
		}
		id := key(stack.ItemID)
		if id == "" || stack.Qty <= 0 {
			continue
		}
		rows[idx] = &types.Stack{ItemID: id, Qty: stack.Qty}
	}
	return rows
}

// Capture copies the whole ledger (both grids and gold).
func Capture(l *types.Ledger) Snapshot {
	if l == nil {
		return Snapshot{}
	}
	gold := l.Gold
	if gold < 0 {
		gold = 0
	}
	return Snapshot{
		Gold:    gold,
		Carried: snapshotGrid(l.Carried),
		Storage: snapshotGrid(l.Storage),
	}
}

func restoreGrid(g *types.Grid, rows []*types.Stack) {
	if g == nil {
		return
	}
	for idx := range g.Slots {
		var row *types.Stack
		if idx < len(rows) {
			row = rows[idx]
		}
		if row == nil || key(row.ItemID) == "" || row.Qty <= 0 {
			g.Slots[idx] = nil
			continue
		}
		g.Slots[idx] = &types.Stack{ItemID: key(row.ItemID), Qty: row.Qty}
	}
}

// Restore puts the ledger back to a captured snapshot, slot by slot.
func Restore(l *types.Ledger, snap Snapshot) {
	if l == nil {
		return
	}
	restoreGrid(l.Carried, snap.Carried)
	restoreGrid(l.Storage, snap.Storage)
	if snap.Gold < 0 {
		l.Gold = 0
	} else {
		l.Gold = snap.Gold
	}
}
