package ledger

import (
	"reflect"
	"testing"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

func testLedger() *types.Ledger {
	l := New(4, 4, 100)
	l.Carried.Slots[0] = &types.Stack{ItemID: "apprentice_sword", Qty: 3}
	l.Carried.Slots[2] = &types.Stack{ItemID: "healing_potion", Qty: 5}
	l.Storage.Slots[1] = &types.Stack{ItemID: "apprentice_sword", Qty: 5}
	return l
}

func TestCount_SumsAcrossGrids(t *testing.T) {
	l := testLedger()

	if got := Count(l, "apprentice_sword"); got != 8 {
		t.Errorf("expected 8 swords, got %d", got)
	}
	if got := Count(l, "healing_potion"); got != 5 {
		t.Errorf("expected 5 potions, got %d", got)
	}
}

func TestCount_CaseInsensitive(t *testing.T) {
	l := testLedger()

	if got := Count(l, "Apprentice_Sword"); got != 8 {
		t.Errorf("expected case-insensitive count 8, got %d", got)
	}
}

func TestCount_UnknownItemIsZero(t *testing.T) {
	l := testLedger()

	if got := Count(l, "dragon_scale"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestTotals(t *testing.T) {
	l := testLedger()

	want := map[string]int{"apprentice_sword": 8, "healing_potion": 5}
	if got := Totals(l); !reflect.DeepEqual(got, want) {
		t.Errorf("totals mismatch: got %v want %v", got, want)
	}
}

func TestRemove_DrainsCarriedBeforeStorage(t *testing.T) {
	l := testLedger()

	removed := Remove(l, "apprentice_sword", 4)
	if removed != 4 {
		t.Fatalf("expected to remove 4, removed %d", removed)
	}
	if l.Carried.Slots[0] != nil {
		t.Error("carried stack should be emptied first")
	}
	if l.Storage.Slots[1] == nil || l.Storage.Slots[1].Qty != 4 {
		t.Errorf("storage stack should hold remaining 4, got %+v", l.Storage.Slots[1])
	}
}

func TestRemove_MoreThanOwnedRemovesAll(t *testing.T) {
	l := testLedger()

	if removed := Remove(l, "healing_potion", 10); removed != 5 {
		t.Errorf("expected partial removal of 5, got %d", removed)
	}
	if got := Count(l, "healing_potion"); got != 0 {
		t.Errorf("expected 0 potions left, got %d", got)
	}
}

func TestRemove_ZeroQtyNoop(t *testing.T) {
	l := testLedger()

	if removed := Remove(l, "apprentice_sword", 0); removed != 0 {
		t.Errorf("expected noop, removed %d", removed)
	}
	if got := Count(l, "apprentice_sword"); got != 8 {
		t.Errorf("inventory changed on zero-qty remove: %d", got)
	}
}

func TestAdd_TopsUpBeforeNewSlots(t *testing.T) {
	l := testLedger()

	added := Add(l, "healing_potion", 7, 10)
	if added != 7 {
		t.Fatalf("expected to add 7, added %d", added)
	}
	// Existing stack of 5 tops up to 10, remaining 2 go to an empty slot.
	if l.Carried.Slots[2].Qty != 10 {
		t.Errorf("existing stack should be topped to 10, got %d", l.Carried.Slots[2].Qty)
	}
	if got := Count(l, "healing_potion"); got != 12 {
		t.Errorf("expected 12 potions total, got %d", got)
	}
}

func TestAdd_BoundedByCapacity(t *testing.T) {
	l := New(1, 0, 0)

	if added := Add(l, "iron_ore", 25, 20); added != 20 {
		t.Errorf("expected add capped at 20 by single slot, got %d", added)
	}
	if added := Add(l, "iron_ore", 5, 20); added != 0 {
		t.Errorf("expected full ledger to accept 0, got %d", added)
	}
}

func TestCapacityFor(t *testing.T) {
	l := testLedger()

	// Potions: stack of 5 with stack max 10 leaves room 5, plus 5 empty
	// slots of 10 across both grids.
	if got := CapacityFor(l, "healing_potion", 10); got != 55 {
		t.Errorf("expected capacity 55, got %d", got)
	}
}

func TestSnapshotRestore_ExactState(t *testing.T) {
	l := testLedger()
	snap := Capture(l)

	Remove(l, "apprentice_sword", 8)
	Add(l, "iron_ore", 12, 20)
	l.Gold = 9999

	Restore(l, snap)

	want := testLedger()
	if !reflect.DeepEqual(l, want) {
		t.Errorf("restored ledger differs from original:\n got %+v\nwant %+v", l, want)
	}
}

func TestRestore_ClearsSlotsMissingFromSnapshot(t *testing.T) {
	l := New(2, 0, 10)
	snap := Capture(l)

	l.Carried.Slots[0] = &types.Stack{ItemID: "iron_ore", Qty: 3}
	l.Gold = 50
	Restore(l, snap)

	if l.Carried.Slots[0] != nil {
		t.Error("expected slot cleared by restore")
	}
	if l.Gold != 10 {
		t.Errorf("expected gold restored to 10, got %d", l.Gold)
	}
}
