package engine

import (
	"strings"
	"testing"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/ledger"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Items["apprentice_sword"] = types.ItemDef{
		ID: "apprentice_sword", Name: "Apprentice Sword", StackMax: 10, BaseValue: 10, Rarity: "common",
	}
	cat.Items["healing_potion"] = types.ItemDef{
		ID: "healing_potion", Name: "Healing Potion", StackMax: 20, BaseValue: 12, Rarity: "common",
	}
	cat.Items["iron_ore"] = types.ItemDef{
		ID: "iron_ore", Name: "Iron Ore", StackMax: 50, BaseValue: 4, Rarity: "common",
	}
	cat.NPCs["garrick"] = types.NPCProfile{ID: "garrick", Name: "Garrick", TensionLevel: 0}
	return cat
}

// testEngine returns an engine whose player holds 8 swords, 5 potions
// and 100 gold.
func testEngine(t *testing.T) *Engine {
	t.Helper()
	led := ledger.New(10, 20, 100)
	if got := ledger.Add(led, "apprentice_sword", 8, 10); got != 8 {
		t.Fatalf("fixture: added %d swords, want 8", got)
	}
	if got := ledger.Add(led, "healing_potion", 5, 20); got != 5 {
		t.Fatalf("fixture: added %d potions, want 5", got)
	}
	return New(testCatalog(), led)
}

func TestSellWholeLot(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	if err := e.AddItem("apprentice_sword", 8); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if !res.OK {
		t.Fatalf("ExecuteTrade failed: %s", res.Error)
	}
	if e.Ledger.Gold != 148 {
		t.Errorf("Gold = %d, want 148", e.Ledger.Gold)
	}
	if got := ledger.Count(e.Ledger, "apprentice_sword"); got != 0 {
		t.Errorf("swords left = %d, want 0", got)
	}
	if res.TradeContext.TransactionID != "tx_000001" {
		t.Errorf("TransactionID = %q, want tx_000001", res.TradeContext.TransactionID)
	}
	if res.TradeContext.QtyDone != 8 || res.TradeContext.GoldDelta != 48 {
		t.Errorf("context = %+v, want qty 8, gold +48", res.TradeContext)
	}
	if res.TradeContext.Status != "ok" {
		t.Errorf("context status = %q, want ok", res.TradeContext.Status)
	}
	if res.Session.Status != types.StatusDone {
		t.Errorf("Status = %q, want done", res.Session.Status)
	}
	if res.Session.LastActionFingerprint != "" {
		t.Errorf("fingerprint = %q, want cleared on success", res.Session.LastActionFingerprint)
	}
	if len(res.StatePatch.Inventory) != 1 || res.StatePatch.Inventory[0].Delta != -8 {
		t.Errorf("StatePatch = %+v, want sword -8", res.StatePatch)
	}
}

func TestBuyFlow(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "buy")
	// 12 gold base, buy pct 115 -> round(13.8) = 14 apiece.
	if err := e.AddItem("healing_potion", 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if !res.OK {
		t.Fatalf("ExecuteTrade failed: %s", res.Error)
	}
	if e.Ledger.Gold != 58 {
		t.Errorf("Gold = %d, want 58", e.Ledger.Gold)
	}
	if got := ledger.Count(e.Ledger, "healing_potion"); got != 8 {
		t.Errorf("potions = %d, want 8", got)
	}
	if res.TradeContext.GoldDelta != -42 {
		t.Errorf("GoldDelta = %d, want -42", res.TradeContext.GoldDelta)
	}
}

func TestExecuteClearsFingerprint(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	if err := e.AddItem("apprentice_sword", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if e.RunActionGuard("fp-commit") {
		t.Fatal("fresh fingerprint flagged as duplicate")
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if !res.OK {
		t.Fatalf("ExecuteTrade failed: %s", res.Error)
	}
	if e.Session.LastActionFingerprint != "" {
		t.Fatalf("fingerprint = %q, want cleared on success", e.Session.LastActionFingerprint)
	}
}

func TestExecuteRequiresConfirmation(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	if err := e.AddItem("apprentice_sword", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonNotConfirmed {
		t.Fatalf("result = %+v, want not_confirmed failure", res)
	}
	if e.Ledger.Gold != 100 {
		t.Errorf("Gold = %d, ledger touched on refusal", e.Ledger.Gold)
	}
	last := e.Log.Last()
	if last == nil || last.Status != ReasonNotConfirmed || last.OK {
		t.Errorf("transaction = %+v, want not_confirmed record", last)
	}
}

func TestExecuteEmptyCart(t *testing.T) {
	e := testEngine(t)
	s := e.ExportSession()
	s.Status = types.StatusConfirming
	s.NPCID = "garrick"
	e.LoadSession(s)

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonNotConfirmed {
		t.Fatalf("result = %+v, want not_confirmed failure", res)
	}
	if e.Session.Status != types.StatusConfirming {
		t.Errorf("Status = %q, refusal moved the session", e.Session.Status)
	}
}

func TestExecuteAcceptsExecutingStatus(t *testing.T) {
	// A session persisted mid-execution resumes instead of being refused.
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	if err := e.AddItem("apprentice_sword", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	s := e.ExportSession()
	s.Status = types.StatusExecuting
	e.LoadSession(s)

	res := e.ExecuteTrade()
	if !res.OK {
		t.Fatalf("ExecuteTrade failed: %s", res.Error)
	}
	if got := ledger.Count(e.Ledger, "apprentice_sword"); got != 6 {
		t.Errorf("swords = %d, want 6", got)
	}
}

func TestExecuteInsufficientItems(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	// Player holds 5 potions, cart asks for 9.
	if err := e.AddItem("healing_potion", 9); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonInsufficientItems {
		t.Fatalf("result = %+v, want insufficient_items", res)
	}
	if got := ledger.Count(e.Ledger, "healing_potion"); got != 5 {
		t.Errorf("potions = %d, ledger touched on pre-check failure", got)
	}
	if res.Session.Status != types.StatusConfirming {
		t.Errorf("Status = %q, want back to confirming", res.Session.Status)
	}
}

func TestExecuteInsufficientGold(t *testing.T) {
	e := testEngine(t)
	e.Ledger.Gold = 10
	e.StartTrade("garrick", "buy")
	if err := e.AddItem("healing_potion", 3); err != nil { // 42 gold
		t.Fatalf("AddItem: %v", err)
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonInsufficientGold {
		t.Fatalf("result = %+v, want insufficient_gold", res)
	}
	if e.Ledger.Gold != 10 {
		t.Errorf("Gold = %d, want untouched 10", e.Ledger.Gold)
	}
}

func TestExecuteInventoryFull(t *testing.T) {
	led := ledger.New(1, 0, 1000)
	if got := ledger.Add(led, "iron_ore", 50, 50); got != 50 {
		t.Fatalf("fixture: added %d ore, want 50", got)
	}
	e := New(testCatalog(), led)
	e.StartTrade("garrick", "buy")
	if err := e.AddItem("iron_ore", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	e.ConfirmTrade()

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonInventoryFull {
		t.Fatalf("result = %+v, want inventory_full", res)
	}
}

func TestExecuteAtomicRollback(t *testing.T) {
	e := testEngine(t)
	// Two lines for the same item pass the per-line stock check
	// individually but jointly over-draw the 5 potions held. Such a cart
	// can only arrive from outside, so it is loaded, not built.
	s := e.ExportSession()
	s.Status = types.StatusConfirming
	s.NPCID = "garrick"
	s.Mode = types.ModeSell
	s.Cart = []types.LineItem{
		{ItemID: "healing_potion", ItemName: "Healing Potion", Qty: 4, UnitPrice: 7},
		{ItemID: "Healing_Potion", ItemName: "Healing Potion", Qty: 4, UnitPrice: 7},
	}
	e.LoadSession(s)

	res := e.ExecuteTrade()
	if res.OK || res.Error != ReasonAtomicRollback {
		t.Fatalf("result = %+v, want atomic_rollback", res)
	}
	if got := ledger.Count(e.Ledger, "healing_potion"); got != 5 {
		t.Errorf("potions = %d, want rollback to 5", got)
	}
	if e.Ledger.Gold != 100 {
		t.Errorf("Gold = %d, want rollback to 100", e.Ledger.Gold)
	}
	last := e.Log.Last()
	if last == nil || last.Reason != ReasonAtomicRollback {
		t.Errorf("transaction = %+v, want atomic_rollback record", last)
	}
	if res.Session.Status != types.StatusConfirming {
		t.Errorf("Status = %q, want back to confirming", res.Session.Status)
	}
}

func TestPrepareBuyClampsToAffordable(t *testing.T) {
	e := testEngine(t)
	e.Ledger.Gold = 30
	e.StartTrade("garrick", "buy")

	// Potions cost 14 apiece; 30 gold covers 2.
	if err := e.PrepareBuy("healing_potion", 5); err != nil {
		t.Fatalf("PrepareBuy: %v", err)
	}
	if len(e.Session.Cart) != 1 || e.Session.Cart[0].Qty != 2 {
		t.Fatalf("Cart = %+v, want qty clamped to 2", e.Session.Cart)
	}
	found := false
	for _, line := range e.Session.Transcript {
		if strings.Contains(line, "only afford") {
			found = true
		}
	}
	if !found {
		t.Errorf("transcript %v missing the clamp explanation", e.Session.Transcript)
	}
}

func TestPrepareBuyUnaffordable(t *testing.T) {
	e := testEngine(t)
	e.Ledger.Gold = 5
	e.StartTrade("garrick", "buy")
	if err := e.PrepareBuy("healing_potion", 1); err == nil {
		t.Fatal("PrepareBuy accepted an unaffordable purchase")
	}
	if len(e.Session.Cart) != 0 {
		t.Errorf("Cart = %+v, want empty", e.Session.Cart)
	}
}

func TestDetectSellIntentUsesLedger(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")

	in := e.DetectSellIntent("I want to sell my swords")
	if in == nil || in.Ambiguous {
		t.Fatalf("intent = %+v, want resolved sword intent", in)
	}
	if in.ItemID != "apprentice_sword" {
		t.Errorf("ItemID = %q, want apprentice_sword", in.ItemID)
	}

	if in := e.DetectSellIntent("lovely weather today"); in != nil {
		t.Errorf("non-trade text produced intent %+v", in)
	}
}

func TestBuildRecap(t *testing.T) {
	e := testEngine(t)
	e.StartTrade("garrick", "sell")
	if got := e.BuildRecap(); len(got) != 1 || !strings.Contains(got[0], "empty") {
		t.Errorf("empty recap = %v", got)
	}
	if err := e.AddItem("apprentice_sword", 8); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	lines := e.BuildRecap()
	if len(lines) != 2 {
		t.Fatalf("recap = %v, want item line plus total", lines)
	}
	if !strings.Contains(lines[1], "48 gold") {
		t.Errorf("total line = %q, want 48 gold", lines[1])
	}
}
