// Package engine wires the trade subsystems together: catalog lookups,
// intent resolution, session state, pricing, atomic execution against
// the ledger, and the transaction history.
package engine

import (
	"fmt"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/intent"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/ledger"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/pricing"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/txlog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// Engine is the trade resolution engine for one player. It owns the
// session and the transaction history; the ledger is the player's
// inventory-plus-gold state the engine mutates on commit.
//
// Engine is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves.
type Engine struct {
	Catalog *catalog.Catalog
	Ledger  *types.Ledger
	Session types.TradeSession
	Log     *txlog.Log
}

// New creates an engine over a catalog and a player ledger.
func New(cat *catalog.Catalog, led *types.Ledger) *Engine {
	return &Engine{
		Catalog: cat,
		Ledger:  led,
		Session: session.New(),
		Log:     txlog.New(),
	}
}

// profile resolves the active NPC's pricing profile; nil means neutral.
func (e *Engine) profile() *types.NPCProfile {
	return e.Catalog.Profile(e.Session.NPCID)
}

// LoadSession replaces the current session with an externally supplied
// one, normalizing it on the way in.
func (e *Engine) LoadSession(s types.TradeSession) {
	session.Normalize(&s)
	e.Session = s
}

// ExportSession returns a normalized copy of the current session.
func (e *Engine) ExportSession() types.TradeSession {
	s := e.Session
	session.Normalize(&s)
	return s
}

// StartTrade opens a negotiation with the given NPC.
func (e *Engine) StartTrade(npcID, mode string) {
	e.Session = session.Start(npcID, mode)
}

// AbortTrade cancels the active negotiation.
func (e *Engine) AbortTrade() {
	session.Abort(&e.Session)
}

// ResetToIdle discards the negotiation context.
func (e *Engine) ResetToIdle() {
	session.ResetToIdle(&e.Session)
}

// ConfirmTrade moves a non-empty cart to the confirming stage.
func (e *Engine) ConfirmTrade() {
	session.Confirm(&e.Session)
}

// RunActionGuard reports whether the fingerprint repeats the last
// applied action. Duplicates must be dropped by the caller.
func (e *Engine) RunActionGuard(fingerprint string) bool {
	return session.RunActionGuard(&e.Session, fingerprint)
}

// DetectSellIntent resolves free player text against what the ledger
// actually holds. It returns nil when the text is not about selling.
func (e *Engine) DetectSellIntent(playerText string) *types.SellIntent {
	return intent.DetectSellIntent(playerText, ledger.Totals(e.Ledger), e.Catalog)
}

// AddSellIntent routes a resolved intent into the cart, raising a
// quantity question when the intent is underspecified.
func (e *Engine) AddSellIntent(in *types.SellIntent) error {
	if in == nil || in.Ambiguous {
		return nil
	}
	maxQty := ledger.Count(e.Ledger, in.ItemID)
	return session.QuestionFromIntent(&e.Session, e.Catalog, e.profile(), in, maxQty)
}

// AddItem puts qty units of an item in the cart at the current price.
func (e *Engine) AddItem(itemID string, qty int) error {
	return session.AddToCart(&e.Session, e.Catalog, e.profile(), itemID, qty)
}

// ApplyQuantityChoice answers the pending quantity question.
func (e *Engine) ApplyQuantityChoice(optionID string, qty int) error {
	return session.ApplyQuantityChoice(&e.Session, e.Catalog, e.profile(), optionID, qty)
}

// SetTerms applies a negotiation-rules change and reprices the cart.
func (e *Engine) SetTerms(rules map[string]int) {
	session.SetTerms(&e.Session, e.Catalog, e.profile(), rules)
}

// PrepareBuy stages a purchase, clamping the requested quantity to what
// the player's gold can cover. The clamp is explained in the transcript
// rather than failing the whole request.
func (e *Engine) PrepareBuy(itemID string, qty int) error {
	session.Normalize(&e.Session)
	item, ok := e.Catalog.LookupItem(itemID)
	if !ok {
		return &session.UnknownItemError{ItemID: itemID}
	}
	if qty < 1 {
		qty = 1
	}

	unit := pricing.PriceItem(item, e.profile(), e.Session.Negotiation, types.ModeBuy, qty)
	unit = pricing.ApplyNegotiatedPct(unit, e.Session.ProposedTerms.NegotiatedPct)
	affordable := e.Ledger.Gold / unit
	if affordable < 1 {
		session.AppendTranscript(&e.Session,
			fmt.Sprintf("%s costs %d gold apiece; you cannot afford one.", item.Name, unit))
		session.Normalize(&e.Session)
		return fmt.Errorf("cannot afford %q at %d gold", item.ID, unit)
	}
	if qty > affordable {
		session.AppendTranscript(&e.Session,
			fmt.Sprintf("You can only afford %d of %d %s; staging %d.", affordable, qty, item.Name, affordable))
		qty = affordable
	}
	return session.AddToCart(&e.Session, e.Catalog, e.profile(), itemID, qty)
}

// BuildRecap renders the cart as display lines, one per entry plus a
// total line.
func (e *Engine) BuildRecap() []string {
	s := e.ExportSession()
	if len(s.Cart) == 0 {
		return []string{"The cart is empty."}
	}
	lines := make([]string, 0, len(s.Cart)+1)
	for _, row := range s.Cart {
		lines = append(lines, fmt.Sprintf("%d x %s at %d gold = %d gold",
			row.Qty, row.ItemName, row.UnitPrice, row.Subtotal))
	}
	lines = append(lines, fmt.Sprintf("Total: %d gold (%s).", session.CartTotal(&s), s.Mode))
	return lines
}
