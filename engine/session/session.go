// Package session owns the TradeSession lifecycle: the normalization
// boundary every cross-engine hand-off passes through, the legal status
// transitions, and cart management.
//
// Normalization never reports errors — invalid input is silently coerced
// to the nearest legal value, so the rest of the engine can assume
// well-formed state without re-validating on every access.
package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/pricing"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

const (
	cartCap        = 24
	transcriptCap  = 10
	optionCap      = 4
	maxLineLen     = 220
	maxNameLen     = 80
	maxIDLen       = 120
	fingerprintMax = 200
)

var spacesRe = regexp.MustCompile(`\s+`)

var validStatuses = map[string]bool{
	types.StatusIdle:       true,
	types.StatusSelecting:  true,
	types.StatusConfirming: true,
	types.StatusExecuting:  true,
	types.StatusDone:       true,
	types.StatusAborted:    true,
}

var validModes = map[string]bool{
	types.ModeBuy:    true,
	types.ModeSell:   true,
	types.ModeBarter: true,
}

// UnknownItemError reports a cart operation against an item the catalog
// does not know. Referencing a missing item aborts the operation — there
// is no silent defaulting for catalog lookups.
type UnknownItemError struct {
	ItemID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.ItemID)
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// cleanText collapses whitespace and truncates to max runes.
func cleanText(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = spacesRe.ReplaceAllString(s, " ")
	if r := []rune(s); len(r) > max {
		return string(r[:max])
	}
	return s
}

// New returns a fresh idle session.
func New() types.TradeSession {
	s := types.TradeSession{}
	Normalize(&s)
	return s
}

// Start opens a negotiation with an NPC in the given mode.
func Start(npcID, mode string) types.TradeSession {
	m := strings.ToLower(strings.TrimSpace(mode))
	if !validModes[m] {
		m = types.ModeSell
	}
	s := types.TradeSession{
		Status:      types.StatusSelecting,
		NPCID:       cleanText(npcID, maxIDLen),
		Mode:        m,
		Currency:    "gold",
		Cart:        []types.LineItem{},
		Negotiation: types.Negotiation{Mood: 50, Trust: 50, Greed: 50, RepBonus: 0},
		Transcript:  []string{},
		TurnID:      1,
		LastLLMTurnID: -1,
	}
	AppendTranscript(&s, fmt.Sprintf("Trade session opened (%s).", m))
	Normalize(&s)
	return s
}

// normalizeLine re-derives one cart line; an empty item id drops the line.
func normalizeLine(row types.LineItem) (types.LineItem, bool) {
	id := cleanText(row.ItemID, maxIDLen)
	if id == "" {
		return types.LineItem{}, false
	}
	qty := row.Qty
	if qty < 1 {
		qty = 1
	}
	unit := row.UnitPrice
	if unit < 0 {
		unit = 0
	}
	name := cleanText(row.ItemName, maxNameLen)
	if name == "" {
		name = id
	}
	return types.LineItem{
		ItemID:    id,
		ItemName:  name,
		Qty:       qty,
		UnitPrice: unit,
		Subtotal:  qty * unit,
	}, true
}

func normalizePendingQuestion(q *types.PendingQuestion) *types.PendingQuestion {
	if q == nil {
		return nil
	}
	qtype := strings.ToLower(cleanText(q.Type, 40))
	if qtype == "" {
		return nil
	}
	out := &types.PendingQuestion{
		Type:     qtype,
		ItemID:   cleanText(q.ItemID, maxIDLen),
		ItemName: cleanText(q.ItemName, maxNameLen),
		Max:      q.Max,
		Text:     cleanText(q.Text, maxLineLen),
	}
	if out.Max < 1 {
		out.Max = 1
	}
	seen := map[string]bool{}
	for idx, opt := range q.Options {
		if len(out.Options) == optionCap {
			break
		}
		id := strings.ToLower(cleanText(opt.ID, 40))
		if id == "" {
			id = fmt.Sprintf("option_%d", idx+1)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		text := cleanText(opt.Text, 120)
		if text == "" {
			text = fmt.Sprintf("Option %d", idx+1)
		}
		out.Options = append(out.Options, types.Option{
			ID:          id,
			Text:        text,
			RiskTag:     cleanText(opt.RiskTag, 24),
			EffectsHint: cleanText(opt.EffectsHint, 140),
		})
	}
	return out
}

// Normalize clamps every bounded field, drops malformed cart lines,
// truncates text, and forces the idle invariants (no cart, no pending
// question, no fingerprint). It is idempotent: normalizing an already
// normalized session changes nothing.
func Normalize(s *types.TradeSession) {
	if s == nil {
		return
	}
	s.Status = strings.ToLower(cleanText(s.Status, 24))
	if !validStatuses[s.Status] {
		s.Status = types.StatusIdle
	}
	s.Mode = strings.ToLower(cleanText(s.Mode, 20))
	if !validModes[s.Mode] {
		s.Mode = types.ModeSell
	}
	s.Currency = strings.ToLower(cleanText(s.Currency, 20))
	if s.Currency != "gold" {
		s.Currency = "gold"
	}
	s.NPCID = cleanText(s.NPCID, maxIDLen)
	s.LastPlayerIntent = cleanText(s.LastPlayerIntent, maxLineLen)

	s.ProposedTerms.NegotiatedPct = clamp(s.ProposedTerms.NegotiatedPct, -20, 20)
	s.ProposedTerms.LotDiscountPct = clamp(s.ProposedTerms.LotDiscountPct, -20, 20)
	s.ProposedTerms.LotBonusPct = clamp(s.ProposedTerms.LotBonusPct, -20, 20)

	// A zero-valued vector means the field was absent from the input;
	// coerce it to the neutral defaults.
	if s.Negotiation == (types.Negotiation{}) {
		s.Negotiation = types.Negotiation{Mood: 50, Trust: 50, Greed: 50}
	}
	s.Negotiation.Mood = clamp(s.Negotiation.Mood, 0, 100)
	s.Negotiation.Trust = clamp(s.Negotiation.Trust, 0, 100)
	s.Negotiation.Greed = clamp(s.Negotiation.Greed, 0, 100)
	s.Negotiation.RepBonus = clamp(s.Negotiation.RepBonus, -40, 40)

	cart := make([]types.LineItem, 0, len(s.Cart))
	for _, row := range s.Cart {
		if line, ok := normalizeLine(row); ok {
			cart = append(cart, line)
		}
		if len(cart) == cartCap {
			break
		}
	}
	s.Cart = cart

	transcript := make([]string, 0, len(s.Transcript))
	for _, line := range s.Transcript {
		if cleaned := cleanText(line, maxLineLen); cleaned != "" {
			transcript = append(transcript, cleaned)
		}
	}
	if len(transcript) > transcriptCap {
		transcript = transcript[len(transcript)-transcriptCap:]
	}
	s.Transcript = transcript

	s.PendingQuestion = normalizePendingQuestion(s.PendingQuestion)

	if s.TurnID < 0 {
		s.TurnID = 0
	}
	if s.LastLLMTurnID < -1 {
		s.LastLLMTurnID = -1
	}
	s.LastActionFingerprint = cleanText(s.LastActionFingerprint, fingerprintMax)

	if s.Status == types.StatusIdle {
		s.Cart = []types.LineItem{}
		s.PendingQuestion = nil
		s.LastActionFingerprint = ""
		s.LastLLMTurnID = -1
		if s.NPCID == "" {
			s.Mode = types.ModeSell
		}
	}
}

// AppendTranscript adds a human-readable line, skipping empty lines and
// consecutive duplicates, and keeps only the newest entries.
func AppendTranscript(s *types.TradeSession, line string) {
	cleaned := cleanText(line, maxLineLen)
	if cleaned == "" {
		return
	}
	if n := len(s.Transcript); n > 0 && s.Transcript[n-1] == cleaned {
		return
	}
	s.Transcript = append(s.Transcript, cleaned)
	if len(s.Transcript) > transcriptCap {
		s.Transcript = s.Transcript[len(s.Transcript)-transcriptCap:]
	}
}

// AddToCart resolves the item, prices it for the requested quantity with
// the session's negotiation state and negotiated percentage, and either
// replaces the existing line for that item or appends a new one. The
// pending question is cleared and the session returns to selecting.
func AddToCart(s *types.TradeSession, cat *catalog.Catalog, npc *types.NPCProfile, itemID string, qty int) error {
	Normalize(s)
	item, ok := cat.LookupItem(itemID)
	if !ok {
		return &UnknownItemError{ItemID: itemID}
	}
	if qty < 1 {
		qty = 1
	}

	unit := pricing.PriceItem(item, npc, s.Negotiation, s.Mode, qty)
	unit = pricing.ApplyNegotiatedPct(unit, s.ProposedTerms.NegotiatedPct)

	key := strings.ToLower(item.ID)
	name := cleanText(item.Name, maxNameLen)
	if name == "" {
		name = key
	}
	row := types.LineItem{
		ItemID:    key,
		ItemName:  name,
		Qty:       qty,
		UnitPrice: unit,
		Subtotal:  qty * unit,
	}

	replaced := false
	for idx := range s.Cart {
		if strings.EqualFold(s.Cart[idx].ItemID, key) {
			s.Cart[idx] = row
			replaced = true
			break
		}
	}
	if !replaced {
		if len(s.Cart) >= cartCap {
			return fmt.Errorf("cart is full (%d lines)", cartCap)
		}
		s.Cart = append(s.Cart, row)
	}

	s.Status = types.StatusSelecting
	s.PendingQuestion = nil
	Normalize(s)
	return nil
}

// SetTerms applies a negotiation-rules input: only the keys present in
// rules are updated, and every value is clamped to [-20, 20]. The cart is
// repriced from scratch so subtotals always reflect the active terms.
func SetTerms(s *types.TradeSession, cat *catalog.Catalog, npc *types.NPCProfile, rules map[string]int) {
	Normalize(s)
	if v, ok := rules["negotiated_pct"]; ok {
		s.ProposedTerms.NegotiatedPct = clamp(v, -20, 20)
	}
	if v, ok := rules["lot_discount_pct"]; ok {
		s.ProposedTerms.LotDiscountPct = clamp(v, -20, 20)
	}
	if v, ok := rules["lot_bonus_pct"]; ok {
		s.ProposedTerms.LotBonusPct = clamp(v, -20, 20)
	}
	Reprice(s, cat, npc)
}

// Reprice recomputes every cart line's unit price from the catalog and
// the current negotiation state, then re-derives all subtotals. Lines
// whose item vanished from the catalog keep their stored unit price.
func Reprice(s *types.TradeSession, cat *catalog.Catalog, npc *types.NPCProfile) {
	for idx := range s.Cart {
		row := &s.Cart[idx]
		if row.Qty < 1 {
			row.Qty = 1
		}
		if item, ok := cat.LookupItem(row.ItemID); ok {
			unit := pricing.PriceItem(item, npc, s.Negotiation, s.Mode, row.Qty)
			row.UnitPrice = pricing.ApplyNegotiatedPct(unit, s.ProposedTerms.NegotiatedPct)
		}
		row.Subtotal = row.Qty * row.UnitPrice
	}
	Normalize(s)
}

// CartTotal sums the cart subtotals.
func CartTotal(s *types.TradeSession) int {
	total := 0
	for _, row := range s.Cart {
		if row.Subtotal > 0 {
			total += row.Subtotal
		}
	}
	return total
}

// Confirm moves a non-empty cart to confirming; an empty cart reverts to
// selecting with a transcript note.
func Confirm(s *types.TradeSession) {
	Normalize(s)
	if len(s.Cart) == 0 {
		s.Status = types.StatusSelecting
		AppendTranscript(s, "Cart is empty: add an item before confirming.")
		Normalize(s)
		return
	}
	s.Status = types.StatusConfirming
	s.PendingQuestion = nil
	AppendTranscript(s, fmt.Sprintf("Recap: total %d gold. Awaiting confirmation.", CartTotal(s)))
	Normalize(s)
}

// Abort cancels the negotiation.
func Abort(s *types.TradeSession) {
	Normalize(s)
	s.Status = types.StatusAborted
	s.PendingQuestion = nil
	s.LastActionFingerprint = ""
	AppendTranscript(s, "Trade aborted.")
	Normalize(s)
}

// ResetToIdle discards the negotiation context entirely.
func ResetToIdle(s *types.TradeSession) {
	Normalize(s)
	s.Status = types.StatusIdle
	s.PendingQuestion = nil
	s.Cart = []types.LineItem{}
	s.LastPlayerIntent = ""
	s.LastActionFingerprint = ""
	s.LastLLMTurnID = -1
	Normalize(s)
}

// RunActionGuard is the single-slot idempotency check: a non-empty
// fingerprint equal to the last recorded one reports a duplicate and
// leaves the turn counter untouched; otherwise the fingerprint is stored
// and the turn counter advances.
func RunActionGuard(s *types.TradeSession, fingerprint string) bool {
	Normalize(s)
	fp := cleanText(fingerprint, fingerprintMax)
	if fp != "" && s.LastActionFingerprint == fp {
		return true
	}
	s.LastActionFingerprint = fp
	s.TurnID++
	Normalize(s)
	return false
}
