package session

import (
	"fmt"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// Quantity-choice option ids, the closed set ApplyQuantityChoice accepts.
const (
	ChoiceSellAll = "sell_all"
	ChoiceSetQty  = "set_qty"
	ChoiceSellOne = "sell_one"
	ChoiceCancel  = "cancel"
)

// NeedsQuantityQuestion reports whether the intent is underspecified:
// more than one unit is held and the player gave neither a quantity nor a
// whole-lot or one-by-one marker.
func NeedsQuantityQuestion(in *types.SellIntent, maxQty int) bool {
	if in == nil || in.Ambiguous {
		return false
	}
	if maxQty <= 1 {
		return false
	}
	return in.Qty == 0 && !in.SellAll && !in.OneByOne
}

// ProposeQuantityOptions attaches a quantity question for the intent's
// item and parks the session on it. maxQty is the count the player holds.
func ProposeQuantityOptions(s *types.TradeSession, in *types.SellIntent, maxQty int) {
	Normalize(s)
	if maxQty < 1 {
		maxQty = 1
	}
	name := in.ItemName
	if name == "" {
		name = in.ItemID
	}
	s.PendingQuestion = &types.PendingQuestion{
		Type:     "quantity_choice",
		ItemID:   in.ItemID,
		ItemName: name,
		Max:      maxQty,
		Text:     fmt.Sprintf("How many %s do you want to sell? You have %d.", name, maxQty),
		Options: []types.Option{
			{ID: ChoiceSellAll, Text: fmt.Sprintf("Sell the whole lot (%d)", maxQty), RiskTag: "safe"},
			{ID: ChoiceSetQty, Text: "Pick a quantity", RiskTag: "safe"},
			{ID: ChoiceSellOne, Text: "Sell just one", RiskTag: "safe"},
			{ID: ChoiceCancel, Text: "Never mind", RiskTag: "safe"},
		},
	}
	s.Status = types.StatusSelecting
	AppendTranscript(s, s.PendingQuestion.Text)
	Normalize(s)
}

// ApplyQuantityChoice resolves a pending quantity question. The three
// add options stage the quantity and move straight to confirming;
// cancel aborts the session. Unknown option ids are rejected with a
// transcript note and the question stays pending; answering with no
// question pending is a no-op.
func ApplyQuantityChoice(s *types.TradeSession, cat *catalog.Catalog, npc *types.NPCProfile, optionID string, qty int) error {
	Normalize(s)
	q := s.PendingQuestion
	if q == nil || q.Type != "quantity_choice" {
		AppendTranscript(s, "Nothing pending.")
		Normalize(s)
		return nil
	}

	switch optionID {
	case ChoiceSellAll:
		if err := AddToCart(s, cat, npc, q.ItemID, q.Max); err != nil {
			return err
		}
		AppendTranscript(s, fmt.Sprintf("Full lot added (%d).", q.Max))
		Confirm(s)
	case ChoiceSetQty:
		n := clamp(qty, 1, q.Max)
		if err := AddToCart(s, cat, npc, q.ItemID, n); err != nil {
			return err
		}
		AppendTranscript(s, fmt.Sprintf("Quantity set to %d.", n))
		Confirm(s)
	case ChoiceSellOne:
		if err := AddToCart(s, cat, npc, q.ItemID, 1); err != nil {
			return err
		}
		AppendTranscript(s, "One unit added to the cart.")
		Confirm(s)
	case ChoiceCancel:
		s.PendingQuestion = nil
		s.Status = types.StatusAborted
		AppendTranscript(s, "Okay, nothing added.")
	default:
		AppendTranscript(s, "Unknown option.")
		Normalize(s)
		return fmt.Errorf("unknown quantity option %q", optionID)
	}
	Normalize(s)
	return nil
}

// QuestionFromIntent is the one-stop entry the conversational loop uses:
// an unambiguous intent either lands in the cart directly or raises a
// quantity question, depending on what the player specified.
func QuestionFromIntent(s *types.TradeSession, cat *catalog.Catalog, npc *types.NPCProfile, in *types.SellIntent, maxQty int) error {
	Normalize(s)
	if in == nil || in.Ambiguous {
		return nil
	}
	if NeedsQuantityQuestion(in, maxQty) {
		ProposeQuantityOptions(s, in, maxQty)
		return nil
	}
	qty := in.Qty
	switch {
	case in.SellAll:
		qty = maxQty
	case in.OneByOne:
		qty = 1
	case qty == 0:
		qty = 1
	}
	if maxQty > 0 && qty > maxQty {
		qty = maxQty
	}
	return AddToCart(s, cat, npc, in.ItemID, qty)
}
