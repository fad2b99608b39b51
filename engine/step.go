package engine

import (
	"fmt"
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/intent"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

var confirmPhrases = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "ok": true, "okay": true,
	"deal": true, "confirm": true, "confirmed": true, "agreed": true,
	"do it": true, "sold": true, "take it": true,
}

var cancelPhrases = map[string]bool{
	"no": true, "nope": true, "cancel": true, "never mind": true,
	"nevermind": true, "forget it": true, "nothing": true, "stop": true,
}

// questionLines renders a pending question for display.
func questionLines(q *types.PendingQuestion) []string {
	lines := []string{q.Text}
	for i, opt := range q.Options {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, opt.Text))
	}
	return lines
}

// answerQuestion maps free text onto the pending quantity question.
func (e *Engine) answerQuestion(plain string) types.StepResult {
	q := e.Session.PendingQuestion
	var err error
	switch {
	case cancelPhrases[plain]:
		err = e.ApplyQuantityChoice(session.ChoiceCancel, 0)
	case strings.Contains(plain, "all") || strings.Contains(plain, "everything") ||
		strings.Contains(plain, "whole") || strings.Contains(plain, "lot"):
		err = e.ApplyQuantityChoice(session.ChoiceSellAll, 0)
	case plain == "one" || plain == "just one" || plain == "1":
		err = e.ApplyQuantityChoice(session.ChoiceSellOne, 0)
	default:
		if qty := intent.ExtractQty(plain); qty > 0 {
			err = e.ApplyQuantityChoice(session.ChoiceSetQty, qty)
		} else {
			// Not an answer we understand; repeat the question.
			return types.StepResult{Lines: questionLines(q)}
		}
	}
	if err != nil {
		return types.StepResult{Lines: []string{err.Error()}}
	}
	switch e.Session.Status {
	case types.StatusAborted:
		return types.StepResult{Lines: []string{"Trade aborted."}}
	case types.StatusConfirming:
		lines := append(e.BuildRecap(), "Say 'yes' to close the deal, or 'no' to walk away.")
		return types.StepResult{Lines: lines}
	}
	return types.StepResult{Lines: []string{"Okay."}}
}

// Step advances the conversation by one player message. The fingerprint
// deduplicates retried deliveries: a repeated fingerprint returns a
// Duplicate result without touching any state.
func (e *Engine) Step(input, fingerprint string) types.StepResult {
	// 1. Idempotency guard first; duplicates change nothing.
	if e.RunActionGuard(fingerprint) {
		return types.StepResult{
			Duplicate: true,
			Lines:     []string{"(duplicate message ignored)"},
		}
	}

	plain := intent.Normalize(input)
	e.Session.LastPlayerIntent = plain

	// 2. No negotiation open yet.
	if e.Session.Status == types.StatusIdle ||
		e.Session.Status == types.StatusDone ||
		e.Session.Status == types.StatusAborted {
		return types.StepResult{Lines: []string{
			"No trade in progress. Use /trade <npc> to approach a trader.",
		}}
	}

	// 3. A pending question eats the answer before anything else.
	if q := e.Session.PendingQuestion; q != nil && q.Type == "quantity_choice" {
		return e.answerQuestion(plain)
	}

	// 4. Awaiting confirmation: yes executes, no aborts.
	if e.Session.Status == types.StatusConfirming {
		if confirmPhrases[plain] {
			res := e.ExecuteTrade()
			return types.StepResult{Lines: res.Lines, Executed: &res}
		}
		if cancelPhrases[plain] {
			e.AbortTrade()
			return types.StepResult{Lines: []string{"Trade aborted."}}
		}
	}

	// 5. Selecting with a staged cart: a confirm phrase asks for the
	// final yes instead of executing straight away.
	if e.Session.Status == types.StatusSelecting && confirmPhrases[plain] && len(e.Session.Cart) > 0 {
		e.ConfirmTrade()
		lines := append(e.BuildRecap(), "Say 'yes' to close the deal, or 'no' to walk away.")
		return types.StepResult{Lines: lines}
	}

	// 6. Look for a sell intent in the free text.
	if in := e.DetectSellIntent(input); in != nil {
		if in.Ambiguous {
			if in.Query == "" {
				return types.StepResult{Lines: []string{
					"Sell what, exactly? Name an item you carry.",
				}}
			}
			return types.StepResult{Lines: []string{
				fmt.Sprintf("Nothing you carry matches %q.", in.Query),
			}}
		}
		if err := e.AddSellIntent(in); err != nil {
			return types.StepResult{Lines: []string{err.Error()}}
		}
		if q := e.Session.PendingQuestion; q != nil {
			return types.StepResult{Lines: questionLines(q)}
		}
		return types.StepResult{Lines: e.BuildRecap()}
	}

	if cancelPhrases[plain] {
		e.AbortTrade()
		return types.StepResult{Lines: []string{"Trade aborted."}}
	}

	return types.StepResult{Lines: []string{
		"The trader waits. Offer something to sell, or say 'deal' once the cart is ready.",
	}}
}
