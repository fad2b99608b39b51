// Package types defines the shared data structures for the trade engine.
// This package contains only type definitions — no logic, no methods.
package types

// Trade session statuses. Any other value is coerced to StatusIdle
// at the normalization boundary.
const (
	StatusIdle       = "idle"
	StatusSelecting  = "selecting"
	StatusConfirming = "confirming"
	StatusExecuting  = "executing"
	StatusDone       = "done"
	StatusAborted    = "aborted"
)

// Trade modes. Barter is accepted but priced and executed as a buy.
const (
	ModeBuy    = "buy"
	ModeSell   = "sell"
	ModeBarter = "barter"
)

// ItemDef is one entry of the external item catalog.
type ItemDef struct {
	ID        string
	Name      string
	StackMax  int
	BaseValue int // gold value of one unit before pricing
	Rarity    string
}

// NPCProfile is the optional pricing-influence profile of the trading NPC.
type NPCProfile struct {
	ID           string
	Name         string
	TensionLevel int // 0..100; a missing profile is treated as tension 0
}

// LineItem is one priced entry in a trade cart.
// Subtotal is always re-derived as Qty*UnitPrice, never trusted from input.
type LineItem struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	Subtotal  int    `json:"subtotal"`
}

// Terms holds the session-level negotiated percentages,
// each clamped to [-20, 20].
type Terms struct {
	NegotiatedPct  int `json:"negotiated_pct"`
	LotDiscountPct int `json:"lot_discount_pct"`
	LotBonusPct    int `json:"lot_bonus_pct"`
}

// Negotiation is the bounded counter vector influencing price.
// Mood, Trust and Greed live in [0,100]; RepBonus in [-40,40].
type Negotiation struct {
	Mood     int `json:"mood"`
	Trust    int `json:"trust"`
	Greed    int `json:"greed"`
	RepBonus int `json:"rep_bonus"`
}

// Option is one labeled choice of a pending question.
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	RiskTag     string `json:"risk_tag"`
	EffectsHint string `json:"effects_hint"`
}

// PendingQuestion is a disambiguation prompt awaiting a player choice.
type PendingQuestion struct {
	Type     string   `json:"type"`
	ItemID   string   `json:"item_id"`
	ItemName string   `json:"item_name"`
	Max      int      `json:"max"`
	Text     string   `json:"text"`
	Options  []Option `json:"options"` // at most 4
}

// SellIntent is the resolver output for a free-text sell message.
// It is never persisted.
type SellIntent struct {
	Mode     string
	ItemID   string
	ItemName string
	Qty      int // 0 means no explicit quantity was given
	MaxQty   int
	SellAll  bool
	OneByOne bool

	// Ambiguous marks an intent that could not be resolved to an owned
	// item; Query carries the cleaned text for caller-side clarification.
	Ambiguous bool
	Query     string
}

// TradeSession is the mutable per-negotiation state container.
type TradeSession struct {
	Status           string           `json:"status"`
	NPCID            string           `json:"npc_id"`
	Mode             string           `json:"mode"`
	Currency         string           `json:"currency"`
	Cart             []LineItem       `json:"cart"`
	ProposedTerms    Terms            `json:"proposed_terms"`
	LastPlayerIntent string           `json:"last_player_intent"`
	PendingQuestion  *PendingQuestion `json:"pending_question,omitempty"`
	Negotiation      Negotiation      `json:"negotiation"`
	Transcript       []string         `json:"transcript_short"` // cap 10, consecutive dedupe

	TurnID                int    `json:"turn_id"`
	LastLLMTurnID         int    `json:"last_llm_turn_id"`
	LastActionFingerprint string `json:"last_action_fingerprint"`
}

// TxItem is one line summary inside a transaction record.
type TxItem struct {
	ItemID    string `json:"item_id"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price,omitempty"`
	Subtotal  int    `json:"subtotal,omitempty"`
}

// Transaction is one audit record of an execution attempt.
type Transaction struct {
	TransactionID string   `json:"transaction_id"`
	Status        string   `json:"status"`
	Mode          string   `json:"mode"`
	OK            bool     `json:"ok"`
	GoldDelta     int      `json:"gold_delta"`
	Reason        string   `json:"reason"`
	Items         []TxItem `json:"items"` // at most 8
}

// InventoryDelta describes one inventory change of a committed trade.
type InventoryDelta struct {
	ItemID string `json:"item_id"`
	Delta  int    `json:"delta"`
}

// StatePatch describes the net ledger changes of a committed trade.
type StatePatch struct {
	Inventory []InventoryDelta `json:"inventory"`
	GoldDelta int              `json:"gold_delta"`
}

// TradeContext summarizes the outcome of a mutating operation for the caller.
type TradeContext struct {
	Status        string `json:"status"`
	Mode          string `json:"mode"`
	TransactionID string `json:"transaction_id,omitempty"`
	QtyDone       int    `json:"qty_done,omitempty"`
	GoldDelta     int    `json:"gold_delta,omitempty"`
	TotalPrice    int    `json:"total_price,omitempty"`
}

// TradeResult is the returned contract of every mutating operation.
type TradeResult struct {
	OK           bool         `json:"ok"`
	Error        string       `json:"error"`
	StatePatch   StatePatch   `json:"state_patch"`
	TradeContext TradeContext `json:"trade_context"`
	Session      TradeSession `json:"session"`
	Lines        []string     `json:"lines"`
}

// Stack is one occupied inventory slot.
type Stack struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

// Grid is a fixed-capacity slot container; a nil slot is empty.
type Grid struct {
	Slots []*Stack `json:"slots"`
}

// Ledger is the externally-owned shared resource the engine mutates:
// two slot grids plus a non-negative gold balance.
type Ledger struct {
	Carried *Grid `json:"carried"`
	Storage *Grid `json:"storage"`
	Gold    int   `json:"gold"`
}

// StepResult is the output of one conversational turn.
type StepResult struct {
	Lines     []string
	Duplicate bool
	Executed  *TradeResult // non-nil when the turn ran an execution attempt
}
