package save

import (
	"encoding/json"
	"fmt"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// legacyPendingTrade is the pre-session save shape: a bare NPC id plus a
// flat list of staged items, with no status machine around it.
type legacyPendingTrade struct {
	NPCID string `json:"npc_id"`
	Mode  string `json:"mode"`
	Items []struct {
		ItemID    string `json:"item_id"`
		ItemName  string `json:"item_name"`
		Qty       int    `json:"qty"`
		UnitPrice int    `json:"unit_price"`
	} `json:"items"`
}

// FromLegacyPendingTrade converts an old pending-trade blob into a
// confirming session: the staged offer was already awaiting the final
// yes when it was saved. Prices are carried over as stored; callers
// that want current pricing reprice the cart afterwards.
func FromLegacyPendingTrade(raw []byte) (types.TradeSession, error) {
	var legacy legacyPendingTrade
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return types.TradeSession{}, fmt.Errorf("decoding legacy pending trade: %w", err)
	}
	if legacy.NPCID == "" {
		return types.TradeSession{}, fmt.Errorf("legacy pending trade has no npc_id")
	}

	s := session.Start(legacy.NPCID, legacy.Mode)
	for _, it := range legacy.Items {
		s.Cart = append(s.Cart, types.LineItem{
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}
	s.Status = types.StatusConfirming
	s.LastPlayerIntent = "legacy_pending_trade"
	session.Normalize(&s)
	return s, nil
}
