// Package pricing computes unit prices from item base value, trade mode,
// NPC tension and the bounded negotiation vector, plus lot-size adjustments.
package pricing

import (
	"math"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func round(f float64) int {
	return int(math.Round(f))
}

// lotPct returns the lot-size percentage adjustment: buyers get a discount
// on bigger lots, sellers a bonus.
func lotPct(mode string, qty int) int {
	switch {
	case qty >= 10:
		if mode == types.ModeBuy {
			return -10
		}
		return 6
	case qty >= 5:
		if mode == types.ModeBuy {
			return -5
		}
		return 3
	}
	return 0
}

// PriceItem computes the unit price for qty units of an item.
// Buy prices target above base value, sell prices below; both are pulled
// by greed, trust, reputation and the NPC's tension level, then clamped
// so negotiation can never break the price band.
func PriceItem(item types.ItemDef, npc *types.NPCProfile, nego types.Negotiation, mode string, qty int) int {
	base := item.BaseValue
	if base < 1 {
		base = 1
	}
	greed := clamp(nego.Greed, 0, 100)
	trust := clamp(nego.Trust, 0, 100)
	rep := clamp(nego.RepBonus, -40, 40)
	tension := 0
	if npc != nil {
		tension = clamp(npc.TensionLevel, 0, 100) / 10
	}

	// Only an explicit buy uses the buy formula; barter quotes with the
	// sell formula even though it settles like a purchase.
	var pct int
	if mode == types.ModeBuy {
		p := 115 + float64(greed-50)*0.35 - float64(trust-50)*0.2 - float64(rep)*0.4 + float64(tension*2)
		pct = clamp(round(p), 80, 180)
	} else {
		p := 55 - float64(greed-50)*0.28 + float64(trust-50)*0.24 + float64(rep)*0.45 - float64(tension*2)
		pct = clamp(round(p), 25, 95)
	}

	unit := round(float64(base) * float64(pct) / 100)
	if unit < 1 {
		unit = 1
	}

	if qty < 1 {
		qty = 1
	}
	if lp := lotPct(mode, qty); lp != 0 {
		unit = round(float64(unit) * (1 + float64(lp)/100))
		if unit < 1 {
			unit = 1
		}
	}
	return unit
}

// ApplyNegotiatedPct layers the session-level haggled percentage on top of
// a structural unit price. The percentage is clamped to [-20, 20] before
// being applied.
func ApplyNegotiatedPct(unit, pct int) int {
	pct = clamp(pct, -20, 20)
	if pct == 0 {
		if unit < 1 {
			return 1
		}
		return unit
	}
	out := round(float64(unit) * (1 + float64(pct)/100))
	if out < 1 {
		out = 1
	}
	return out
}
