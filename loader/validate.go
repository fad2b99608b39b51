package loader

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validRarities = map[string]bool{
	"common":    true,
	"uncommon":  true,
	"rare":      true,
	"epic":      true,
	"legendary": true,
}

// validate checks the compiled content for consistency.
func validate(content *Content) error {
	ve := &ValidationError{}

	for _, dup := range content.dupes {
		ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate definition: %s", dup))
	}

	ids := make([]string, 0, len(content.Catalog.Items))
	for id := range content.Catalog.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		item := content.Catalog.Items[id]
		if item.BaseValue < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("item %s: base_value must be at least 1", id))
		}
		if item.StackMax < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("item %s: stack_max must be at least 1", id))
		}
		if !validRarities[item.Rarity] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("item %s: unknown rarity %q", id, item.Rarity))
		}
	}

	npcIDs := make([]string, 0, len(content.Catalog.NPCs))
	for id := range content.Catalog.NPCs {
		npcIDs = append(npcIDs, id)
	}
	sort.Strings(npcIDs)
	for _, id := range npcIDs {
		npc := content.Catalog.NPCs[id]
		if npc.TensionLevel < 0 || npc.TensionLevel > 100 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("npc %s: tension_level must be in 0..100", id))
		}
	}

	if content.Player.Gold < 0 {
		ve.Errors = append(ve.Errors, "player: gold must not be negative")
	}
	if content.Player.CarriedSlots < 1 {
		ve.Errors = append(ve.Errors, "player: carried_slots must be at least 1")
	}
	if content.Player.StorageSlots < 0 {
		ve.Errors = append(ve.Errors, "player: storage_slots must not be negative")
	}
	for _, it := range content.Player.Items {
		if it.ItemID == "" {
			ve.Errors = append(ve.Errors, "player: starting item with empty item_id")
			continue
		}
		if _, ok := content.Catalog.Items[it.ItemID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("player: starting item %q is not in the catalog", it.ItemID))
		}
		if it.Qty < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("player: starting item %q needs a positive qty", it.ItemID))
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
