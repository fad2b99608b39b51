// Package catalog holds the immutable trade content loaded from Lua:
// the item catalog and the NPC pricing profiles. Lookups are
// case-insensitive with a raw-key fallback.
package catalog

import (
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// Catalog is the read-only content the engine trades against.
type Catalog struct {
	Items map[string]types.ItemDef     // keyed by lower-case item id
	NPCs  map[string]types.NPCProfile  // keyed by lower-case npc id
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		Items: map[string]types.ItemDef{},
		NPCs:  map[string]types.NPCProfile{},
	}
}

// LookupItem resolves an item id case-insensitively, falling back to the
// raw key for catalogs populated with mixed-case ids.
func (c *Catalog) LookupItem(id string) (types.ItemDef, bool) {
	if c == nil {
		return types.ItemDef{}, false
	}
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return types.ItemDef{}, false
	}
	if item, ok := c.Items[key]; ok {
		return item, true
	}
	if item, ok := c.Items[id]; ok {
		return item, true
	}
	return types.ItemDef{}, false
}

// Profile returns the pricing profile for an NPC, or nil when the NPC is
// unknown — callers treat a nil profile as neutral.
func (c *Catalog) Profile(id string) *types.NPCProfile {
	if c == nil {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return nil
	}
	if npc, ok := c.NPCs[key]; ok {
		return &npc
	}
	return nil
}
