package loader

import (
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/ledger"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
	lua "github.com/yuin/gopher-lua"
)

// Content is the compiled, immutable shop content.
type Content struct {
	Shop    ShopDef
	Player  PlayerDef
	Catalog *catalog.Catalog

	dupes []string // duplicate definition ids, reported by validate
}

// ShopDef is the shop header.
type ShopDef struct {
	Title    string
	Greeting string
}

// PlayerDef is the starting ledger configuration.
type PlayerDef struct {
	Gold         int
	CarriedSlots int
	StorageSlots int
	Items        []StartItem
}

// StartItem is one starting inventory entry.
type StartItem struct {
	ItemID string
	Qty    int
}

func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

func compileItem(raw rawDef) types.ItemDef {
	id := strings.ToLower(strings.TrimSpace(raw.id))
	item := types.ItemDef{
		ID:        id,
		Name:      getString(raw.table, "name"),
		StackMax:  getInt(raw.table, "stack_max"),
		BaseValue: getInt(raw.table, "base_value"),
		Rarity:    strings.ToLower(getString(raw.table, "rarity")),
	}
	if item.Name == "" {
		item.Name = id
	}
	if item.StackMax == 0 {
		item.StackMax = 1
	}
	if item.Rarity == "" {
		item.Rarity = "common"
	}
	return item
}

func compileNPC(raw rawDef) types.NPCProfile {
	id := strings.ToLower(strings.TrimSpace(raw.id))
	npc := types.NPCProfile{
		ID:           id,
		Name:         getString(raw.table, "name"),
		TensionLevel: getInt(raw.table, "tension_level"),
	}
	if npc.Name == "" {
		npc.Name = id
	}
	return npc
}

func compilePlayer(tbl *lua.LTable) PlayerDef {
	// Defaults match a fresh character.
	p := PlayerDef{Gold: 100, CarriedSlots: 10, StorageSlots: 20}
	if tbl == nil {
		return p
	}
	if v := tbl.RawGetString("gold"); v != lua.LNil {
		p.Gold = getInt(tbl, "gold")
	}
	if v := tbl.RawGetString("carried_slots"); v != lua.LNil {
		p.CarriedSlots = getInt(tbl, "carried_slots")
	}
	if v := tbl.RawGetString("storage_slots"); v != lua.LNil {
		p.StorageSlots = getInt(tbl, "storage_slots")
	}
	if items := getTable(tbl, "items"); items != nil {
		items.ForEach(func(_, v lua.LValue) {
			entry, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			p.Items = append(p.Items, StartItem{
				ItemID: strings.ToLower(getString(entry, "item_id")),
				Qty:    getInt(entry, "qty"),
			})
		})
	}
	return p
}

// BuildLedger materializes the starting ledger from the player
// definition, stacking starting items per the catalog's stack sizes.
func (c *Content) BuildLedger() *types.Ledger {
	led := ledger.New(c.Player.CarriedSlots, c.Player.StorageSlots, c.Player.Gold)
	for _, it := range c.Player.Items {
		stackMax := 1
		if item, ok := c.Catalog.LookupItem(it.ItemID); ok {
			stackMax = item.StackMax
		}
		ledger.Add(led, it.ItemID, it.Qty, stackMax)
	}
	return led
}

func compile(coll *collector) (*Content, error) {
	content := &Content{Catalog: catalog.New()}

	if coll.shop != nil {
		content.Shop = ShopDef{
			Title:    getString(coll.shop, "title"),
			Greeting: getString(coll.shop, "greeting"),
		}
	}
	content.Player = compilePlayer(coll.player)

	for _, raw := range coll.items {
		item := compileItem(raw)
		if _, exists := content.Catalog.Items[item.ID]; exists {
			content.dupes = append(content.dupes, "item "+item.ID)
		}
		content.Catalog.Items[item.ID] = item
	}
	for _, raw := range coll.npcs {
		npc := compileNPC(raw)
		if _, exists := content.Catalog.NPCs[npc.ID]; exists {
			content.dupes = append(content.dupes, "npc "+npc.ID)
		}
		content.Catalog.NPCs[npc.ID] = npc
	}
	return content, nil
}
