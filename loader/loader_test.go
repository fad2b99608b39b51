package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeShop writes Lua files into a temp dir and returns the dir.
func writeShop(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

const validShop = `
Shop {
    title = "The Rusty Scale",
    greeting = "What are you selling?",
}

Player {
    gold = 100,
    carried_slots = 10,
    storage_slots = 20,
    items = {
        { item_id = "apprentice_sword", qty = 8 },
    },
}

Item "apprentice_sword" {
    name = "Apprentice Sword",
    stack_max = 10,
    base_value = 10,
    rarity = "common",
}

Npc "garrick" {
    name = "Garrick",
    tension_level = 0,
}
`

func TestLoadValidShop(t *testing.T) {
	dir := writeShop(t, map[string]string{"shop.lua": validShop})
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if content.Shop.Title != "The Rusty Scale" {
		t.Errorf("Title = %q", content.Shop.Title)
	}
	item, ok := content.Catalog.LookupItem("apprentice_sword")
	if !ok {
		t.Fatal("apprentice_sword not in catalog")
	}
	if item.BaseValue != 10 || item.StackMax != 10 {
		t.Errorf("item = %+v", item)
	}
	if npc := content.Catalog.Profile("garrick"); npc == nil || npc.Name != "Garrick" {
		t.Errorf("Profile(garrick) = %+v", npc)
	}
	if content.Player.Gold != 100 || len(content.Player.Items) != 1 {
		t.Errorf("Player = %+v", content.Player)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := writeShop(t, map[string]string{"shop.lua": `
Item "pebble" {
    base_value = 1,
}
`})
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	item, _ := content.Catalog.LookupItem("pebble")
	if item.Name != "pebble" || item.StackMax != 1 || item.Rarity != "common" {
		t.Errorf("defaults not applied: %+v", item)
	}
	if content.Player.Gold != 100 || content.Player.CarriedSlots != 10 || content.Player.StorageSlots != 20 {
		t.Errorf("player defaults = %+v", content.Player)
	}
}

func TestLoadSplitAcrossFiles(t *testing.T) {
	dir := writeShop(t, map[string]string{
		"shop.lua":  `Shop { title = "Split Shop" }`,
		"items.lua": `Item "pebble" { base_value = 1 }`,
		"npcs.lua":  `Npc "garrick" { tension_level = 10 }`,
	})
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := content.Catalog.LookupItem("pebble"); !ok {
		t.Error("item from second file missing")
	}
	if content.Catalog.Profile("garrick") == nil {
		t.Error("npc from third file missing")
	}
}

func TestLoadRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			"duplicate item",
			`Item "pebble" { base_value = 1 }
			 Item "pebble" { base_value = 2 }`,
			"duplicate definition",
		},
		{
			"non-positive base value",
			`Item "pebble" { base_value = 0 }`,
			"base_value",
		},
		{
			"tension out of range",
			`Item "pebble" { base_value = 1 }
			 Npc "garrick" { tension_level = 400 }`,
			"tension_level",
		},
		{
			"unknown starting item",
			`Item "pebble" { base_value = 1 }
			 Player { items = { { item_id = "ghost", qty = 1 } } }`,
			"not in the catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeShop(t, map[string]string{"shop.lua": tt.src})
			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load accepted invalid content")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSandbox(t *testing.T) {
	dir := writeShop(t, map[string]string{"shop.lua": `dofile("/etc/passwd")`})
	if _, err := Load(dir); err == nil {
		t.Error("sandboxed VM executed dofile")
	}
}

func TestBuildLedger(t *testing.T) {
	dir := writeShop(t, map[string]string{"shop.lua": validShop})
	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	led := content.BuildLedger()
	if led.Gold != 100 {
		t.Errorf("Gold = %d, want 100", led.Gold)
	}
	if got := len(led.Carried.Slots); got != 10 {
		t.Errorf("carried slots = %d, want 10", got)
	}
	total := 0
	for _, s := range led.Carried.Slots {
		if s != nil {
			total += s.Qty
		}
	}
	if total != 8 {
		t.Errorf("starting swords = %d, want 8", total)
	}
}

func TestLoadEmptyDir(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("empty directory accepted")
	}
}
