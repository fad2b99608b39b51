package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Shop { title = "...", greeting = "..." }
	L.SetGlobal("Shop", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.shop = tbl
		return 0
	}))

	// Player { gold = 100, carried_slots = 10, storage_slots = 20, items = {...} }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.player = tbl
		return 0
	}))

	// Item "id" { ... } — curried: Item("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Npc "id" { ... } — curried.
	L.SetGlobal("Npc", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}
