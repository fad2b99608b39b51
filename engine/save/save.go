// Package save serializes and restores the full trade state: session,
// ledger and transaction history. On load, missing or malformed sections
// come back as safe zero values rather than errors, and the session is
// re-normalized on the way in.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/txlog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// Version is the current save format version.
const Version = 1

// Data is the on-disk shape of a save.
type Data struct {
	Version int                 `json:"version"`
	Session types.TradeSession  `json:"session"`
	Ledger  *types.Ledger       `json:"ledger"`
	TxSeq   int                 `json:"tx_seq"`
	TxLog   []types.Transaction `json:"tx_log"`
}

// Snapshot captures the engine's current state.
func Snapshot(e *engine.Engine) Data {
	return Data{
		Version: Version,
		Session: e.ExportSession(),
		Ledger:  e.Ledger,
		TxSeq:   e.Log.Seq,
		TxLog:   e.Log.Entries,
	}
}

// Encode renders a save as indented JSON.
func Encode(d Data) ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return raw, nil
}

// hardenLedger replaces missing pieces with empty ones so later code
// never sees a nil grid.
func hardenLedger(l *types.Ledger) *types.Ledger {
	if l == nil {
		l = &types.Ledger{}
	}
	if l.Carried == nil {
		l.Carried = &types.Grid{}
	}
	if l.Storage == nil {
		l.Storage = &types.Grid{}
	}
	if l.Gold < 0 {
		l.Gold = 0
	}
	return l
}

// Decode parses a save and repairs whatever it can.
func Decode(raw []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decoding save: %w", err)
	}
	if d.Version == 0 {
		d.Version = Version
	}
	if d.Version > Version {
		return Data{}, fmt.Errorf("save version %d is newer than supported %d", d.Version, Version)
	}
	d.Ledger = hardenLedger(d.Ledger)
	session.Normalize(&d.Session)
	return d, nil
}

// Apply installs a decoded save into the engine.
func Apply(e *engine.Engine, d Data) {
	e.Ledger = hardenLedger(d.Ledger)
	e.LoadSession(d.Session)
	e.Log = txlog.Restore(d.TxSeq, d.TxLog)
}
