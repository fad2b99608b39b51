// Package txlog records every trade execution attempt, successful or
// not, in a bounded in-memory history.
package txlog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

const (
	historyCap   = 120
	maxTxItems   = 8
	maxReasonLen = 220
)

var spacesRe = regexp.MustCompile(`\s+`)

// Log is the append-only transaction history. Seq survives evictions:
// ids keep increasing even after old entries are dropped.
type Log struct {
	Seq     int
	Entries []types.Transaction
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Restore rebuilds a log from persisted state, repairing a sequence
// counter that lags behind the stored entries.
func Restore(seq int, entries []types.Transaction) *Log {
	if seq < len(entries) {
		seq = len(entries)
	}
	l := &Log{Seq: seq}
	if len(entries) > historyCap {
		entries = entries[len(entries)-historyCap:]
	}
	l.Entries = append(l.Entries, entries...)
	return l
}

func cleanReason(s string) string {
	s = spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if r := []rune(s); len(r) > maxReasonLen {
		return string(r[:maxReasonLen])
	}
	return s
}

// Append assigns the next sequential id, truncates the item summary to
// the first entries, and evicts the oldest record past the history cap.
// It returns the recorded transaction.
func (l *Log) Append(tx types.Transaction) types.Transaction {
	l.Seq++
	tx.TransactionID = fmt.Sprintf("tx_%06d", l.Seq)
	if len(tx.Items) > maxTxItems {
		tx.Items = tx.Items[:maxTxItems]
	}
	tx.Reason = cleanReason(tx.Reason)
	l.Entries = append(l.Entries, tx)
	if len(l.Entries) > historyCap {
		l.Entries = l.Entries[len(l.Entries)-historyCap:]
	}
	return tx
}

// Last returns the most recent entry, or nil when the log is empty.
func (l *Log) Last() *types.Transaction {
	if len(l.Entries) == 0 {
		return nil
	}
	return &l.Entries[len(l.Entries)-1]
}

// Tail returns up to n most recent entries, oldest first.
func (l *Log) Tail(n int) []types.Transaction {
	if n <= 0 || len(l.Entries) == 0 {
		return nil
	}
	if n > len(l.Entries) {
		n = len(l.Entries)
	}
	out := make([]types.Transaction, n)
	copy(out, l.Entries[len(l.Entries)-n:])
	return out
}
