// Package tui provides a Bubble Tea terminal UI for the trade engine.
package tui

// inputLog remembers recently submitted lines for up/down recall.
// Lines are held newest first; depth is how far back the player has
// browsed, with 0 meaning the live input line.
type inputLog struct {
	lines []string
	limit int
	depth int
}

func newInputLog(limit int) *inputLog {
	return &inputLog{limit: limit}
}

// record remembers a submitted line and drops back to the live input.
// Re-submitting the most recent line is not recorded twice.
func (l *inputLog) record(line string) {
	l.depth = 0
	if len(l.lines) > 0 && l.lines[0] == line {
		return
	}
	l.lines = append([]string{line}, l.lines...)
	if len(l.lines) > l.limit {
		l.lines = l.lines[:l.limit]
	}
}

// older steps one entry further into the past; false once the oldest
// entry has been reached.
func (l *inputLog) older() (string, bool) {
	if l.depth >= len(l.lines) {
		return "", false
	}
	l.depth++
	return l.lines[l.depth-1], true
}

// newer steps back toward the live input line; false means the caller
// should clear the input field.
func (l *inputLog) newer() (string, bool) {
	if l.depth <= 1 {
		l.depth = 0
		return "", false
	}
	l.depth--
	return l.lines[l.depth-1], true
}
