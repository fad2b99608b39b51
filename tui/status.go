package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/session"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// npcDisplayName derives a human-readable name from an NPC id when the
// catalog has no profile. "old_garrick" -> "Old Garrick".
func npcDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// trading partner, mode, cart total, gold and turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.Session

	left := " No trade"
	if s.Status != types.StatusIdle && s.NPCID != "" {
		name := npcDisplayName(s.NPCID)
		if npc := m.content.Catalog.Profile(s.NPCID); npc != nil {
			name = npc.Name
		}
		left = fmt.Sprintf(" %s | %s | %s", name, s.Mode, s.Status)
		if total := session.CartTotal(&s); total > 0 {
			left += fmt.Sprintf(" | cart %d gold", total)
		}
	}

	right := fmt.Sprintf("Gold: %d | T:%d ", m.engine.Ledger.Gold, s.TurnID)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
