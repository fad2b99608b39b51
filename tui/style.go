package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleRecap = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleQuestion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleGold = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindRecap
	kindQuestion
	kindSystem
	kindError
	kindGold
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "How many"), strings.HasPrefix(line, "  "):
		return kindQuestion
	case strings.Contains(line, " x ") && strings.Contains(line, "gold"),
		strings.HasPrefix(line, "Total:"):
		return kindRecap
	case strings.HasPrefix(line, "Gold:"):
		return kindGold
	case strings.HasPrefix(line, "Trade failed"),
		strings.HasPrefix(line, "Nothing you carry"),
		strings.HasPrefix(line, "unknown item"):
		return kindError
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindRecap:
		return styleRecap.Render(line)
	case kindQuestion:
		return styleQuestion.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindGold:
		return styleGold.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
