package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/save"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/loader"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/store"
)

// rawLine stores an unstyled output line with its classification, so we
// can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the trade TUI.
type Model struct {
	engine  *engine.Engine
	content *loader.Content
	db      *store.Store // nil falls back to file saves
	profile string

	viewport viewport.Model
	input    textinput.Model
	history  *inputLog

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
	saveDir  string

	lastInput       string
	lastFingerprint string
}

// tradeOutputMsg carries engine output into the Update loop.
type tradeOutputMsg struct {
	input    string // echoed player input (empty for the greeting)
	lines    []string
	isSystem bool
}

// New creates a TUI model wired to the given engine and content.
func New(eng *engine.Engine, content *loader.Content, db *store.Store, profile string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		engine:  eng,
		content: content,
		db:      db,
		profile: profile,
		input:   ti,
		history: newInputLog(100),
		saveDir: filepath.Join(home, ".tradesim", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, content *loader.Content, db *store.Store, profile string) error {
	m := New(eng, content, db, profile)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init produces the greeting.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.greeting())
}

func (m Model) greeting() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		if m.content.Shop.Title != "" {
			lines = append(lines, m.content.Shop.Title)
		}
		if m.content.Shop.Greeting != "" {
			lines = append(lines, m.content.Shop.Greeting)
		}
		lines = append(lines, "Type /help for commands.")
		return tradeOutputMsg{lines: lines}
	}
}

// Update handles key presses, window resizes and engine output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if line, ok := m.history.older(); ok {
				m.input.SetValue(line)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if line, ok := m.history.newer(); ok {
				m.input.SetValue(line)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tradeOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}

	m.history.record(input)

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(tradeOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.lastInput = input
	m.lastFingerprint = uuid.NewString()
	m = m.appendOutput(tradeOutputMsg{input: input, lines: m.runStep(input, m.lastFingerprint)})
	return m, nil
}

// runStep runs one conversational turn, persisting executed
// transactions when a store is attached.
func (m *Model) runStep(input, fingerprint string) []string {
	res := m.engine.Step(input, fingerprint)
	if res.Executed != nil && m.db != nil {
		if tx := m.engine.Log.Last(); tx != nil {
			if err := m.db.RecordTransaction(m.profile, *tx); err != nil {
				return append(res.Lines, fmt.Sprintf("Recording transaction failed: %v", err))
			}
		}
	}
	return res.Lines
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg tradeOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit within width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0
	for i, word := range words {
		wLen := len(word)
		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}
		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return result.String()
}

// View renders the full layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/trade":
		return m.cmdTrade(args), false

	case "/buy":
		return m.cmdBuy(args), false

	case "/cart":
		return m.engine.BuildRecap(), false

	case "/gold":
		return []string{fmt.Sprintf("Gold: %d", m.engine.Ledger.Gold)}, false

	case "/log":
		return m.cmdLog(), false

	case "/replay":
		if m.lastInput == "" {
			return []string{"Nothing to replay."}, false
		}
		lines := []string{fmt.Sprintf("Replaying %q with the same fingerprint.", m.lastInput)}
		return append(lines, m.runStep(m.lastInput, m.lastFingerprint)...), false

	case "/reset":
		m.engine.ResetToIdle()
		return []string{"Session reset."}, false

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdTrade(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: /trade <npc> [sell|buy|barter]"}
	}
	npcID := args[0]
	mode := "sell"
	if len(args) > 1 {
		mode = args[1]
	}
	m.engine.StartTrade(npcID, mode)

	name := npcDisplayName(npcID)
	if npc := m.content.Catalog.Profile(npcID); npc != nil {
		name = npc.Name
	}
	return []string{
		fmt.Sprintf("%s sizes you up.", name),
		fmt.Sprintf("Trading (%s). Say what you want to sell, or /buy <item> [qty].", mode),
	}
}

func (m *Model) cmdBuy(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: /buy <item> [qty]"}
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return []string{fmt.Sprintf("Bad quantity %q.", args[1])}
		}
		qty = n
	}
	if err := m.engine.PrepareBuy(args[0], qty); err != nil {
		return []string{err.Error()}
	}
	return m.engine.BuildRecap()
}

func (m *Model) cmdLog() []string {
	txs := m.engine.Log.Tail(10)
	if len(txs) == 0 {
		return []string{"No transactions yet."}
	}
	var lines []string
	for _, tx := range txs {
		line := fmt.Sprintf("%s  %s %s", tx.TransactionID, tx.Status, tx.Mode)
		if tx.OK {
			line += fmt.Sprintf("  gold %+d", tx.GoldDelta)
		} else if tx.Reason != "" {
			line += "  " + tx.Reason
		}
		lines = append(lines, line)
	}
	return lines
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = m.profile
	}
	data, err := save.Encode(save.Snapshot(m.engine))
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if m.db != nil {
		if err := m.db.SaveProfile(name, data); err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}
		}
		return []string{fmt.Sprintf("Saved profile %s.", name)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = m.profile
	}

	var data []byte
	var err error
	if m.db != nil {
		data, err = m.db.LoadProfile(name)
	} else {
		data, err = os.ReadFile(filepath.Join(m.saveDir, name+".json"))
	}
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	d, err := save.Decode(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	save.Apply(m.engine, d)
	return []string{fmt.Sprintf("Loaded profile %s (gold %d).", name, m.engine.Ledger.Gold)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]   — Save the profile",
		"  /load [name]   — Load a profile",
		"  /quit          — Exit",
		"  /help          — Show this help",
		"",
		"Trading:",
		"  /trade <npc> [mode]  — Approach a trader (sell, buy or barter)",
		"  /buy <item> [qty]    — Stage a purchase",
		"  /cart                — Show the cart recap",
		"  /gold                — Show your gold",
		"  /log                 — Show recent transactions",
		"  /replay              — Re-send the last message (same fingerprint)",
		"  /reset               — Discard the session",
		"",
		"Anything else is said to the trader.",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
