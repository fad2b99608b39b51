// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the trade engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/save"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/loader"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/store"
)

// CLI handles terminal interaction with the player. Each free-text
// message is sent with a fresh fingerprint; /replay re-sends the last
// message with the same fingerprint to demonstrate delivery dedupe.
type CLI struct {
	Engine  *engine.Engine
	Content *loader.Content
	Store   *store.Store // nil falls back to file saves
	Profile string
	In      io.Reader
	Out     io.Writer
	SaveDir string

	lastInput       string
	lastFingerprint string
}

// New creates a CLI wired to the given engine and content.
func New(eng *engine.Engine, content *loader.Content) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		Content: content,
		Profile: "default",
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".tradesim", "saves"),
	}
}

// Run starts the interaction loop: prompt, input, dispatch, output.
func (c *CLI) Run() {
	if c.Content.Shop.Title != "" {
		c.printLine(c.Content.Shop.Title)
	}
	if c.Content.Shop.Greeting != "" {
		c.printLine(c.Content.Shop.Greeting)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "#") {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		c.lastInput = input
		c.lastFingerprint = uuid.NewString()
		c.step(input, c.lastFingerprint)
	}
}

// step runs one conversational turn and prints its lines.
func (c *CLI) step(input, fingerprint string) {
	res := c.Engine.Step(input, fingerprint)
	for _, line := range res.Lines {
		c.printLine(line)
	}
	if res.Executed != nil && c.Store != nil {
		if tx := c.Engine.Log.Last(); tx != nil {
			if err := c.Store.RecordTransaction(c.Profile, *tx); err != nil {
				c.printSystem(fmt.Sprintf("Recording transaction failed: %v", err))
			}
		}
	}
}

// handleMeta dispatches meta-commands. Returns true when the program
// should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/trade":
		c.cmdTrade(args)

	case "/buy":
		c.cmdBuy(args)

	case "/cart":
		for _, line := range c.Engine.BuildRecap() {
			c.printLine(line)
		}

	case "/gold":
		c.printSystem(fmt.Sprintf("Gold: %d", c.Engine.Ledger.Gold))

	case "/log":
		c.cmdLog()

	case "/replay":
		if c.lastInput == "" {
			c.printSystem("Nothing to replay.")
			break
		}
		c.printSystem(fmt.Sprintf("Replaying %q with the same fingerprint.", c.lastInput))
		c.step(c.lastInput, c.lastFingerprint)

	case "/reset":
		c.Engine.ResetToIdle()
		c.printSystem("Session reset.")

	case "/save":
		c.cmdSave(first(args))

	case "/load":
		c.cmdLoad(first(args))

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func first(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func (c *CLI) cmdTrade(args []string) {
	if len(args) == 0 {
		c.printSystem("Usage: /trade <npc> [sell|buy|barter]")
		return
	}
	npcID := args[0]
	mode := "sell"
	if len(args) > 1 {
		mode = args[1]
	}
	c.Engine.StartTrade(npcID, mode)
	if npc := c.Content.Catalog.Profile(npcID); npc != nil {
		c.printLine(fmt.Sprintf("%s sizes you up.", npc.Name))
	} else {
		c.printLine(fmt.Sprintf("You approach %s.", npcID))
	}
	c.printLine(fmt.Sprintf("Trading (%s). Say what you want to sell, or /buy <item> [qty].", mode))
}

func (c *CLI) cmdBuy(args []string) {
	if len(args) == 0 {
		c.printSystem("Usage: /buy <item> [qty]")
		return
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			c.printSystem(fmt.Sprintf("Bad quantity %q.", args[1]))
			return
		}
		qty = n
	}
	if err := c.Engine.PrepareBuy(args[0], qty); err != nil {
		c.printSystem(err.Error())
		return
	}
	for _, line := range c.Engine.BuildRecap() {
		c.printLine(line)
	}
}

func (c *CLI) cmdLog() {
	txs := c.Engine.Log.Tail(10)
	if len(txs) == 0 {
		c.printSystem("No transactions yet.")
		return
	}
	for _, tx := range txs {
		line := fmt.Sprintf("%s  %s %s", tx.TransactionID, tx.Status, tx.Mode)
		if tx.OK {
			line += fmt.Sprintf("  gold %+d", tx.GoldDelta)
		} else if tx.Reason != "" {
			line += "  " + tx.Reason
		}
		c.printLine(line)
	}
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = c.Profile
	}
	data, err := save.Encode(save.Snapshot(c.Engine))
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if c.Store != nil {
		if err := c.Store.SaveProfile(name, data); err != nil {
			c.printSystem(fmt.Sprintf("Save failed: %v", err))
			return
		}
		c.printSystem(fmt.Sprintf("Saved profile %s.", name))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = c.Profile
	}

	var data []byte
	var err error
	if c.Store != nil {
		data, err = c.Store.LoadProfile(name)
	} else {
		data, err = os.ReadFile(filepath.Join(c.SaveDir, name+".json"))
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	d, err := save.Decode(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	save.Apply(c.Engine, d)
	c.printSystem(fmt.Sprintf("Loaded profile %s (gold %d).", name, c.Engine.Ledger.Gold))
}

func (c *CLI) cmdHelp() {
	help := []string{
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
		"Anything else is said to the trader: e.g. 'I want to sell my swords',",
		"then 'deal' and 'yes' to close.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
