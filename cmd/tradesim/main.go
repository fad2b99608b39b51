// Tradesim is a conversational trade simulator: free-text selling,
// haggling and buying against Lua-defined shop content.
// Usage: tradesim [--version] [--plain] [--profile <name>] [--db <path>] <shop_directory>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/cli"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/save"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/loader"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/store"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	profile := "default"
	var shopDir string
	var dbPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("tradesim %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--profile":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--profile requires a name\n")
				os.Exit(1)
			}
			i++
			profile = args[i]
		case "--db":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--db requires a file path\n")
				os.Exit(1)
			}
			i++
			dbPath = args[i]
		default:
			if shopDir == "" {
				shopDir = args[i]
			}
		}
	}

	if shopDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: tradesim [--version] [--plain] [--profile <name>] [--db <path>] <shop_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua shop content.
	content, err := loader.Load(shopDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading shop: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(content.Catalog, content.BuildLedger())

	var db *store.Store
	if dbPath != "" {
		db, err = store.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// Resume the profile's previous state when one exists.
		if data, err := db.LoadProfile(profile); err == nil {
			if d, err := save.Decode(data); err == nil {
				save.Apply(eng, d)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: ignoring corrupt profile %s: %v\n", profile, err)
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error reading profile: %v\n", err)
			os.Exit(1)
		}
	}

	if plain || !isTerminal() {
		c := cli.New(eng, content)
		c.Store = db
		c.Profile = profile
		c.Run()
		return
	}

	if err := tui.Run(eng, content, db, profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
