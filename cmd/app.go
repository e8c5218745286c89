// Package cmd implements the CLI application to manage tax lots and generate
// ledger entries.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/flowerbug/bcgt"
	"github.com/flowerbug/bcgt/renderer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&splitCmd{}, "transactions")
	c.Register(&sessionCmd{}, "transactions")

	c.Register(&lotsCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "bcgt.yaml", "Path to the YAML configuration file")
var lotsFile = flag.String("lots-file", "", "Path to the open lots file (JSONL format), overrides the config")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file entries are appended to, overrides the config")

// appConfig loads the configuration and applies the command line overrides.
func appConfig() (Config, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if *lotsFile != "" {
		cfg.LotsFile = *lotsFile
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	return cfg, nil
}

// DecodeStore loads the open lots from the configured lots file.
func DecodeStore(cfg Config) (*bcgt.Store, error) {
	f, err := os.Open(cfg.LotsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, lots file does not exist, starting with no open lots")
		return bcgt.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open lots file %q: %w", cfg.LotsFile, err)
	}
	defer f.Close()

	store, err := bcgt.DecodeLots(f)
	if err != nil {
		return nil, fmt.Errorf("could not load lots file %q: %w", cfg.LotsFile, err)
	}
	return store, nil
}

// openBooks loads the store and binds it into a session.
func openBooks(cfg Config) (*bcgt.Books, error) {
	store, err := DecodeStore(cfg)
	if err != nil {
		return nil, err
	}
	return bcgt.NewBooks(store, cfg.EmitterConfig(), cfg.OrderPolicy())
}

// commit persists the outcome of one operation: the rendered entry groups are
// appended to the ledger file, then the lots file is rewritten from the
// mutated store. Appending first means a crash between the two writes leaves
// the ledger complete and the lots file stale, which a re-run of the lots
// rewrite repairs.
func commit(cfg Config, books *bcgt.Books, entries []bcgt.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := e.CheckBalance(); err != nil {
			return fmt.Errorf("refusing to write an unbalanced entry: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.LedgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open ledger file %q: %w", cfg.LedgerFile, err)
	}
	defer f.Close()
	if _, err := f.WriteString(renderer.Entries(entries)); err != nil {
		return fmt.Errorf("could not append to ledger file %q: %w", cfg.LedgerFile, err)
	}

	lots, err := os.Create(cfg.LotsFile)
	if err != nil {
		return fmt.Errorf("could not rewrite lots file %q: %w", cfg.LotsFile, err)
	}
	defer lots.Close()
	if err := bcgt.EncodeLots(lots, books.Store); err != nil {
		return fmt.Errorf("could not write lots file %q: %w", cfg.LotsFile, err)
	}

	fmt.Printf("Appended %d entry group(s) to %s\n", len(entries), cfg.LedgerFile)
	return nil
}
