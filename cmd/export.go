package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/flowerbug/bcgt"
	"github.com/google/subcommands"
)

type exportCmd struct {
	lotsOut     string
	accountsOut string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the open lots and accounts as CSV tables" }
func (*exportCmd) Usage() string {
	return `bcgt export [-lots <file>] [-accounts <file>]

  Writes CSV tables for spreadsheet use: the open lots with their basis, and
  the configured account hierarchy with its attributes. A file of "-" writes
  to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lotsOut, "lots", "", "CSV file to write the open lots table to")
	f.StringVar(&c.accountsOut, "accounts", "", "CSV file to write the accounts table to")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.lotsOut == "" && c.accountsOut == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := appConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.lotsOut != "" {
		store, err := DecodeStore(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := writeCSV(c.lotsOut, lotsTable(store)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if c.accountsOut != "" {
		if err := writeCSV(c.accountsOut, accountsTable(cfg.AccountTree())); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// lotsTable builds the CSV rows of the open lots, one per lot in canonical
// order.
func lotsTable(s *bcgt.Store) [][]string {
	rows := [][]string{{"symbol", "quantity", "unit_cost", "currency", "date", "label", "basis"}}
	for lot := range s.All() {
		rows = append(rows, []string{
			lot.Symbol,
			lot.Quantity.String(),
			lot.UnitCost.Amount().String(),
			lot.UnitCost.Currency(),
			lot.AcquisitionDate.String(),
			lot.Label,
			lot.Basis().Amount().String(),
		})
	}
	return rows
}

// accountsTable builds the CSV rows of the configured account hierarchy with
// the attributes the tree resolves for each account.
func accountsTable(tree *bcgt.AccountTree) [][]string {
	rows := [][]string{{"account", "short_name", "kind", "currency"}}
	accounts := tree.Accounts()
	sort.Strings(accounts)
	for _, account := range accounts {
		kind, _ := tree.Lookup(account, "kind")
		currency, _ := tree.Lookup(account, "currency")
		rows = append(rows, []string{account, tree.Abbreviate(account), kind, currency})
	}
	return rows
}

// writeCSV writes the rows to the named file, "-" meaning stdout.
func writeCSV(filename string, rows [][]string) error {
	var f *os.File
	if filename == "-" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(filename)
		if err != nil {
			return fmt.Errorf("could not create %q: %w", filename, err)
		}
		defer f.Close()
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("could not write %q: %w", filename, err)
	}
	w.Flush()
	return w.Error()
}
