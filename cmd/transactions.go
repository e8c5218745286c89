package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/flowerbug/bcgt"
	"github.com/google/subcommands"
)

// runOperation loads the session, applies one operation and commits its
// outcome. op runs against the freshly loaded books.
func runOperation(op func(*bcgt.Books) ([]bcgt.Entry, error)) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	books, err := openBooks(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	entries, err := op(books)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := commit(cfg, books, entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseDateFlag turns the -d flag value into a Date, empty meaning today.
func parseDateFlag(s string) (bcgt.Date, error) {
	if s == "" {
		return bcgt.Today(), nil
	}
	return bcgt.ParseDate(s)
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	symbol   string
	quantity string
	price    string
	tag      string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares, opening a new tagged lot" }
func (*buyCmd) Usage() string {
	return `bcgt buy -s <symbol> -q <quantity> -p <price> [-d <date>] [-t <tag>]

  Purchases shares of a symbol, opening a new lot labeled symbol-date-tag.
  The acquisition entry is appended to the ledger and the lot recorded as open.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Acquisition date (YYYY-MM-DD or relative like -3d), defaults to today")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.tag, "t", "", "Lot tag, defaults to the wall-clock time")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity, err := bcgt.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	return runOperation(func(books *bcgt.Books) ([]bcgt.Entry, error) {
		price, err := bcgt.ParseMoney(c.price, books.Config.Currency)
		if err != nil {
			return nil, fmt.Errorf("could not parse price: %w", err)
		}
		return books.Buy(bcgt.NewBuyOrder(day, c.symbol, quantity, price, c.tag))
	})
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	symbol   string
	quantity string
	price    string
	fee      string
	order    string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares against open lots" }
func (*sellCmd) Usage() string {
	return `bcgt sell -s <symbol> -q <quantity> -p <price> [-f <fee>] [-d <date>] [-o fifo|lifo]

  Sells shares against the open lots of a symbol, oldest lots first under
  fifo, newest first under lifo. A quantity larger than the open position
  sells everything. The fee is prorated over the consumed lots. One entry
  group per consumed lot is appended to the ledger.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Sale date (YYYY-MM-DD or relative like -3d), defaults to today")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares, more than held sells all")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.fee, "f", "0", "Aggregate regulatory fee for the sale")
	f.StringVar(&c.order, "o", "", "Lot consumption order (fifo or lifo), defaults to the configured policy")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity, err := bcgt.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	return runOperation(func(books *bcgt.Books) ([]bcgt.Entry, error) {
		price, err := bcgt.ParseMoney(c.price, books.Config.Currency)
		if err != nil {
			return nil, fmt.Errorf("could not parse price: %w", err)
		}
		fee, err := bcgt.ParseMoney(c.fee, books.Config.Currency)
		if err != nil {
			return nil, fmt.Errorf("could not parse fee: %w", err)
		}
		policy := books.Policy
		if c.order != "" {
			policy, err = bcgt.ParseOrderPolicy(c.order)
			if err != nil {
				return nil, err
			}
		}
		return books.Sell(bcgt.NewSellOrder(day, c.symbol, quantity, price, fee, policy))
	})
}

// --- Split Command ---

type splitCmd struct {
	date        string
	symbol      string
	numerator   int64
	denominator int64
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "apply a stock split to the open lots of a symbol" }
func (*splitCmd) Usage() string {
	return `bcgt split -s <symbol> -n <numerator> -m <denominator> [-d <date>]

  Applies a numerator-for-denominator split to every open lot of the symbol
  acquired strictly before the date. Share counts are multiplied by the
  ratio, unit costs by its inverse, so each lot's basis is unchanged.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Split date (YYYY-MM-DD or relative like -3d), defaults to today")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol")
	f.Int64Var(&c.numerator, "n", 0, "Split ratio numerator (the 2 of a 2-for-1)")
	f.Int64Var(&c.denominator, "m", 0, "Split ratio denominator (the 1 of a 2-for-1)")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.numerator <= 0 || c.denominator <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return runOperation(func(books *bcgt.Books) ([]bcgt.Entry, error) {
		return books.Split(bcgt.NewSplitOrder(day, c.symbol, c.numerator, c.denominator))
	})
}
