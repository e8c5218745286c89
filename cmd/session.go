package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/flowerbug/bcgt"
	"github.com/flowerbug/bcgt/renderer"
	"github.com/google/subcommands"
)

type sessionCmd struct{}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "interactive buy/sell/split session" }
func (*sessionCmd) Usage() string {
	return `bcgt session

  Starts an interactive session: the open lots are listed, then operations
  are read one per line until done. Each operation is committed before the
  next prompt, so the listing always reflects the ledger.

    B <num> <sym> <price> [-b <date>] [-t <tag>]
    S <num> <sym> <price> [<fee>] [-b <date>]
    X <sym> <num> FOR <den> [-b <date>]
    D
`
}

func (c *sessionCmd) SetFlags(f *flag.FlagSet) {}

func (c *sessionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := runSession(cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// runSession drives the prompt loop. The store is reloaded before every
// prompt so the listing reflects what the previous operation committed.
func runSession(cfg Config, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Lots are sold in %s order by default.\n", cfg.OrderPolicy())
	scanner := bufio.NewScanner(in)

	for {
		books, err := openBooks(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderer.LotsMarkdown(books.Store))
		fmt.Fprintln(out, "(B)Buy, (S)Sell, (X)Split or (D)one")
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprintln(out, "Need correct input.")
			continue
		}

		verb := strings.ToUpper(line[:1])
		if verb == "D" {
			fmt.Fprintln(out, "Done.")
			return nil
		}

		entries, err := applySessionLine(books, verb, line)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}
		if err := commit(cfg, books, entries); err != nil {
			return err
		}
	}
}

// applySessionLine parses one operation line and applies it to the books.
func applySessionLine(books *bcgt.Books, verb, line string) ([]bcgt.Entry, error) {
	rest, day, tag, err := parseLineOptions(line)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(rest)[1:] // drop the verb

	switch verb {
	case "B":
		if len(fields) != 3 {
			return nil, fmt.Errorf("want B <num> <sym> <price>, got %q", line)
		}
		quantity, err := bcgt.ParseQuantity(fields[0])
		if err != nil {
			return nil, err
		}
		price, err := bcgt.ParseMoney(fields[2], books.Config.Currency)
		if err != nil {
			return nil, err
		}
		return books.Buy(bcgt.NewBuyOrder(day, strings.ToUpper(fields[1]), quantity, price, tag))

	case "S":
		if len(fields) != 3 && len(fields) != 4 {
			return nil, fmt.Errorf("want S <num> <sym> <price> [<regfee>], got %q", line)
		}
		quantity, err := bcgt.ParseQuantity(fields[0])
		if err != nil {
			return nil, err
		}
		price, err := bcgt.ParseMoney(fields[2], books.Config.Currency)
		if err != nil {
			return nil, err
		}
		fee := bcgt.M(0, books.Config.Currency)
		if len(fields) == 4 {
			if fee, err = bcgt.ParseMoney(fields[3], books.Config.Currency); err != nil {
				return nil, err
			}
		}
		return books.Sell(bcgt.NewSellOrder(day, strings.ToUpper(fields[1]), quantity, price, fee, books.Policy))

	case "X":
		if len(fields) != 4 || !strings.EqualFold(fields[2], "FOR") {
			return nil, fmt.Errorf("want X <sym> <num> FOR <den>, got %q", line)
		}
		num, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse split numerator: %w", err)
		}
		den, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse split denominator: %w", err)
		}
		return books.Split(bcgt.NewSplitOrder(day, strings.ToUpper(fields[0]), num, den))

	default:
		return nil, fmt.Errorf("unknown operation %q, want B, S, X or D", verb)
	}
}

// parseLineOptions strips the -b <date> and -t <tag> options off an operation
// line, returning the remaining positional part. Options are matched by name
// token by token, so values that themselves start with a dash ("-b -3d") parse fine.
func parseLineOptions(line string) (rest string, day bcgt.Date, tag string, err error) {
	day = bcgt.Today()
	fields := strings.Fields(line)
	kept := make([]string, 0, len(fields))

	for i := 0; i < len(fields); i++ {
		name := strings.ToLower(fields[i])
		if name != "-b" && name != "-t" {
			kept = append(kept, fields[i])
			continue
		}
		if i+1 == len(fields) {
			return "", bcgt.Date{}, "", fmt.Errorf("option %s wants a value", fields[i])
		}
		i++
		value := strings.Trim(fields[i], `"'`)
		if name == "-b" {
			if day, err = bcgt.ParseDate(value); err != nil {
				return "", bcgt.Date{}, "", err
			}
		} else {
			tag = value
		}
	}
	return strings.Join(kept, " "), day, tag, nil
}
