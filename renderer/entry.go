// Package renderer turns engine results into operator-facing text: entry
// groups as beancount-style directives, and open lots as markdown tables.
package renderer

import (
	"fmt"
	"strings"

	"github.com/flowerbug/bcgt"
)

// Entry renders one entry group as a beancount-style directive: the dated
// description line, the basis metadata when the group consumed basis, and one
// posting line per leg.
func Entry(e bcgt.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s * %q\n", e.Date, e.Description)
	if !e.Basis.IsZero() {
		fmt.Fprintf(&b, "  basis: %q\n", e.Basis.TrimmedString())
	}
	for _, p := range e.Postings {
		b.WriteString(posting(p))
		b.WriteByte('\n')
	}
	return b.String()
}

// Entries renders a sequence of entry groups separated by blank lines, ready
// to be appended to the ledger file.
func Entries(entries []bcgt.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(Entry(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// posting renders one posting line: the account, the signed amount and its
// commodity, then the cost annotation holding the lot identity and the unit
// price when the leg carries them.
func posting(p bcgt.Posting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s    %s %s", p.Account, amount(p), p.Commodity)
	if p.Cost != nil {
		fmt.Fprintf(&b, " {%s %s, %s, %q}",
			p.Cost.Unit.TrimmedString(), p.Cost.Unit.Currency(), p.Cost.Date, p.Cost.Label)
	}
	if p.Price != nil {
		fmt.Fprintf(&b, " @ %s %s", p.Price.TrimmedString(), p.Price.Currency())
	}
	return b.String()
}

// amount formats the posting amount: currency legs get money formatting with
// grouping and conventional decimals, instrument legs keep their bare share
// count.
func amount(p bcgt.Posting) string {
	if p.Cost == nil && bcgt.ValidateCurrency(p.Commodity) == nil {
		return bcgt.M(p.Amount.Decimal(), p.Commodity).TrimmedString()
	}
	return p.Amount.String()
}
