package renderer

import (
	"fmt"
	"strings"

	"github.com/flowerbug/bcgt"
)

// LotsMarkdown renders the open lots of a store as a markdown table, one row
// per lot in canonical order, with a basis total.
func LotsMarkdown(s *bcgt.Store) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Open Lots\n\n")
	if s.Len() == 0 {
		fmt.Fprintln(&b, "No open lots.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Shares | Unit Cost | Acquired | Label | Basis |")
	fmt.Fprintln(&b, "|:---|---:|---:|:---|:---|---:|")

	var total bcgt.Money
	for lot := range s.All() {
		basis := lot.Basis()
		total = total.Add(basis)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			lot.Symbol,
			lot.Quantity,
			lot.UnitCost.TrimmedString(),
			lot.AcquisitionDate,
			lot.Label,
			basis.TrimmedString(),
		)
	}
	fmt.Fprintf(&b, "\nTotal basis: %s %s\n", total.TrimmedString(), total.Currency())
	return b.String()
}
