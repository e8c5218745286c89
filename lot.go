package bcgt

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Lot represents a discrete acquisition of a quantity of one instrument at one
// unit cost and date, tracked individually for cost-basis purposes.
//
// Quantity and UnitCost are always positive while the lot is open; a lot whose
// quantity reaches zero is removed from the store, never retained.
type Lot struct {
	Symbol          string   `json:"symbol"`
	Quantity        Quantity `json:"quantity"`
	UnitCost        Money    `json:"cost"`
	AcquisitionDate Date     `json:"date"`
	Label           string   `json:"label"`
}

// Basis returns quantity times unit cost, the cost used to compute realized
// gain on disposal.
func (l Lot) Basis() Money { return l.UnitCost.Mul(l.Quantity) }

// orderKey is the composite secondary sort key: acquisition date concatenated
// with label. Ascending order of this key is FIFO; the same key under a
// descending comparison is LIFO.
func (l Lot) orderKey() string { return l.AcquisitionDate.String() + l.Label }

// sameIdentity reports whether o refers to the same open lot. A lot is
// identified by symbol, acquisition date and label.
func (l Lot) sameIdentity(o Lot) bool {
	return l.Symbol == o.Symbol && l.AcquisitionDate == o.AcquisitionDate && l.Label == o.Label
}

// MarshalJSON implements the json.Marshaler interface for Lot with a stable
// field order.
func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", l.Symbol)
	w.Append("quantity", l.Quantity)
	w.Append("cost", l.UnitCost.Amount())
	w.Optional("currency", l.UnitCost.Currency())
	w.Append("date", l.AcquisitionDate)
	w.Append("label", l.Label)
	return w.MarshalJSON()
}

// OrderPolicy selects the lot consumption ordering for sales.
type OrderPolicy int

const (
	// FIFO consumes the oldest lots first.
	FIFO OrderPolicy = iota
	// LIFO consumes the most recently acquired lots first.
	LIFO
)

func (p OrderPolicy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return "unknown"
	}
}

// ParseOrderPolicy parses a string into an OrderPolicy.
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	switch strings.ToLower(s) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown lot order policy: %q", s)
	}
}

// Store is the canonical ordered sequence of open lots for a session. It is
// kept sorted by (lower-cased symbol, acquisition date + label ascending) at
// all times, so any view of it presents each symbol as one contiguous run.
//
// The store is owned exclusively by the current session and is never accessed
// concurrently.
type Store struct {
	lots []Lot
}

// NewStore creates a store from the given lots, establishing the canonical
// sort order.
func NewStore(lots ...Lot) *Store {
	s := &Store{lots: append([]Lot(nil), lots...)}
	s.sortCanonical()
	return s
}

func (s *Store) sortCanonical() {
	sort.SliceStable(s.lots, func(i, j int) bool {
		a, b := s.lots[i], s.lots[j]
		sa, sb := strings.ToLower(a.Symbol), strings.ToLower(b.Symbol)
		if sa != sb {
			return sa < sb
		}
		return a.orderKey() < b.orderKey()
	})
}

// Len returns the number of open lots.
func (s *Store) Len() int { return len(s.lots) }

// All iterates over the open lots in canonical order.
func (s *Store) All() iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		for _, l := range s.lots {
			if !yield(l) {
				return
			}
		}
	}
}

// Add inserts a new lot, keeping the canonical order.
func (s *Store) Add(lot Lot) {
	s.lots = append(s.lots, lot)
	s.sortCanonical()
}

// SaleView returns a projection of the store ordered for lot consumption
// under the given policy: symbols ascending, and within a symbol the
// date+label key ascending for FIFO or descending for LIFO.
//
// The projection is computed fresh from the canonical store on every call, so
// it can never drift from the store after a mutation.
func (s *Store) SaleView(policy OrderPolicy) []Lot {
	view := append([]Lot(nil), s.lots...)
	if policy == LIFO {
		sort.SliceStable(view, func(i, j int) bool {
			a, b := view[i], view[j]
			sa, sb := strings.ToLower(a.Symbol), strings.ToLower(b.Symbol)
			if sa != sb {
				return sa < sb
			}
			return a.orderKey() > b.orderKey()
		})
	}
	return view
}

// SplitView returns a projection in strict date-ascending order within each
// symbol, regardless of the active sale policy. Splits must process
// oldest-eligible lots first to preserve proration correctness.
func (s *Store) SplitView() []Lot {
	return append([]Lot(nil), s.lots...)
}

// debit reduces the identified lot by qty; a lot reaching zero is removed
// from the store. It returns false when no such lot exists.
func (s *Store) debit(lot Lot, qty Quantity) bool {
	for i := range s.lots {
		if !s.lots[i].sameIdentity(lot) {
			continue
		}
		s.lots[i].Quantity = s.lots[i].Quantity.Sub(qty)
		if !s.lots[i].Quantity.IsPositive() {
			s.lots = append(s.lots[:i], s.lots[i+1:]...)
		}
		return true
	}
	return false
}

// replace swaps the identified lot for its split replacement. The replacement
// carries the same symbol, date and label, so the canonical order is
// unaffected.
func (s *Store) replace(orig, repl Lot) bool {
	for i := range s.lots {
		if s.lots[i].sameIdentity(orig) {
			s.lots[i] = repl
			return true
		}
	}
	return false
}

// Run is the working set for a single Sell or Split operation: the maximal
// contiguous span of same-symbol lots within a view, and its total quantity.
type Run struct {
	Lots  []Lot
	Total Quantity
}

// SelectRun locates the run of lots for symbol within the given view. The
// symbol match is case-insensitive. It returns a NotFoundError when the
// symbol has no open lots.
//
// Because every view is sorted with symbol as the primary key, the run is the
// maximal span of adjacent matching entries; selection never spans a sort
// discontinuity.
func SelectRun(view []Lot, symbol string) (Run, error) {
	start := -1
	for i, l := range view {
		if strings.EqualFold(l.Symbol, symbol) {
			start = i
			break
		}
	}
	if start < 0 {
		return Run{}, &NotFoundError{Symbol: symbol}
	}

	end := start
	total := view[start].Quantity
	for end+1 < len(view) && strings.EqualFold(view[end+1].Symbol, view[start].Symbol) {
		end++
		total = total.Add(view[end].Quantity)
	}
	return Run{Lots: view[start : end+1], Total: total}, nil
}
