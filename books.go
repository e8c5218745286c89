package bcgt

import (
	"fmt"
	"log"
	"regexp"
)

var currencyRE = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a string is a plausible ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if !currencyRE.MatchString(code) {
		return fmt.Errorf("invalid currency code %q, want 3 uppercase letters", code)
	}
	return nil
}

// Books binds a lot store to the formatting configuration of one session. It
// is the single entry point the operator-facing collaborators use: each
// operation validates its request, commits its store mutation, and returns
// the entry groups to be appended to the persisted ledger.
//
// Operations are strictly sequential; no operation begins before the previous
// one's mutation and emission have completed, and nothing here is retried.
type Books struct {
	Store  *Store
	Config EmitterConfig
	Policy OrderPolicy // lot consumption order for sales
}

// NewBooks creates a session over the given store.
func NewBooks(store *Store, config EmitterConfig, policy OrderPolicy) (*Books, error) {
	if err := ValidateCurrency(config.Currency); err != nil {
		return nil, fmt.Errorf("invalid session currency: %w", err)
	}
	if store == nil {
		store = NewStore()
	}
	return &Books{Store: store, Config: config, Policy: policy}, nil
}

// Buy validates the request, opens a new lot in the store and returns the
// acquisition entry group.
func (b *Books) Buy(o BuyOrder) ([]Entry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	lot := Lot{
		Symbol:          o.Symbol,
		Quantity:        o.Quantity,
		UnitCost:        M(o.Price.Amount(), b.Config.Currency),
		AcquisitionDate: o.Date,
		Label:           o.Label(),
	}
	for existing := range b.Store.All() {
		if existing.sameIdentity(lot) {
			return nil, validationf("lot label %q already open for %s, use a distinct tag", lot.Label, lot.Symbol)
		}
	}
	b.Store.Add(lot)
	log.Printf("%s: buy %s %s @ %s (%s)", o.Date, o.Quantity, o.Symbol, o.Price.Amount(), o.ID)

	return []Entry{b.Config.BuyEntry(lot, b.Policy)}, nil
}

// Sell validates the request, allocates it across the open lots under the
// request's order policy, commits the store mutation and returns one entry
// group per consumed lot.
func (b *Books) Sell(o SellOrder) ([]Entry, error) {
	alloc, err := b.Store.Sell(o)
	if err != nil {
		return nil, err
	}
	if alloc.Clamped {
		log.Printf("%s: sell of %s %s clamped to the %s available (%s)",
			o.Date, o.Quantity, alloc.Symbol, alloc.Sold, o.ID)
	} else {
		log.Printf("%s: sell %s %s @ %s (%s)", o.Date, alloc.Sold, alloc.Symbol, o.Price.Amount(), o.ID)
	}
	return b.Config.SaleEntries(alloc), nil
}

// Split validates the request, adjusts the eligible lots and returns the
// split entry group. A split that touches no lot returns no entries and no
// error; the condition is logged by the adjuster.
func (b *Books) Split(o SplitOrder) ([]Entry, error) {
	adj, err := b.Store.Split(o)
	if err != nil {
		return nil, err
	}
	entry, ok := b.Config.SplitEntry(adj)
	if !ok {
		return nil, nil
	}
	log.Printf("%s: split %s %d for %d over %d lots (%s)",
		o.Date, adj.Symbol, adj.Numerator, adj.Denominator, len(adj.Lots), o.ID)
	return []Entry{entry}, nil
}
