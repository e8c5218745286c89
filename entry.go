package bcgt

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostSpec is the cost-basis annotation attached to a posting that moves a
// lot: the lot's unit cost, acquisition date and label.
type CostSpec struct {
	Unit  Money
	Date  Date
	Label string
}

// Posting is one line of an entry group: an account, a signed amount of a
// commodity (an instrument symbol or a currency code), an optional cost-basis
// annotation and an optional unit price.
type Posting struct {
	Account   string
	Amount    Quantity
	Commodity string
	Cost      *CostSpec
	Price     *Money
}

// weight is the posting's at-cost value, the quantity that must balance to
// zero across a group. A posting carrying a cost annotation weighs its amount
// times the unit cost; a plain posting weighs its face amount.
func (p Posting) weight() (decimal.Decimal, string) {
	if p.Cost != nil {
		return p.Cost.Unit.Mul(p.Amount).Amount(), p.Cost.Unit.Currency()
	}
	return p.Amount.value, p.Commodity
}

// Entry is one dated, balanced group of postings, ready to be rendered and
// appended to the persisted ledger.
type Entry struct {
	Date        Date
	Description string
	Basis       Money // consumed basis, recorded as metadata on sales
	Postings    []Posting
}

// balanceTolerance absorbs the residue of non-terminating divisions, such as
// the unit cost of a 3-for-2 split, when checking the balance invariant.
var balanceTolerance = decimal.New(1, -10)

// CheckBalance verifies the double-entry invariant: per currency, the at-cost
// weights of the group's postings sum to zero, within rounding tolerance.
func (e Entry) CheckBalance() error {
	sums := make(map[string]decimal.Decimal)
	for _, p := range e.Postings {
		w, cur := p.weight()
		sums[cur] = sums[cur].Add(w)
	}
	for cur, sum := range sums {
		if sum.Abs().GreaterThan(balanceTolerance) {
			return fmt.Errorf("entry %q does not balance: %s %s left over", e.Description, sum, cur)
		}
	}
	return nil
}

// EmitterConfig holds the formatting configuration for the entry emitter: the
// currency and the account-name templates of the operator's account
// hierarchy. It is threaded explicitly into every emit call so the engine can
// serve sessions with different hierarchies.
type EmitterConfig struct {
	Currency   string
	AssetsRoot string // prefix for per-symbol holding accounts
	IncomeRoot string // prefix for per-symbol gain/loss accounts
	FeesRoot   string // expense account for fees, per-symbol leaf appended
	EquityFees string // contra account balancing fee expenses
	Cash       string // money-market account receiving proceeds and paying costs
}

func (c EmitterConfig) assetAccount(symbol string) string  { return c.AssetsRoot + symbol }
func (c EmitterConfig) incomeAccount(symbol string) string { return c.IncomeRoot + symbol }
func (c EmitterConfig) feesAccount(symbol string) string   { return c.FeesRoot + ":" + symbol }

// BuyEntry renders the acquisition of a lot as one balanced entry group: the
// holding account receives the lot at cost, the cash account pays for it.
func (c EmitterConfig) BuyEntry(lot Lot, policy OrderPolicy) Entry {
	total := lot.Basis()
	return Entry{
		Date: lot.AcquisitionDate,
		Description: fmt.Sprintf("Bought %s %s @ %s  %s  (LOT %s)",
			lot.Quantity, lot.Symbol, lot.UnitCost.TrimmedString(), policy, lot.Label),
		Postings: []Posting{
			{
				Account:   c.assetAccount(lot.Symbol),
				Amount:    lot.Quantity,
				Commodity: lot.Symbol,
				Cost:      &CostSpec{Unit: lot.UnitCost, Date: lot.AcquisitionDate, Label: lot.Label},
			},
			{
				Account:   c.Cash,
				Amount:    Q(total.Neg().Amount()),
				Commodity: c.Currency,
			},
		},
	}
}

// SaleEntries renders a sale allocation as one entry group per consumed lot:
// the holding reduction at its original cost and lot identity, the fee
// expense and its contra, the realized gain/loss, and the fee-net cash
// proceeds.
func (c EmitterConfig) SaleEntries(a *SaleAllocation) []Entry {
	entries := make([]Entry, 0, len(a.Slices))
	for _, slice := range a.Slices {
		lot := slice.Lot
		e := Entry{
			Date: a.Date,
			Description: fmt.Sprintf("Sold %s %s @ %s RegFee %s  %s  (LOT %s)",
				slice.Quantity, lot.Symbol, a.Price.TrimmedString(), slice.Fee.TrimmedString(), a.Policy, lot.Label),
			Basis: slice.Basis,
			Postings: []Posting{
				{
					Account:   c.assetAccount(lot.Symbol),
					Amount:    slice.Quantity.Neg(),
					Commodity: lot.Symbol,
					Cost:      &CostSpec{Unit: lot.UnitCost, Date: lot.AcquisitionDate, Label: lot.Label},
					Price:     &a.Price,
				},
				{
					Account:   c.feesAccount(lot.Symbol),
					Amount:    Q(slice.Fee.Amount()),
					Commodity: c.Currency,
				},
				{
					Account:   c.EquityFees,
					Amount:    Q(slice.Fee.Neg().Amount()),
					Commodity: c.Currency,
				},
				{
					Account:   c.incomeAccount(lot.Symbol),
					Amount:    Q(slice.Gain.Amount()),
					Commodity: c.Currency,
				},
				{
					Account:   c.Cash,
					Amount:    Q(slice.Proceeds.Sub(slice.Fee).Amount()),
					Commodity: c.Currency,
				},
			},
		}
		entries = append(entries, e)
	}
	return entries
}

// SplitEntry renders a split adjustment as a single entry group holding, per
// adjusted lot, the full removal of the original lot and the re-addition of
// its replacement under the same label and date. The second return is false
// when the adjustment touched no lots.
func (c EmitterConfig) SplitEntry(adj *SplitAdjustment) (Entry, bool) {
	if len(adj.Lots) == 0 {
		return Entry{}, false
	}
	e := Entry{
		Date:        adj.Date,
		Description: fmt.Sprintf("Split %s %d FOR %d", adj.Symbol, adj.Numerator, adj.Denominator),
	}
	for _, pair := range adj.Lots {
		e.Postings = append(e.Postings,
			Posting{
				Account:   c.assetAccount(pair.Before.Symbol),
				Amount:    pair.Before.Quantity.Neg(),
				Commodity: pair.Before.Symbol,
				Cost:      &CostSpec{Unit: pair.Before.UnitCost, Date: pair.Before.AcquisitionDate, Label: pair.Before.Label},
			},
			Posting{
				Account:   c.assetAccount(pair.After.Symbol),
				Amount:    pair.After.Quantity,
				Commodity: pair.After.Symbol,
				Cost:      &CostSpec{Unit: pair.After.UnitCost, Date: pair.After.AcquisitionDate, Label: pair.After.Label},
			},
		)
	}
	return e, true
}
