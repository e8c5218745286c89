package bcgt

// SaleSlice records the consumption of one lot (or part of it) by a sale:
// the quantity taken, the fee prorated onto it, and the realized amounts.
type SaleSlice struct {
	Lot      Lot      // the lot as it was before this sale
	Quantity Quantity // quantity consumed from the lot
	Fee      Money    // prorated fee, rounded half-even to 2 places
	Basis    Money    // unit cost * consumed quantity
	Proceeds Money    // sale price * consumed quantity
	Gain     Money    // -(proceeds - basis - fee), negated by convention
}

// SaleAllocation is the ephemeral result of allocating one sell request
// across a run of lots. It does not persist; it is immediately rendered into
// entries, the store mutation having already been applied.
type SaleAllocation struct {
	Symbol    string
	Date      Date
	Price     Money
	Fee       Money
	Policy    OrderPolicy
	Requested Quantity // quantity originally requested
	Sold      Quantity // quantity actually sold, after clamping
	Clamped   bool     // true when the request exceeded the open position
	Slices    []SaleSlice
}

// Sell consumes lots of the requested symbol in the order given by the
// request's policy, debiting the store, until the requested quantity is
// satisfied or the run is exhausted.
//
// A request for more than the total open quantity is clamped to the total:
// the engine never goes short, so an oversized request degrades to "sell
// everything" rather than failing.
//
// The fee is spread uniformly per unit over the post-clamp quantity. Each
// slice's share is rounded half-even to two places and charged against a
// running budget; a share that would overrun the budget is clamped to it, and
// any unspent remainder after full consumption is dropped, not reallocated.
func (s *Store) Sell(o SellOrder) (*SaleAllocation, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	run, err := SelectRun(s.SaleView(o.Policy), o.Symbol)
	if err != nil {
		return nil, err
	}

	alloc := &SaleAllocation{
		Symbol:    run.Lots[0].Symbol,
		Date:      o.Date,
		Price:     o.Price,
		Fee:       o.Fee,
		Policy:    o.Policy,
		Requested: o.Quantity,
		Sold:      o.Quantity,
	}
	if o.Quantity.GreaterThan(run.Total) {
		alloc.Sold = run.Total
		alloc.Clamped = true
	}

	perUnitFee := o.Fee.Div(alloc.Sold)
	feeBudget := o.Fee

	remaining := alloc.Sold
	for _, lot := range run.Lots {
		if remaining.IsZero() {
			break
		}
		slice := remaining.Min(lot.Quantity)

		thisFee := perUnitFee.Mul(slice).RoundBank(2)
		if thisFee.GreaterThan(feeBudget) {
			// Rounding drift must never make the fees overrun the total.
			thisFee = feeBudget
		}
		feeBudget = feeBudget.Sub(thisFee)

		basis := lot.UnitCost.Mul(slice)
		proceeds := o.Price.Mul(slice)
		gain := proceeds.Sub(basis).Sub(thisFee).Neg()

		alloc.Slices = append(alloc.Slices, SaleSlice{
			Lot:      lot,
			Quantity: slice,
			Fee:      thisFee,
			Basis:    basis,
			Proceeds: proceeds,
			Gain:     gain,
		})

		s.debit(lot, slice)
		remaining = remaining.Sub(slice)
	}
	// Any fee budget left here is dropped on purpose: with per-slice rounding
	// there is no specified rule to reallocate it to earlier slices.

	return alloc, nil
}
