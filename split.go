package bcgt

import "log"

// SplitLot pairs an eligible lot with its replacement.
type SplitLot struct {
	Before Lot
	After  Lot
}

// SplitAdjustment is the result of applying a split ratio to the eligible
// lots of a symbol. An adjustment with no lots means nothing was eligible;
// that condition is non-fatal and leaves the store untouched.
type SplitAdjustment struct {
	Symbol      string
	Date        Date
	Numerator   int64
	Denominator int64
	Lots        []SplitLot
}

// Split rewrites every lot of the requested symbol acquired strictly before
// the as-of date, multiplying quantity by numerator/denominator and unit cost
// by the inverse ratio. Total basis is preserved. The replacement keeps the
// original label and acquisition date.
//
// Eligibility is evaluated over the strict date-ascending view, so the
// eligible lots form a prefix of the run; iteration stops at the first lot
// acquired on or after the as-of date. Lots are processed in that ascending
// order.
func (s *Store) Split(o SplitOrder) (*SplitAdjustment, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	run, err := SelectRun(s.SplitView(), o.Symbol)
	if err != nil {
		return nil, err
	}

	adj := &SplitAdjustment{
		Symbol:      run.Lots[0].Symbol,
		Date:        o.Date,
		Numerator:   o.Numerator,
		Denominator: o.Denominator,
	}

	num, den := Q(o.Numerator), Q(o.Denominator)
	for _, lot := range run.Lots {
		if !lot.AcquisitionDate.Before(o.Date) {
			break
		}
		after := Lot{
			Symbol:          lot.Symbol,
			Quantity:        lot.Quantity.Mul(num).Div(den),
			UnitCost:        lot.UnitCost.Mul(den).Div(num),
			AcquisitionDate: lot.AcquisitionDate,
			Label:           lot.Label,
		}
		adj.Lots = append(adj.Lots, SplitLot{Before: lot, After: after})
	}

	if len(adj.Lots) == 0 {
		log.Printf("%s: no lots of %s acquired before the split date, nothing to split", o.Date, adj.Symbol)
		return adj, nil
	}

	for _, pair := range adj.Lots {
		s.replace(pair.Before, pair.After)
	}
	return adj, nil
}
