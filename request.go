package bcgt

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind is a typed string for identifying operator requests.
type OperationKind string

// Operation kinds used for identifying requests.
const (
	OpBuy   OperationKind = "buy"
	OpSell  OperationKind = "sell"
	OpSplit OperationKind = "split"
)

// baseOrder carries the fields common to every operator request. Each request
// gets a unique id so that committed operations can be traced in the session
// log.
type baseOrder struct {
	ID   uuid.UUID
	Kind OperationKind
	Date Date // as-of date; zero means today.
}

// What returns the operation kind of the request.
func (o baseOrder) What() OperationKind { return o.Kind }

// When returns the as-of date of the request.
func (o baseOrder) When() Date { return o.Date }

// validate applies the base quick fix: a zero date resolves to today.
func (o *baseOrder) validate() {
	if o.Date.IsZero() {
		o.Date = Today()
	}
}

// BuyOrder requests the acquisition of a new lot.
type BuyOrder struct {
	baseOrder
	Symbol   string
	Quantity Quantity
	Price    Money // unit price
	Tag      string
}

// NewBuyOrder creates a buy request. When tag is empty, the wall-clock time
// is used as the lot label disambiguator, so that several buys of the same
// symbol on the same day stay distinguishable.
func NewBuyOrder(day Date, symbol string, quantity Quantity, price Money, tag string) BuyOrder {
	if tag == "" {
		tag = time.Now().Format("150405")
	}
	return BuyOrder{
		baseOrder: baseOrder{ID: uuid.New(), Kind: OpBuy, Date: day},
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Tag:       tag,
	}
}

// Label returns the lot label this buy will create: symbol, acquisition date
// and disambiguating tag.
func (o BuyOrder) Label() string {
	return o.Symbol + "-" + o.Date.String() + "-" + o.Tag
}

// Validate checks the buy request for minimal shape and applies quick fixes.
// The store is untouched when an error is returned.
func (o *BuyOrder) Validate() error {
	o.baseOrder.validate()
	if o.Symbol == "" {
		return validationf("buy request symbol is missing")
	}
	if !o.Quantity.IsPositive() {
		return validationf("buy request quantity must be positive, got %s", o.Quantity)
	}
	if !o.Price.IsPositive() {
		return validationf("buy request price must be positive, got %s", o.Price.Amount())
	}
	return nil
}

// SellOrder requests the disposal of a quantity of a symbol against its open
// lots. A request larger than the open position degrades to "sell all"; the
// engine never goes short.
type SellOrder struct {
	baseOrder
	Symbol   string
	Quantity Quantity
	Price    Money // unit price
	Fee      Money // aggregate fee, prorated across consumed lots
	Policy   OrderPolicy
}

// NewSellOrder creates a sell request.
func NewSellOrder(day Date, symbol string, quantity Quantity, price, fee Money, policy OrderPolicy) SellOrder {
	return SellOrder{
		baseOrder: baseOrder{ID: uuid.New(), Kind: OpSell, Date: day},
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Fee:       fee,
		Policy:    policy,
	}
}

// Validate checks the sell request for minimal shape and applies quick fixes.
func (o *SellOrder) Validate() error {
	o.baseOrder.validate()
	if o.Symbol == "" {
		return validationf("sell request symbol is missing")
	}
	if !o.Quantity.IsPositive() {
		return validationf("sell request quantity must be positive, got %s", o.Quantity)
	}
	if !o.Price.IsPositive() {
		return validationf("sell request price must be positive, got %s", o.Price.Amount())
	}
	if o.Fee.IsNegative() {
		return validationf("sell request fee cannot be negative, got %s", o.Fee.Amount())
	}
	switch o.Policy {
	case FIFO, LIFO:
	default:
		return validationf("sell request lot order policy %d is unknown", o.Policy)
	}
	return nil
}

// SplitOrder requests a ratio adjustment of all lots of a symbol acquired
// strictly before the as-of date.
type SplitOrder struct {
	baseOrder
	Symbol      string
	Numerator   int64
	Denominator int64
}

// NewSplitOrder creates a split request for a numerator-for-denominator split.
func NewSplitOrder(day Date, symbol string, num, den int64) SplitOrder {
	return SplitOrder{
		baseOrder:   baseOrder{ID: uuid.New(), Kind: OpSplit, Date: day},
		Symbol:      symbol,
		Numerator:   num,
		Denominator: den,
	}
}

// Validate checks the split request for minimal shape and applies quick fixes.
func (o *SplitOrder) Validate() error {
	o.baseOrder.validate()
	if o.Symbol == "" {
		return validationf("split request symbol is missing")
	}
	if o.Numerator <= 0 {
		return validationf("split numerator must be positive, got %d", o.Numerator)
	}
	if o.Denominator <= 0 {
		return validationf("split denominator must be positive, got %d", o.Denominator)
	}
	return nil
}
