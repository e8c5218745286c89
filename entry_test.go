package bcgt

import (
	"testing"
	"time"
)

func testEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Currency:   "USD",
		AssetsRoot: "Assets:SB:SCH:ROTH:",
		IncomeRoot: "Income:SB:SCH:ROTH:PnL:",
		FeesRoot:   "Expenses:SB:SCH:ROTH:Fees:RegFees",
		EquityFees: "Equity:SB:SCH:ROTH:Fees:RegFees",
		Cash:       "Assets:SB:SCH:ROTH:SCHONEMM",
	}
}

func TestBuyEntry(t *testing.T) {
	cfg := testEmitterConfig()
	lot := testLot(t, "X", 30, 10, NewDate(2020, time.January, 1), "X-2020-01-01-084512")

	e := cfg.BuyEntry(lot, FIFO)
	if err := e.CheckBalance(); err != nil {
		t.Fatalf("buy entry does not balance: %v", err)
	}
	want := "Bought 30 X @ 10.00  FIFO  (LOT X-2020-01-01-084512)"
	if e.Description != want {
		t.Errorf("description = %q, want %q", e.Description, want)
	}
	if len(e.Postings) != 2 {
		t.Fatalf("buy entry has %d postings, want 2", len(e.Postings))
	}

	asset, cash := e.Postings[0], e.Postings[1]
	if asset.Account != "Assets:SB:SCH:ROTH:X" {
		t.Errorf("asset account = %q", asset.Account)
	}
	if asset.Cost == nil || !asset.Cost.Unit.Equal(M(10, "USD")) || asset.Cost.Label != lot.Label {
		t.Errorf("asset cost annotation = %+v, want the lot identity", asset.Cost)
	}
	if cash.Account != cfg.Cash || !cash.Amount.Equal(Q(-300)) || cash.Commodity != "USD" {
		t.Errorf("cash posting = %+v, want -300 USD on %s", cash, cfg.Cash)
	}
}

func TestSaleEntries(t *testing.T) {
	cfg := testEmitterConfig()
	lot := testLot(t, "X", 100, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a")
	alloc := &SaleAllocation{
		Symbol:    "X",
		Date:      NewDate(2022, time.June, 1),
		Price:     M(12, "USD"),
		Fee:       M(3, "USD"),
		Policy:    FIFO,
		Requested: Q(30),
		Sold:      Q(30),
		Slices: []SaleSlice{{
			Lot:      lot,
			Quantity: Q(30),
			Fee:      M(3, "USD"),
			Basis:    M(300, "USD"),
			Proceeds: M(360, "USD"),
			Gain:     M(-57, "USD"),
		}},
	}

	entries := cfg.SaleEntries(alloc)
	if len(entries) != 1 {
		t.Fatalf("SaleEntries() produced %d entries, want 1 per consumed lot", len(entries))
	}
	e := entries[0]
	if err := e.CheckBalance(); err != nil {
		t.Fatalf("sale entry does not balance: %v", err)
	}
	want := "Sold 30 X @ 12.00 RegFee 3.00  FIFO  (LOT X-2020-01-01-a)"
	if e.Description != want {
		t.Errorf("description = %q, want %q", e.Description, want)
	}
	if !e.Basis.Equal(M(300, "USD")) {
		t.Errorf("entry basis = %s, want the consumed basis $300", e.Basis)
	}
	if len(e.Postings) != 5 {
		t.Fatalf("sale entry has %d postings, want 5", len(e.Postings))
	}

	byAccount := make(map[string]Posting)
	for _, p := range e.Postings {
		byAccount[p.Account] = p
	}
	asset := byAccount["Assets:SB:SCH:ROTH:X"]
	if !asset.Amount.Equal(Q(-30)) || asset.Cost == nil || asset.Price == nil {
		t.Errorf("asset posting = %+v, want -30 X with cost and price annotations", asset)
	}
	if p := byAccount["Expenses:SB:SCH:ROTH:Fees:RegFees:X"]; !p.Amount.Equal(Q(3)) {
		t.Errorf("fee posting amount = %s, want 3", p.Amount)
	}
	if p := byAccount[cfg.EquityFees]; !p.Amount.Equal(Q(-3)) {
		t.Errorf("fee contra amount = %s, want -3", p.Amount)
	}
	if p := byAccount["Income:SB:SCH:ROTH:PnL:X"]; !p.Amount.Equal(Q(-57)) {
		t.Errorf("gain posting amount = %s, want -57 (negated convention)", p.Amount)
	}
	if p := byAccount[cfg.Cash]; !p.Amount.Equal(Q(357)) {
		t.Errorf("cash posting amount = %s, want proceeds net of fee 357", p.Amount)
	}
}

func TestSplitEntry(t *testing.T) {
	cfg := testEmitterConfig()
	before := testLot(t, "X", 60, 12, NewDate(2020, time.January, 1), "X-2020-01-01-a")
	after := before
	after.Quantity = Q(120)
	after.UnitCost = M(6, "USD")
	adj := &SplitAdjustment{
		Symbol: "X", Date: NewDate(2022, time.June, 1),
		Numerator: 2, Denominator: 1,
		Lots: []SplitLot{{Before: before, After: after}},
	}

	e, ok := cfg.SplitEntry(adj)
	if !ok {
		t.Fatal("SplitEntry() reported nothing to render")
	}
	if err := e.CheckBalance(); err != nil {
		t.Fatalf("split entry does not balance: %v", err)
	}
	if e.Description != "Split X 2 FOR 1" {
		t.Errorf("description = %q, want %q", e.Description, "Split X 2 FOR 1")
	}
	if len(e.Postings) != 2 {
		t.Fatalf("split entry has %d postings, want a removal and a re-addition", len(e.Postings))
	}
	if !e.Postings[0].Amount.Equal(Q(-60)) || !e.Postings[1].Amount.Equal(Q(120)) {
		t.Errorf("posting amounts = %s, %s, want -60 and 120", e.Postings[0].Amount, e.Postings[1].Amount)
	}

	if _, ok := cfg.SplitEntry(&SplitAdjustment{Symbol: "X"}); ok {
		t.Error("SplitEntry() rendered an empty adjustment")
	}
}

func TestCheckBalance_Detects(t *testing.T) {
	e := Entry{
		Description: "unbalanced",
		Postings: []Posting{
			{Account: "A", Amount: Q(100), Commodity: "USD"},
			{Account: "B", Amount: Q(-99), Commodity: "USD"},
		},
	}
	if err := e.CheckBalance(); err == nil {
		t.Error("CheckBalance() passed an entry off by 1 USD")
	}

	// Per-currency sums: balanced USD alongside balanced EUR is fine,
	// cross-currency leftovers are not.
	mixed := Entry{
		Description: "mixed",
		Postings: []Posting{
			{Account: "A", Amount: Q(100), Commodity: "USD"},
			{Account: "B", Amount: Q(-100), Commodity: "USD"},
			{Account: "C", Amount: Q(5), Commodity: "EUR"},
			{Account: "D", Amount: Q(-5), Commodity: "EUR"},
		},
	}
	if err := mixed.CheckBalance(); err != nil {
		t.Errorf("CheckBalance() rejected a per-currency balanced entry: %v", err)
	}
}
