package bcgt

import (
	"testing"
	"time"
)

func TestSell_SingleLotPartial(t *testing.T) {
	store := NewStore(
		testLot(t, "X", 100, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "X", Q(30), M(12, "USD"), M(3, "USD"), FIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	if alloc.Clamped {
		t.Error("Sell() reported clamped on a covered request")
	}
	if len(alloc.Slices) != 1 {
		t.Fatalf("Sell() produced %d slices, want 1", len(alloc.Slices))
	}

	slice := alloc.Slices[0]
	if !slice.Quantity.Equal(Q(30)) {
		t.Errorf("slice quantity = %s, want 30", slice.Quantity)
	}
	if !slice.Fee.Equal(M(3, "USD")) {
		t.Errorf("slice fee = %s, want $3.00", slice.Fee)
	}
	if !slice.Basis.Equal(M(300, "USD")) {
		t.Errorf("slice basis = %s, want $300", slice.Basis)
	}
	if !slice.Proceeds.Equal(M(360, "USD")) {
		t.Errorf("slice proceeds = %s, want $360", slice.Proceeds)
	}
	// Gain carries the negated sign: a profit of 57 is stored as -57.
	if !slice.Gain.Equal(M(-57, "USD")) {
		t.Errorf("slice gain = %s, want $-57", slice.Gain)
	}

	if store.Len() != 1 {
		t.Fatalf("store has %d lots after partial sale, want 1", store.Len())
	}
	for lot := range store.All() {
		if !lot.Quantity.Equal(Q(70)) {
			t.Errorf("remaining quantity = %s, want 70", lot.Quantity)
		}
	}
}

func TestSell_TwoLotsFIFO(t *testing.T) {
	store := NewStore(
		testLot(t, "X", 40, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
		testLot(t, "X", 60, 12, NewDate(2021, time.January, 1), "X-2021-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "X", Q(50), M(15, "USD"), M(5, "USD"), FIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	if len(alloc.Slices) != 2 {
		t.Fatalf("Sell() produced %d slices, want 2", len(alloc.Slices))
	}

	first, second := alloc.Slices[0], alloc.Slices[1]
	if first.Lot.Label != "X-2020-01-01-a" || second.Lot.Label != "X-2021-01-01-a" {
		t.Errorf("FIFO consumed %q then %q, want oldest first", first.Lot.Label, second.Lot.Label)
	}
	if !first.Quantity.Equal(Q(40)) || !second.Quantity.Equal(Q(10)) {
		t.Errorf("consumed quantities = %s, %s, want 40, 10", first.Quantity, second.Quantity)
	}
	// Fee of 5 over 50 units is 0.10 per unit: 4.00 and 1.00.
	if !first.Fee.Equal(M(4, "USD")) {
		t.Errorf("first slice fee = %s, want $4.00", first.Fee)
	}
	if !second.Fee.Equal(M(1, "USD")) {
		t.Errorf("second slice fee = %s, want $1.00", second.Fee)
	}
	if !first.Gain.Equal(M(-196, "USD")) {
		t.Errorf("first slice gain = %s, want $-196", first.Gain)
	}
	if !second.Gain.Equal(M(-29, "USD")) {
		t.Errorf("second slice gain = %s, want $-29", second.Gain)
	}

	if store.Len() != 1 {
		t.Fatalf("store has %d lots after sale, want 1", store.Len())
	}
	for lot := range store.All() {
		if lot.Label != "X-2021-01-01-a" || !lot.Quantity.Equal(Q(50)) {
			t.Errorf("remaining lot = %s %s, want 50 of X-2021-01-01-a", lot.Quantity, lot.Label)
		}
	}
}

func TestSell_LIFO(t *testing.T) {
	store := NewStore(
		testLot(t, "X", 40, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
		testLot(t, "X", 60, 12, NewDate(2021, time.January, 1), "X-2021-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "X", Q(50), M(15, "USD"), M(0, "USD"), LIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	if len(alloc.Slices) != 1 {
		t.Fatalf("Sell() produced %d slices, want 1 (newest lot covers the request)", len(alloc.Slices))
	}
	if alloc.Slices[0].Lot.Label != "X-2021-01-01-a" {
		t.Errorf("LIFO consumed %q, want the newest lot", alloc.Slices[0].Lot.Label)
	}
}

func TestSell_ClampsToAvailable(t *testing.T) {
	store := NewStore(
		testLot(t, "X", 70, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "X", Q(1000), M(12, "USD"), M(3, "USD"), FIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	if !alloc.Clamped {
		t.Error("Sell() did not report clamping on an oversized request")
	}
	if !alloc.Requested.Equal(Q(1000)) || !alloc.Sold.Equal(Q(70)) {
		t.Errorf("requested/sold = %s/%s, want 1000/70", alloc.Requested, alloc.Sold)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d lots after a clamped full sale, want 0", store.Len())
	}

	// The per-unit fee is computed over the clamped quantity, so the whole fee
	// still lands on the 70 units actually sold.
	var total Money
	for _, s := range alloc.Slices {
		total = total.Add(s.Fee)
	}
	if !total.Equal(M(3, "USD")) {
		t.Errorf("total fee = %s, want $3.00", total)
	}
}

func TestSell_FeeRoundingNeverOverruns(t *testing.T) {
	// Per-unit fee 0.07/6 rounds each 3-unit share of 0.035 up to 0.04 under
	// half-even; the second share must be clamped to the remaining budget.
	store := NewStore(
		testLot(t, "X", 3, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
		testLot(t, "X", 3, 10, NewDate(2021, time.January, 1), "X-2021-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "X", Q(6), M(11, "USD"), M(0.07, "USD"), FIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	if len(alloc.Slices) != 2 {
		t.Fatalf("Sell() produced %d slices, want 2", len(alloc.Slices))
	}
	if !alloc.Slices[0].Fee.Equal(M(0.04, "USD")) {
		t.Errorf("first slice fee = %s, want $0.04", alloc.Slices[0].Fee)
	}
	if !alloc.Slices[1].Fee.Equal(M(0.03, "USD")) {
		t.Errorf("second slice fee = %s, want $0.03 (clamped to the remaining budget)", alloc.Slices[1].Fee)
	}
}

func TestSell_FeeRemainderDropped(t *testing.T) {
	// Per-unit fee 1/3 rounds each 1-unit share down to 0.33; the leftover
	// 0.01 is dropped rather than reallocated.
	store := NewStore(
		testLot(t, "X", 1, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
		testLot(t, "X", 1, 10, NewDate(2021, time.January, 1), "X-2021-01-01-a"),
		testLot(t, "X", 1, 10, NewDate(2022, time.January, 1), "X-2022-01-01-a"),
	)
	order := NewSellOrder(NewDate(2023, time.June, 1), "X", Q(3), M(11, "USD"), M(1, "USD"), FIFO)

	alloc, err := store.Sell(order)
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}
	var total Money
	for _, s := range alloc.Slices {
		if !s.Fee.Equal(M(0.33, "USD")) {
			t.Errorf("slice fee = %s, want $0.33", s.Fee)
		}
		total = total.Add(s.Fee)
	}
	if !total.Equal(M(0.99, "USD")) {
		t.Errorf("total fee = %s, want $0.99", total)
	}
}

func TestSell_UnknownSymbol(t *testing.T) {
	store := NewStore(
		testLot(t, "X", 100, 10, NewDate(2020, time.January, 1), "X-2020-01-01-a"),
	)
	order := NewSellOrder(NewDate(2022, time.June, 1), "NOPE", Q(10), M(12, "USD"), M(0, "USD"), FIFO)

	if _, err := store.Sell(order); err == nil {
		t.Fatal("Sell() of an unknown symbol returned no error")
	}
	if store.Len() != 1 {
		t.Errorf("store mutated by a failed sale")
	}
}
