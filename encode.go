package bcgt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// lotLine is a specialized struct for decoding one persisted lot, where the
// cost amount and its currency are separate fields.
type lotLine struct {
	Symbol   string          `json:"symbol"`
	Quantity Quantity        `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Currency string          `json:"currency"`
	Date     Date            `json:"date"`
	Label    string          `json:"label"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Lot.
func (l *Lot) UnmarshalJSON(data []byte) error {
	var line lotLine
	if err := json.Unmarshal(data, &line); err != nil {
		return err
	}
	l.Symbol = line.Symbol
	l.Quantity = line.Quantity
	l.UnitCost = M(line.Cost, line.Currency)
	l.AcquisitionDate = line.Date
	l.Label = line.Label
	return nil
}

// DecodeLots reads a stream of JSONL lot lines, one open lot per line, and
// returns the canonical sorted Store. This is how the ledger-loading
// collaborator hands the session its working set; the store can always be
// rebuilt by re-reading the same stream.
func DecodeLots(r io.Reader) (*Store, error) {
	var lots []Lot
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var lot Lot
		if err := json.Unmarshal(lineBytes, &lot); err != nil {
			return nil, fmt.Errorf("could not decode lot line %q: %w", string(lineBytes), err)
		}
		if lot.Symbol == "" {
			return nil, fmt.Errorf("lot line %q has no symbol", string(lineBytes))
		}
		if !lot.Quantity.IsPositive() {
			return nil, fmt.Errorf("lot %q of %s has non-positive quantity %s", lot.Label, lot.Symbol, lot.Quantity)
		}
		if !lot.UnitCost.IsPositive() {
			return nil, fmt.Errorf("lot %q of %s has non-positive unit cost %s", lot.Label, lot.Symbol, lot.UnitCost.Amount())
		}
		for _, existing := range lots {
			if existing.sameIdentity(lot) {
				return nil, fmt.Errorf("duplicate lot %q of %s acquired %s", lot.Label, lot.Symbol, lot.AcquisitionDate)
			}
		}
		lots = append(lots, lot)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read lots: %w", err)
	}
	return NewStore(lots...), nil
}

// EncodeLots writes the store back as JSONL, one lot per line in canonical
// order, with a stable field order per line.
func EncodeLots(w io.Writer, s *Store) error {
	for lot := range s.All() {
		data, err := json.Marshal(lot)
		if err != nil {
			return fmt.Errorf("could not encode lot %q of %s: %w", lot.Label, lot.Symbol, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}
