// Package bcgt tracks tax-lot holdings of financial instruments and generates
// structured accounting entries for Buy, Sell and Split operations against
// those holdings.
//
// The core functionalities include:
//   - Lot Store: the canonical, always-sorted sequence of open lots for a
//     session, with pure FIFO/LIFO and date-ascending projections over it.
//   - Sale Allocation: deterministic lot consumption in FIFO or LIFO order,
//     with fee proration across partially-consumed lots and realized
//     gain/loss computation. Oversized sell requests clamp to the open
//     position; the engine never goes short.
//   - Split Adjustment: ratio rewrites of lots acquired before a given date,
//     preserving each lot's total basis, label and acquisition date.
//   - Entry Emission: rendering every committed operation as balanced,
//     double-entry posting groups ready to be appended to a persisted ledger.
//   - Data Persistence: encoding and decoding the lot store to and from a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `bcgt` command-line
// tool, which adds the interactive session, rendering and reporting layers
// on top of it.
package bcgt
