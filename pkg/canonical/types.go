// Package canonical maps heterogeneous institution export rows onto the
// fixed transaction schema and derives a stable identity per row.
package canonical

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is one canonical ledger entry.
type Transaction struct {
	Identity     string
	Date         string // YYYY-MM-DD
	AccountID    string
	AmountCents  int64
	Description  string
	MerchantNorm string
	BaseCategory string
	Memo         string
	Tags         string

	// Occurrence disambiguates rows that are otherwise identical within a
	// batch. It is an input to the identity, assigned in stable row order.
	Occurrence int
}

// Amount returns the decimal view of the amount. AmountCents is the
// authoritative value; never compare amounts through this.
func (t Transaction) Amount() decimal.Decimal {
	return decimal.New(t.AmountCents, -2)
}

// RawRecord is one row of a source file before canonicalization.
type RawRecord struct {
	Line   int // 1-based data row number, excluding the header
	Values []string
}

// MissingColumnError means a required field has no matching header in the
// file at all. It is fatal to that file's batch only.
type MissingColumnError struct {
	File  string
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: no column found for required field %q", e.File, e.Field)
}

// RowParseError records a single unparsable row. The row is skipped and
// counted; the rest of the file continues.
type RowParseError struct {
	File   string
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%s: row %d: field %q value %q: %s", e.File, e.Line, e.Field, e.Value, e.Reason)
}
