package ledger

import (
	"strings"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
)

// Filter is a typed predicate over canonical transactions, evaluated
// in-process against scan results. The zero value matches everything.
type Filter struct {
	AccountID        string // exact, case-insensitive
	DateFrom         string // inclusive YYYY-MM-DD
	DateTo           string // inclusive YYYY-MM-DD
	MerchantContains string // substring of merchant_norm
	BaseCategory     string // exact, case-insensitive, as carried from source
	MinCents         *int64
	MaxCents         *int64

	// Where composes an arbitrary extra predicate with the field
	// constraints above.
	Where func(canonical.Transaction) bool
}

// Match reports whether a transaction satisfies every set constraint.
// Canonical dates sort lexically, so string comparison is correct.
func (f Filter) Match(t canonical.Transaction) bool {
	if f.AccountID != "" && !strings.EqualFold(f.AccountID, t.AccountID) {
		return false
	}
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	if f.MerchantContains != "" && !strings.Contains(t.MerchantNorm, strings.ToLower(f.MerchantContains)) {
		return false
	}
	if f.BaseCategory != "" && !strings.EqualFold(f.BaseCategory, t.BaseCategory) {
		return false
	}
	if f.MinCents != nil && t.AmountCents < *f.MinCents {
		return false
	}
	if f.MaxCents != nil && t.AmountCents > *f.MaxCents {
		return false
	}
	if f.Where != nil && !f.Where(t) {
		return false
	}
	return true
}
