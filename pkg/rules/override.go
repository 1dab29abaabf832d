package rules

import "github.com/jmcordell/ledger-etl/pkg/canonical"

// ResolveOverride evaluates the manual overrides against one transaction.
// Inactive overrides are ignored. A candidate matches when its regex
// searches successfully against merchant_norm and its optional date and
// amount constraints hold exactly (amounts compared in cents).
//
// Overrides are meant to be mutually exclusive; if several match anyway the
// lowest category name wins and the discarded alternatives are surfaced as
// an AmbiguousOverrideWarning, never an error.
func ResolveOverride(txn canonical.Transaction, overrides []CategoryOverride) (string, bool, *AmbiguousOverrideWarning) {
	var matched []string
	for i := range overrides {
		o := &overrides[i]
		if !o.Active || o.re == nil {
			continue
		}
		if !o.re.MatchString(txn.MerchantNorm) {
			continue
		}
		if o.Date != "" && o.Date != txn.Date {
			continue
		}
		if o.AmountCents != nil && *o.AmountCents != txn.AmountCents {
			continue
		}
		matched = append(matched, o.Category)
	}

	switch len(matched) {
	case 0:
		return "", false, nil
	case 1:
		return matched[0], true, nil
	}

	chosen := matched[0]
	for _, c := range matched[1:] {
		if c < chosen {
			chosen = c
		}
	}
	var discarded []string
	for _, c := range matched {
		if c != chosen {
			discarded = append(discarded, c)
		}
	}
	// Overrides agreeing on one category are redundant, not ambiguous.
	if len(discarded) == 0 {
		return chosen, true, nil
	}
	return chosen, true, &AmbiguousOverrideWarning{
		Identity:  txn.Identity,
		Chosen:    chosen,
		Discarded: discarded,
	}
}
