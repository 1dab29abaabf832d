package rules

import (
	"strings"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
)

// ResolveRule evaluates the rule set against one transaction and returns
// the winning category, if any. The function is pure: rule edits
// retroactively reclassify stored rows simply by re-running it.
//
// A rule is a candidate when its account scope (if set) equals the
// transaction's account and its sign scope (if set) matches the sign of the
// amount. Candidate patterns are tested against merchant_norm. Among all
// matches exactly one wins: ascending priority, then descending pattern
// length (the more specific pattern), then ascending category name.
func ResolveRule(txn canonical.Transaction, ruleset []CategoryRule) (string, bool) {
	var best *CategoryRule
	for i := range ruleset {
		r := &ruleset[i]
		if !inScope(r, txn) || !matches(r, txn.MerchantNorm) {
			continue
		}
		if best == nil || beats(r, best) {
			best = r
		}
	}
	if best == nil {
		return "", false
	}
	return best.Category, true
}

func inScope(r *CategoryRule, txn canonical.Transaction) bool {
	if r.AccountScope != "" && !strings.EqualFold(r.AccountScope, txn.AccountID) {
		return false
	}
	switch r.SignScope {
	case SignPositive:
		return txn.AmountCents > 0
	case SignNegative:
		return txn.AmountCents < 0
	default:
		return true
	}
}

func matches(r *CategoryRule, merchantNorm string) bool {
	switch r.MatchType {
	case MatchContains:
		return strings.Contains(merchantNorm, strings.ToLower(r.Pattern))
	case MatchRegex:
		return r.re != nil && r.re.MatchString(merchantNorm)
	default:
		return false
	}
}

// beats reports whether a should win over b under the deterministic
// ordering.
func beats(a, b *CategoryRule) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if len(a.Pattern) != len(b.Pattern) {
		return len(a.Pattern) > len(b.Pattern)
	}
	return a.Category < b.Category
}
