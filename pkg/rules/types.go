// Package rules assigns each ledger transaction exactly one spending
// category through a layered resolution policy: manual overrides outrank
// pattern rules, which outrank any category the source data carried, with
// a literal default as the final fallback.
package rules

import (
	"fmt"
	"regexp"
)

// DefaultCategory is the final fallback when nothing else resolves.
const DefaultCategory = "Uncategorized"

// Match types for CategoryRule.
const (
	MatchContains = "contains"
	MatchRegex    = "regex"
)

// Sign scopes for CategoryRule.
const (
	SignAny      = "any"
	SignPositive = "positive"
	SignNegative = "negative"
)

// CategoryRule is one automated, priority-ordered categorization directive.
// Lower priority numbers win.
type CategoryRule struct {
	Priority     int
	MatchType    string
	Pattern      string
	Category     string
	AccountScope string // empty = all accounts
	SignScope    string // any, positive, negative

	re *regexp.Regexp // compiled for MatchRegex rules
}

// Compile validates the rule and compiles its pattern.
func (r *CategoryRule) Compile() error {
	switch r.MatchType {
	case MatchContains:
		return nil
	case MatchRegex:
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: bad regex: %w", r.Pattern, err)
		}
		r.re = re
		return nil
	default:
		return fmt.Errorf("rule %q: unknown match_type %q", r.Pattern, r.MatchType)
	}
}

// CategoryOverride is a manually authored, highest-precedence exception.
// Date and AmountCents, when set, must match the transaction exactly.
type CategoryOverride struct {
	Active           bool
	Date             string // YYYY-MM-DD, empty = any date
	DescriptionRegex string
	AmountCents      *int64 // nil = any amount
	Category         string
	Subscription     bool

	re *regexp.Regexp
}

// Compile validates the override and compiles its regex.
func (o *CategoryOverride) Compile() error {
	re, err := regexp.Compile("(?i)" + o.DescriptionRegex)
	if err != nil {
		return fmt.Errorf("override %q: bad regex: %w", o.DescriptionRegex, err)
	}
	o.re = re
	return nil
}

// DimEntry is the per-category metadata row.
type DimEntry struct {
	Category          string
	ParentCategory    string
	TopBucket         string
	Notes             string
	ExcludeFromBudget bool
	IsTransfer        bool
}

// Dimension is the category dimension lookup.
type Dimension map[string]DimEntry

// IsTransfer reports whether a category is flagged as a transfer. Absent
// entries and a nil dimension default to false.
func (d Dimension) IsTransfer(category string) bool {
	if d == nil {
		return false
	}
	return d[category].IsTransfer
}

// AmbiguousOverrideWarning records a transaction matched by more than one
// active override. Resolution still proceeds deterministically.
type AmbiguousOverrideWarning struct {
	Identity  string
	Chosen    string
	Discarded []string
}

func (w *AmbiguousOverrideWarning) String() string {
	return fmt.Sprintf("transaction %s matched %d overrides; kept %q, discarded %v",
		w.Identity, len(w.Discarded)+1, w.Chosen, w.Discarded)
}
