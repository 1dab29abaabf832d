package rules

import "github.com/jmcordell/ledger-etl/pkg/canonical"

// ResolvedTransaction is a ledger transaction with its final category and
// derived transfer flag. Resolution is recomputed at query time, never
// baked into storage.
type ResolvedTransaction struct {
	canonical.Transaction
	Category   string
	IsTransfer bool
}

// Resolver composes the full resolution chain over immutably loaded rule,
// override, and dimension tables. All evaluation is pure and read-only.
type Resolver struct {
	Rules     []CategoryRule
	Overrides []CategoryOverride
	Dim       Dimension
}

// Resolve assigns the final category for one transaction. The precedence
// chain is fixed: override, then rule, then the category the source data
// carried, then "Uncategorized". It is a total function.
func (r *Resolver) Resolve(txn canonical.Transaction) (ResolvedTransaction, *AmbiguousOverrideWarning) {
	category, ok, warn := ResolveOverride(txn, r.Overrides)
	if !ok {
		category, ok = ResolveRule(txn, r.Rules)
	}
	if !ok {
		category = txn.BaseCategory
	}
	if category == "" {
		category = DefaultCategory
	}

	return ResolvedTransaction{
		Transaction: txn,
		Category:    category,
		IsTransfer:  r.Dim.IsTransfer(category),
	}, warn
}

// ResolveAll resolves a batch, collecting any ambiguous-override warnings.
func (r *Resolver) ResolveAll(txns []canonical.Transaction) ([]ResolvedTransaction, []AmbiguousOverrideWarning) {
	resolved := make([]ResolvedTransaction, 0, len(txns))
	var warnings []AmbiguousOverrideWarning
	for _, txn := range txns {
		rt, warn := r.Resolve(txn)
		resolved = append(resolved, rt)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
	}
	return resolved, warnings
}
