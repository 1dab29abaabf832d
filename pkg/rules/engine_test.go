package rules

import (
	"testing"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
)

func mustCompile(t *testing.T, ruleset []CategoryRule) []CategoryRule {
	t.Helper()
	for i := range ruleset {
		if err := ruleset[i].Compile(); err != nil {
			t.Fatal(err)
		}
	}
	return ruleset
}

func txn(merchantNorm string, cents int64) canonical.Transaction {
	return canonical.Transaction{
		Identity:     "test-id",
		Date:         "2024-03-01",
		AccountID:    "CHK",
		AmountCents:  cents,
		MerchantNorm: merchantNorm,
	}
}

func TestResolveRulePriority(t *testing.T) {
	ruleset := mustCompile(t, []CategoryRule{
		{Priority: 2, MatchType: MatchContains, Pattern: "starbucks", Category: "B"},
		{Priority: 1, MatchType: MatchContains, Pattern: "starbucks", Category: "A"},
	})

	got, ok := ResolveRule(txn("starbucks 123", -450), ruleset)
	if !ok || got != "A" {
		t.Errorf("ResolveRule() = %q, %v; expected A (lower priority wins)", got, ok)
	}
}

func TestResolveRuleTieBreaks(t *testing.T) {
	tests := []struct {
		name     string
		ruleset  []CategoryRule
		expected string
	}{
		{
			name: "longer pattern wins at equal priority",
			ruleset: []CategoryRule{
				{Priority: 1, MatchType: MatchContains, Pattern: "star", Category: "Short"},
				{Priority: 1, MatchType: MatchContains, Pattern: "starbucks", Category: "Long"},
			},
			expected: "Long",
		},
		{
			name: "category name breaks remaining ties",
			ruleset: []CategoryRule{
				{Priority: 1, MatchType: MatchContains, Pattern: "starbuck", Category: "Zeta"},
				{Priority: 1, MatchType: MatchContains, Pattern: "tarbucks", Category: "Alpha"},
			},
			expected: "Alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRule(txn("starbucks 123", -450), mustCompile(t, tt.ruleset))
			if !ok || got != tt.expected {
				t.Errorf("ResolveRule() = %q, %v; expected %q", got, ok, tt.expected)
			}
		})
	}
}

func TestResolveRuleScopes(t *testing.T) {
	ruleset := mustCompile(t, []CategoryRule{
		{Priority: 1, MatchType: MatchContains, Pattern: "payroll", Category: "Income", SignScope: SignPositive},
		{Priority: 1, MatchType: MatchContains, Pattern: "payroll", Category: "Refund Adjustment", SignScope: SignNegative},
		{Priority: 1, MatchType: MatchContains, Pattern: "fee", Category: "Card Fees", AccountScope: "SAPPHIRE"},
	})

	tests := []struct {
		name     string
		txn      canonical.Transaction
		expected string
		matched  bool
	}{
		{"positive sign", txn("employer payroll", 200000), "Income", true},
		{"negative sign", txn("employer payroll", -5000), "Refund Adjustment", true},
		{"account scope mismatch", txn("annual fee", -9500), "", false},
		{"account scope match", canonical.Transaction{AccountID: "SAPPHIRE", MerchantNorm: "annual fee", AmountCents: -9500}, "Card Fees", true},
		{"zero amount matches neither sign scope", txn("employer payroll", 0), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRule(tt.txn, ruleset)
			if ok != tt.matched || got != tt.expected {
				t.Errorf("ResolveRule() = %q, %v; expected %q, %v", got, ok, tt.expected, tt.matched)
			}
		})
	}
}

func TestResolveRuleRegex(t *testing.T) {
	ruleset := mustCompile(t, []CategoryRule{
		{Priority: 1, MatchType: MatchRegex, Pattern: `^amzn( mktp)?`, Category: "Shopping"},
	})

	if got, ok := ResolveRule(txn("amzn mktp us", -2599), ruleset); !ok || got != "Shopping" {
		t.Errorf("regex rule should match: got %q, %v", got, ok)
	}
	if _, ok := ResolveRule(txn("prime amzn", -2599), ruleset); ok {
		t.Error("anchored regex should not match mid-string")
	}
}

func TestResolveRuleNoMatchIsNotAnError(t *testing.T) {
	ruleset := mustCompile(t, []CategoryRule{
		{Priority: 1, MatchType: MatchContains, Pattern: "starbucks", Category: "Coffee"},
	})

	got, ok := ResolveRule(txn("shell oil", -3820), ruleset)
	if ok || got != "" {
		t.Errorf("ResolveRule() = %q, %v; expected no match", got, ok)
	}
}

func TestCompileRejectsBadRules(t *testing.T) {
	bad := CategoryRule{MatchType: MatchRegex, Pattern: "("}
	if err := bad.Compile(); err == nil {
		t.Error("expected error for malformed regex")
	}
	unknown := CategoryRule{MatchType: "glob", Pattern: "x"}
	if err := unknown.Compile(); err == nil {
		t.Error("expected error for unknown match_type")
	}
}
