package report

import (
	"testing"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
	"github.com/jmcordell/ledger-etl/pkg/rules"
)

func resolved(date, category string, cents int64, isTransfer bool) rules.ResolvedTransaction {
	return rules.ResolvedTransaction{
		Transaction: canonical.Transaction{
			Date:        date,
			AccountID:   "CHK",
			AmountCents: cents,
		},
		Category:   category,
		IsTransfer: isTransfer,
	}
}

func TestMonthlyCashflow(t *testing.T) {
	rows := MonthlyCashflow([]rules.ResolvedTransaction{
		resolved("2024-03-01", "Coffee", -450, false),
		resolved("2024-03-02", "Income", 200000, false),
		resolved("2024-03-15", "Transfers", -100000, true),
		resolved("2024-04-01", "Groceries", -5210, false),
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 months, got %d", len(rows))
	}

	march := rows[0]
	if march.Month != "2024-03" {
		t.Fatalf("first month = %q, expected 2024-03", march.Month)
	}
	if march.Income.StringFixed(2) != "2000.00" {
		t.Errorf("income = %s, expected 2000.00", march.Income.StringFixed(2))
	}
	if march.Spending.StringFixed(2) != "4.50" {
		t.Errorf("spending = %s, expected 4.50", march.Spending.StringFixed(2))
	}
	// The transfer contributes nothing to net.
	if march.Net.StringFixed(2) != "1995.50" {
		t.Errorf("net = %s, expected 1995.50", march.Net.StringFixed(2))
	}

	april := rows[1]
	if april.Month != "2024-04" || april.Net.StringFixed(2) != "-52.10" {
		t.Errorf("april = %+v", april)
	}
}

func TestMonthlyCashflowAllTransfers(t *testing.T) {
	rows := MonthlyCashflow([]rules.ResolvedTransaction{
		resolved("2024-03-15", "Transfers", -100000, true),
		resolved("2024-03-15", "Transfers", 100000, true),
	})
	if len(rows) != 0 {
		t.Errorf("transfer-only input should produce no rows, got %d", len(rows))
	}
}

func TestActualsByCategory(t *testing.T) {
	dim := rules.Dimension{
		"Coffee": {Category: "Coffee", ParentCategory: "Dining", TopBucket: "Discretionary"},
	}

	rows := ActualsByCategory([]rules.ResolvedTransaction{
		resolved("2024-03-01", "Coffee", -450, false),
		resolved("2024-03-08", "Coffee", -525, false),
		resolved("2024-03-02", "Mystery", -1000, false),
		resolved("2024-03-15", "Transfers", -100000, true),
	}, dim)

	if len(rows) != 2 {
		t.Fatalf("expected 2 category cells, got %d", len(rows))
	}

	coffee := rows[0]
	if coffee.Category != "Coffee" || coffee.ParentCategory != "Dining" || coffee.TopBucket != "Discretionary" {
		t.Errorf("coffee row = %+v", coffee)
	}
	if coffee.Spending.StringFixed(2) != "9.75" {
		t.Errorf("coffee spending = %s, expected 9.75", coffee.Spending.StringFixed(2))
	}

	mystery := rows[1]
	if mystery.TopBucket != "Unknown" || mystery.ParentCategory != "Unknown" {
		t.Errorf("undimensioned category should roll up under Unknown: %+v", mystery)
	}
}
