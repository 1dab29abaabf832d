// Package report builds reporting rollups over resolved transactions.
// Transfers are excluded here, at the consumption boundary, never in
// storage.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jmcordell/ledger-etl/pkg/rules"
)

// CashflowRow is one month of income, spending, and net cashflow.
type CashflowRow struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Spending decimal.Decimal // positive magnitude
	Net      decimal.Decimal
}

// MonthlyCashflow aggregates resolved transactions by calendar month.
// Rows whose resolved category is a transfer contribute nothing.
func MonthlyCashflow(resolved []rules.ResolvedTransaction) []CashflowRow {
	byMonth := make(map[string]*CashflowRow)
	for _, t := range resolved {
		if t.IsTransfer || len(t.Date) < 7 {
			continue
		}
		month := t.Date[:7]
		row, ok := byMonth[month]
		if !ok {
			row = &CashflowRow{Month: month}
			byMonth[month] = row
		}
		amount := t.Amount()
		row.Net = row.Net.Add(amount)
		if t.AmountCents > 0 {
			row.Income = row.Income.Add(amount)
		} else {
			row.Spending = row.Spending.Sub(amount)
		}
	}
	return sortedCashflow(byMonth)
}

func sortedCashflow(byMonth map[string]*CashflowRow) []CashflowRow {
	out := make([]CashflowRow, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategoryActualRow is one (month, category) cell of actuals, joined
// against the category dimension.
type CategoryActualRow struct {
	Month          string
	TopBucket      string
	ParentCategory string
	Category       string
	Income         decimal.Decimal
	Spending       decimal.Decimal
	Net            decimal.Decimal
}

// ActualsByCategory aggregates resolved transactions by month and category,
// annotated with the dimension hierarchy. Unknown categories roll up under
// "Unknown". Transfers are excluded.
func ActualsByCategory(resolved []rules.ResolvedTransaction, dim rules.Dimension) []CategoryActualRow {
	type key struct{ month, category string }
	cells := make(map[key]*CategoryActualRow)

	for _, t := range resolved {
		if t.IsTransfer || len(t.Date) < 7 {
			continue
		}
		k := key{month: t.Date[:7], category: t.Category}
		row, ok := cells[k]
		if !ok {
			entry := dim[t.Category]
			topBucket := entry.TopBucket
			if topBucket == "" {
				topBucket = "Unknown"
			}
			parent := entry.ParentCategory
			if parent == "" {
				parent = topBucket
			}
			row = &CategoryActualRow{
				Month:          k.month,
				TopBucket:      topBucket,
				ParentCategory: parent,
				Category:       t.Category,
			}
			cells[k] = row
		}
		amount := t.Amount()
		row.Net = row.Net.Add(amount)
		if t.AmountCents > 0 {
			row.Income = row.Income.Add(amount)
		} else {
			row.Spending = row.Spending.Sub(amount)
		}
	}

	out := make([]CategoryActualRow, 0, len(cells))
	for _, row := range cells {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}
