package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
)

// Table file names expected under the rules directory.
const (
	RulesFile     = "category_rules.csv"
	OverridesFile = "category_overrides.csv"
	DimensionFile = "category_dim.csv"
)

// Load builds a Resolver from the rules directory. Each table file is
// optional; a missing file just means an empty layer.
func Load(dir string) (*Resolver, error) {
	r := &Resolver{}

	rulesPath := filepath.Join(dir, RulesFile)
	if _, err := os.Stat(rulesPath); err == nil {
		r.Rules, err = LoadRules(rulesPath)
		if err != nil {
			return nil, err
		}
	}

	overridesPath := filepath.Join(dir, OverridesFile)
	if _, err := os.Stat(overridesPath); err == nil {
		r.Overrides, err = LoadOverrides(overridesPath)
		if err != nil {
			return nil, err
		}
	}

	dimPath := filepath.Join(dir, DimensionFile)
	if _, err := os.Stat(dimPath); err == nil {
		r.Dim, err = LoadDimension(dimPath)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadRules reads category_rules.csv. Columns: priority, match_type,
// pattern, category, account_id, sign. Priority defaults to 1000, match
// type to contains, sign to any. Rules with an empty pattern or category
// are rejected; a malformed regex fails the load with row context.
func LoadRules(path string) ([]CategoryRule, error) {
	table, err := canonical.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(table.Headers)

	var ruleset []CategoryRule
	for _, row := range table.Rows {
		rule := CategoryRule{
			Priority:     intOr(field(row, col, "priority"), 1000),
			MatchType:    stringOr(strings.ToLower(field(row, col, "match_type")), MatchContains),
			Pattern:      field(row, col, "pattern"),
			Category:     field(row, col, "category"),
			AccountScope: field(row, col, "account_id"),
			SignScope:    stringOr(strings.ToLower(field(row, col, "sign")), SignAny),
		}
		if rule.Pattern == "" || rule.Category == "" {
			return nil, fmt.Errorf("%s: row %d: pattern and category are required", path, row.Line)
		}
		if err := rule.Compile(); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, row.Line, err)
		}
		ruleset = append(ruleset, rule)
	}
	return ruleset, nil
}

// LoadOverrides reads category_overrides.csv. Columns: active, date,
// description_regex, amount, category, subscription. Date and amount are
// optional constraints; blank means unconstrained.
func LoadOverrides(path string) ([]CategoryOverride, error) {
	table, err := canonical.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(table.Headers)

	var overrides []CategoryOverride
	for _, row := range table.Rows {
		o := CategoryOverride{
			Active:           parseBool(field(row, col, "active")),
			DescriptionRegex: field(row, col, "description_regex"),
			Category:         field(row, col, "category"),
			Subscription:     parseBool(field(row, col, "subscription")),
		}
		if o.DescriptionRegex == "" || o.Category == "" {
			return nil, fmt.Errorf("%s: row %d: description_regex and category are required", path, row.Line)
		}

		if raw := field(row, col, "date"); raw != "" {
			date, err := canonical.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, row.Line, err)
			}
			o.Date = date
		}
		if raw := field(row, col, "amount"); raw != "" {
			d, err := canonical.ParseAmount(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, row.Line, err)
			}
			cents := canonical.Cents(d)
			o.AmountCents = &cents
		}
		if err := o.Compile(); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, row.Line, err)
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

// LoadDimension reads category_dim.csv. Columns: category, parent_category,
// top_bucket, notes, exclude_from_budget, is_transfer.
func LoadDimension(path string) (Dimension, error) {
	table, err := canonical.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(table.Headers)

	dim := make(Dimension)
	for _, row := range table.Rows {
		entry := DimEntry{
			Category:          field(row, col, "category"),
			ParentCategory:    field(row, col, "parent_category"),
			TopBucket:         field(row, col, "top_bucket"),
			Notes:             field(row, col, "notes"),
			ExcludeFromBudget: parseBool(field(row, col, "exclude_from_budget")),
			IsTransfer:        parseBool(field(row, col, "is_transfer")),
		}
		if entry.Category == "" {
			return nil, fmt.Errorf("%s: row %d: category is required", path, row.Line)
		}
		dim[entry.Category] = entry
	}
	return dim, nil
}

func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(row canonical.RawRecord, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row.Values) {
		return ""
	}
	return strings.TrimSpace(row.Values[i])
}

// parseBool accepts spreadsheet-style truthy spellings. Anything
// unrecognized is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true
	default:
		return false
	}
}

func intOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
