package canonical

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveHeader(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		name    string
		headers []string
		check   func(t *testing.T, h Header, err error)
	}{
		{
			name:    "chase card export",
			headers: []string{"Transaction Date", "Post Date", "Description", "Category", "Amount"},
			check: func(t *testing.T, h Header, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				// "posting date"/"post date" outrank "transaction date"
				// in variant order
				if h.Date != 1 {
					t.Errorf("date index = %d, expected 1 (Post Date)", h.Date)
				}
				if h.Amount != 4 || h.Category != 3 {
					t.Errorf("amount/category = %d/%d, expected 4/3", h.Amount, h.Category)
				}
			},
		},
		{
			name:    "case insensitive",
			headers: []string{"DATE", "PAYEE", "AMOUNT (USD)"},
			check: func(t *testing.T, h Header, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if h.Date != 0 || h.Description != 1 || h.Amount != 2 {
					t.Errorf("indices = %d/%d/%d, expected 0/1/2", h.Date, h.Description, h.Amount)
				}
			},
		},
		{
			name:    "debit credit pair stands in for amount",
			headers: []string{"Date", "Description", "Withdrawal", "Deposit"},
			check: func(t *testing.T, h Header, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if h.Amount != -1 || h.Debit != 2 || h.Credit != 3 {
					t.Errorf("amount/debit/credit = %d/%d/%d", h.Amount, h.Debit, h.Credit)
				}
			},
		},
		{
			name:    "missing amount entirely",
			headers: []string{"Date", "Description"},
			check: func(t *testing.T, h Header, err error) {
				mce, ok := err.(*MissingColumnError)
				if !ok {
					t.Fatalf("expected *MissingColumnError, got %v", err)
				}
				if mce.Field != FieldAmount {
					t.Errorf("missing field = %q, expected amount", mce.Field)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := aliases.ResolveHeader("test.csv", tt.headers)
			tt.check(t, h, err)
		})
	}
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `fields:
  description:
    - beschreibung
  date:
    - buchungstag
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases() unexpected error: %v", err)
	}

	h, err := aliases.ResolveHeader("de.csv", []string{"Buchungstag", "Beschreibung", "Amount"})
	if err != nil {
		t.Fatalf("ResolveHeader() unexpected error: %v", err)
	}
	if h.Date != 0 || h.Description != 1 {
		t.Errorf("override aliases not applied: date=%d description=%d", h.Date, h.Description)
	}

	// Overridden field replaces the defaults for that field only.
	if _, err := aliases.ResolveHeader("us.csv", []string{"Date", "Description", "Amount"}); err == nil {
		t.Error("expected date resolution to fail once its variants were replaced")
	}
}

func TestLoadAliasesUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(path, []byte("fields:\n  nonsense: [x]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAliases(path); err == nil {
		t.Error("expected error for unknown field")
	}
}
