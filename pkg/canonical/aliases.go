package canonical

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical field names resolved from source headers.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDebit       = "debit"
	FieldCredit      = "credit"
	FieldAccount     = "account"
	FieldCategory    = "category"
	FieldMemo        = "memo"
	FieldTags        = "tags"
)

// FieldAliases maps a canonical field name to the ordered list of header
// variants accepted for it. Matching is case-insensitive; earlier variants
// win.
type FieldAliases map[string][]string

// DefaultAliases returns the built-in alias table covering the institution
// exports the pipeline has seen so far.
func DefaultAliases() FieldAliases {
	return FieldAliases{
		FieldDate:        {"date", "posting date", "post date", "transaction date", "posted"},
		FieldDescription: {"description", "description 1", "merchant", "merchant name", "payee", "name", "details"},
		FieldAmount:      {"amount", "amount (usd)", "amount usd", "transaction amount"},
		FieldDebit:       {"debit", "withdrawal", "withdrawals"},
		FieldCredit:      {"credit", "deposit", "deposits"},
		FieldAccount:     {"account", "account id", "accountid", "account name", "acct"},
		FieldCategory:    {"category", "category name"},
		FieldMemo:        {"memo", "notes", "note"},
		FieldTags:        {"tags"},
	}
}

// aliasFile is the YAML shape of an alias override file. Fields present in
// the file replace the built-in variants for that field; absent fields keep
// the defaults.
type aliasFile struct {
	Fields map[string][]string `yaml:"fields"`
}

// LoadAliases reads an alias override file and merges it over the defaults.
func LoadAliases(path string) (FieldAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	aliases := DefaultAliases()
	for field, variants := range file.Fields {
		if _, ok := aliases[field]; !ok {
			return nil, fmt.Errorf("alias file: unknown field %q", field)
		}
		if len(variants) > 0 {
			aliases[field] = variants
		}
	}
	return aliases, nil
}

// LoadAccountMap reads a YAML map of export route directory names (lowercase)
// to account IDs, for institutions whose directory layout does not name the
// account directly.
func LoadAccountMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account map: %w", err)
	}

	var file struct {
		Accounts map[string]string `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse account map: %w", err)
	}

	m := make(map[string]string, len(file.Accounts))
	for route, id := range file.Accounts {
		m[strings.ToLower(strings.TrimSpace(route))] = strings.TrimSpace(id)
	}
	return m, nil
}

// Header holds the resolved column index per canonical field, or -1 when
// the file has no matching column.
type Header struct {
	Date        int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Account     int
	Category    int
	Memo        int
	Tags        int
}

// ResolveHeader resolves a file's header row against the alias table.
// date and description are always required; amount may instead be carried
// by a debit/credit column pair. The account column is optional because an
// account ID can be supplied per batch.
func (a FieldAliases) ResolveHeader(file string, headers []string) (Header, error) {
	h := Header{
		Date:        a.find(headers, FieldDate),
		Description: a.find(headers, FieldDescription),
		Amount:      a.find(headers, FieldAmount),
		Debit:       a.find(headers, FieldDebit),
		Credit:      a.find(headers, FieldCredit),
		Account:     a.find(headers, FieldAccount),
		Category:    a.find(headers, FieldCategory),
		Memo:        a.find(headers, FieldMemo),
		Tags:        a.find(headers, FieldTags),
	}

	if h.Date < 0 {
		return h, &MissingColumnError{File: file, Field: FieldDate}
	}
	if h.Description < 0 {
		return h, &MissingColumnError{File: file, Field: FieldDescription}
	}
	if h.Amount < 0 && h.Debit < 0 && h.Credit < 0 {
		return h, &MissingColumnError{File: file, Field: FieldAmount}
	}
	return h, nil
}

// find returns the index of the first header matching any variant of the
// field, in variant order, or -1.
func (a FieldAliases) find(headers []string, field string) int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, variant := range a[field] {
		v := strings.ToLower(strings.TrimSpace(variant))
		for i, h := range lower {
			if h == v {
				return i
			}
		}
	}
	return -1
}
