package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z07:00",
}

// DateLayout is the canonical on-disk date format.
const DateLayout = "2006-01-02"

// ParseDate parses a source date value into canonical YYYY-MM-DD form.
func ParseDate(s string) (string, error) {
	t := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, t); err == nil {
			return d.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// Identity derives the stable transaction key. It is a pure function of the
// identity tuple; any change to a constituent changes the key.
func Identity(date, accountID string, amountCents int64, merchantNorm string, occurrence int) string {
	key := fmt.Sprintf("%s|%s|%d|%s|%d", date, accountID, amountCents, merchantNorm, occurrence)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Options controls canonicalization of one file.
type Options struct {
	// AccountID is used for every row when the file has no account column.
	AccountID string
	// Aliases is the header alias table; nil means DefaultAliases.
	Aliases FieldAliases
}

// Result is the outcome of canonicalizing one file.
type Result struct {
	Transactions []Transaction
	Skipped      []RowParseError
}

// CanonicalizeFile maps every row of a raw file onto the canonical schema.
// A nil error with a non-empty Skipped list means some rows were dropped;
// a *MissingColumnError means the whole file is unusable.
func CanonicalizeFile(f *RawFile, opts Options) (*Result, error) {
	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases()
	}

	header, err := aliases.ResolveHeader(f.Path, f.Headers)
	if err != nil {
		return nil, err
	}
	if header.Account < 0 && opts.AccountID == "" {
		return nil, &MissingColumnError{File: f.Path, Field: FieldAccount}
	}

	res := &Result{}
	for _, rec := range f.Rows {
		txn, perr := canonicalizeRow(f.Path, header, rec, opts.AccountID)
		if perr != nil {
			res.Skipped = append(res.Skipped, *perr)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}

	assignOccurrences(res.Transactions)
	for i := range res.Transactions {
		t := &res.Transactions[i]
		t.Identity = Identity(t.Date, t.AccountID, t.AmountCents, t.MerchantNorm, t.Occurrence)
	}
	return res, nil
}

func canonicalizeRow(file string, h Header, rec RawRecord, defaultAccount string) (Transaction, *RowParseError) {
	date, err := ParseDate(cell(rec, h.Date))
	if err != nil {
		return Transaction{}, &RowParseError{
			File: file, Line: rec.Line, Field: FieldDate,
			Value: cell(rec, h.Date), Reason: "bad date",
		}
	}

	cents, perr := rowCents(file, h, rec)
	if perr != nil {
		return Transaction{}, perr
	}

	account := defaultAccount
	if h.Account >= 0 {
		if v := strings.TrimSpace(cell(rec, h.Account)); v != "" {
			account = v
		}
	}
	if account == "" {
		return Transaction{}, &RowParseError{
			File: file, Line: rec.Line, Field: FieldAccount, Reason: "empty account id",
		}
	}

	desc := strings.TrimSpace(cell(rec, h.Description))
	return Transaction{
		Date:         date,
		AccountID:    account,
		AmountCents:  cents,
		Description:  desc,
		MerchantNorm: NormalizeMerchant(desc),
		BaseCategory: strings.TrimSpace(cell(rec, h.Category)),
		Memo:         strings.TrimSpace(cell(rec, h.Memo)),
		Tags:         strings.TrimSpace(cell(rec, h.Tags)),
	}, nil
}

// rowCents computes the signed amount in cents from either a single amount
// column or a debit/credit pair (credit - debit, so income is positive).
func rowCents(file string, h Header, rec RawRecord) (int64, *RowParseError) {
	if h.Amount >= 0 {
		raw := cell(rec, h.Amount)
		d, err := ParseAmount(raw)
		if err != nil {
			return 0, &RowParseError{
				File: file, Line: rec.Line, Field: FieldAmount,
				Value: raw, Reason: "non-numeric amount",
			}
		}
		return Cents(d), nil
	}

	var cents int64
	if h.Credit >= 0 {
		if raw := strings.TrimSpace(cell(rec, h.Credit)); raw != "" {
			d, err := ParseAmount(raw)
			if err != nil {
				return 0, &RowParseError{
					File: file, Line: rec.Line, Field: FieldCredit,
					Value: raw, Reason: "non-numeric amount",
				}
			}
			cents += Cents(d)
		}
	}
	if h.Debit >= 0 {
		if raw := strings.TrimSpace(cell(rec, h.Debit)); raw != "" {
			d, err := ParseAmount(raw)
			if err != nil {
				return 0, &RowParseError{
					File: file, Line: rec.Line, Field: FieldDebit,
					Value: raw, Reason: "non-numeric amount",
				}
			}
			cents -= Cents(d)
		}
	}
	return cents, nil
}

// assignOccurrences gives rows sharing (date, account, cents, merchant_norm)
// sequential indices from 0, in stable input order, so same-day identical
// charges form distinct reproducible identities.
func assignOccurrences(txns []Transaction) {
	seen := make(map[string]int, len(txns))
	for i := range txns {
		t := &txns[i]
		key := fmt.Sprintf("%s|%s|%d|%s", t.Date, t.AccountID, t.AmountCents, t.MerchantNorm)
		t.Occurrence = seen[key]
		seen[key]++
	}
}

func cell(rec RawRecord, idx int) string {
	if idx < 0 || idx >= len(rec.Values) {
		return ""
	}
	return rec.Values[idx]
}
