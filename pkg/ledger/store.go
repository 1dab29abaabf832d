package ledger

import (
	"database/sql"
	"fmt"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
)

// Store provides identity-keyed access to the canonical transactions table.
type Store struct {
	conn *Connection
}

// NewStore creates a Store over an open connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// MergeReport is the outcome of one batch merge.
type MergeReport struct {
	Inserted int
	Updated  int
	Skipped  int
	// CollisionWarnings counts identities that converged from semantically
	// distinct rows: within-batch duplicates, and updates that change a
	// non-identity field of an existing row. Warnings never fail a merge.
	CollisionWarnings int
}

// Merge upserts a batch of canonical transactions atomically: either the
// whole batch is visible afterwards or none of it is. Insert when the
// identity is absent; otherwise update every mutable non-identity field.
// Re-merging an unchanged batch is a no-op (rows count as Skipped).
// Within-batch duplicate identities are last-writer-wins.
func (s *Store) Merge(batch []canonical.Transaction) (MergeReport, error) {
	var report MergeReport

	err := s.conn.Transaction(func(tx *sql.Tx) error {
		find, err := tx.Prepare(`
			SELECT description, category, memo, tags, amount_cents
			FROM transactions WHERE txn_id = ?
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare lookup: %w", err)
		}
		defer find.Close()

		upsert, err := tx.Prepare(`
			INSERT INTO transactions
				(txn_id, date, account_id, amount_cents, amount,
				 description, merchant_norm, dup_seq, category, memo, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(txn_id) DO UPDATE SET
				amount_cents  = excluded.amount_cents,
				amount        = excluded.amount,
				description   = excluded.description,
				merchant_norm = excluded.merchant_norm,
				category      = excluded.category,
				memo          = excluded.memo,
				tags          = excluded.tags
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer upsert.Close()

		inBatch := make(map[string]bool, len(batch))
		for _, t := range batch {
			var (
				existing   canonical.Transaction
				existCents int64
			)
			row := find.QueryRow(t.Identity)
			scanErr := row.Scan(&existing.Description, &existing.BaseCategory,
				&existing.Memo, &existing.Tags, &existCents)

			switch {
			case scanErr == sql.ErrNoRows:
				report.Inserted++
			case scanErr != nil:
				return fmt.Errorf("failed to look up %s: %w", t.Identity, scanErr)
			default:
				if existing.Description == t.Description &&
					existing.BaseCategory == t.BaseCategory &&
					existing.Memo == t.Memo &&
					existing.Tags == t.Tags &&
					existCents == t.AmountCents {
					report.Skipped++
					if inBatch[t.Identity] {
						report.CollisionWarnings++
					}
					inBatch[t.Identity] = true
					continue
				}
				report.Updated++
				// Same identity tuple, different payload: two distinct
				// rows legitimately converge into one stored row.
				report.CollisionWarnings++
			}
			inBatch[t.Identity] = true

			amount, _ := t.Amount().Float64()
			if _, err := upsert.Exec(
				t.Identity, t.Date, t.AccountID, t.AmountCents, amount,
				t.Description, t.MerchantNorm, t.Occurrence,
				t.BaseCategory, t.Memo, t.Tags,
			); err != nil {
				return fmt.Errorf("failed to merge %s: %w", t.Identity, err)
			}
		}
		return nil
	})
	if err != nil {
		return MergeReport{}, err
	}
	return report, nil
}

// Find returns the transaction for an identity, or nil if absent.
func (s *Store) Find(identity string) (*canonical.Transaction, error) {
	row := s.conn.QueryRow(`
		SELECT txn_id, date, account_id, amount_cents,
		       description, merchant_norm, dup_seq,
		       COALESCE(category, ''), COALESCE(memo, ''), COALESCE(tags, '')
		FROM transactions WHERE txn_id = ?
	`, identity)

	var t canonical.Transaction
	err := row.Scan(&t.Identity, &t.Date, &t.AccountID, &t.AmountCents,
		&t.Description, &t.MerchantNorm, &t.Occurrence,
		&t.BaseCategory, &t.Memo, &t.Tags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &t, nil
}

// Scan returns all transactions matching the filter, in (date, account,
// identity) order. The filter is evaluated in-process; each call restarts
// from the beginning.
func (s *Store) Scan(filter Filter) ([]canonical.Transaction, error) {
	rows, err := s.conn.Query(`
		SELECT txn_id, date, account_id, amount_cents,
		       description, merchant_norm, dup_seq,
		       COALESCE(category, ''), COALESCE(memo, ''), COALESCE(tags, '')
		FROM transactions
		ORDER BY date, account_id, txn_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	defer rows.Close()

	var out []canonical.Transaction
	for rows.Next() {
		var t canonical.Transaction
		if err := rows.Scan(&t.Identity, &t.Date, &t.AccountID, &t.AmountCents,
			&t.Description, &t.MerchantNorm, &t.Occurrence,
			&t.BaseCategory, &t.Memo, &t.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return out, nil
}

// Count returns the number of stored transactions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
