package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/payment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a Payment. There is no update path.
// PRE: entity has been validated; its member exists
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Payment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payment (id, member_id, amount, paid_at, status) VALUES (?, ?, ?, ?, ?)",
		entity.ID,
		entity.MemberID,
		entity.Amount.StringFixed(2),
		storage.FormatTime(entity.PaidAt),
		string(entity.Status),
	)
	return err
}

// ListByMemberID returns a member's payments, newest first.
// PRE: memberID is non-empty
// POST: Returns the member's payments (possibly empty)
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, amount, paid_at, status FROM payment WHERE member_id = ? ORDER BY paid_at DESC, rowid DESC",
		memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var amount, paidAt, status string
		if err := rows.Scan(&p.ID, &p.MemberID, &amount, &paidAt, &status); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("payment %s amount: %w", p.ID, err)
		}
		if p.PaidAt, err = storage.ParseTime(paidAt); err != nil {
			return nil, fmt.Errorf("payment %s paid_at: %w", p.ID, err)
		}
		p.Status = domain.Status(status)
		results = append(results, p)
	}
	return results, rows.Err()
}
