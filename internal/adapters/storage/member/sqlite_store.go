package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/member"
)

// ErrAccountHasMember is returned by Save when the account already owns another member.
var ErrAccountHasMember = errors.New("account already has a member")

const selectMember = "SELECT id, account_id, phone, date_of_birth, address, plan_id, join_date, membership_expiry FROM member"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return scanMember(s.db.QueryRowContext(ctx, selectMember+" WHERE id = ?", id).Scan)
}

// GetByAccountID retrieves the Member owned by an account.
// PRE: accountID is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Member, error) {
	return scanMember(s.db.QueryRowContext(ctx, selectMember+" WHERE account_id = ?", accountID).Scan)
}

// List returns members matching filter, oldest join first.
// PRE: filter.Limit >= 0, filter.Offset >= 0
// POST: Returns matching members (possibly empty)
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	var where []string
	var args []any
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.PlanID != "" {
		where = append(where, "plan_id = ?")
		args = append(args, filter.PlanID)
	}

	query := selectMember
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY join_date, rowid"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// Save persists a Member (insert or update). join_date is written once.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	var planID any
	if entity.PlanID != "" {
		planID = entity.PlanID
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO member (id, account_id, phone, date_of_birth, address, plan_id, join_date, membership_expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phone=excluded.phone,
			date_of_birth=excluded.date_of_birth,
			address=excluded.address,
			plan_id=excluded.plan_id,
			membership_expiry=excluded.membership_expiry`,
		entity.ID,
		entity.AccountID,
		entity.Phone,
		storage.FormatDate(entity.DateOfBirth),
		entity.Address,
		planID,
		storage.FormatDate(entity.JoinDate),
		storage.NullDate(entity.MembershipExpiry),
	)
	if storage.IsUniqueViolation(err) {
		return ErrAccountHasMember
	}
	return err
}

// Delete removes a Member; its payments cascade.
// PRE: id is non-empty
// POST: Entity with given id and its payments are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var dob, joinDate string
	var planID, expiry sql.NullString
	err := scan(&entity.ID, &entity.AccountID, &entity.Phone, &dob, &entity.Address, &planID, &joinDate, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, err
	}

	entity.PlanID = planID.String
	if entity.DateOfBirth, err = storage.ParseDate(dob); err != nil {
		return domain.Member{}, fmt.Errorf("member %s date_of_birth: %w", entity.ID, err)
	}
	if entity.JoinDate, err = storage.ParseDate(joinDate); err != nil {
		return domain.Member{}, fmt.Errorf("member %s join_date: %w", entity.ID, err)
	}
	if entity.MembershipExpiry, err = storage.ScanNullDate(expiry); err != nil {
		return domain.Member{}, fmt.Errorf("member %s membership_expiry: %w", entity.ID, err)
	}
	return entity, nil
}
