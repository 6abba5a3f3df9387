package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/plan"
)

const selectPlan = "SELECT id, name, duration_months, price, description FROM plan"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new plan store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Plan by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	return scanPlan(s.db.QueryRowContext(ctx, selectPlan+" WHERE id = ?", id).Scan)
}

// GetByName returns the earliest-created plan with exactly this name.
// Names are not unique; duplicates resolve to the lowest rowid.
// PRE: name is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Plan, error) {
	return scanPlan(s.db.QueryRowContext(ctx, selectPlan+" WHERE name = ? ORDER BY rowid LIMIT 1", name).Scan)
}

// List returns every plan ordered by name.
// PRE: none
// POST: Returns all plans (possibly empty)
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, selectPlan+" ORDER BY name, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Save persists a Plan (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Plan) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO plan (id, name, duration_months, price, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			duration_months=excluded.duration_months,
			price=excluded.price,
			description=excluded.description`,
		entity.ID,
		entity.Name,
		entity.DurationMonths,
		entity.Price.StringFixed(2),
		entity.Description,
	)
	return err
}

// Delete removes a Plan; members holding it are left with no plan.
// PRE: id is non-empty
// POST: Entity is removed, member.plan_id set to NULL where it matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM plan WHERE id = ?", id)
	return err
}

func scanPlan(scan func(dest ...any) error) (domain.Plan, error) {
	var entity domain.Plan
	var price string
	err := scan(&entity.ID, &entity.Name, &entity.DurationMonths, &price, &entity.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, fmt.Errorf("plan: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Plan{}, err
	}
	if entity.Price, err = decimal.NewFromString(price); err != nil {
		return domain.Plan{}, fmt.Errorf("plan %s price: %w", entity.ID, err)
	}
	return entity, nil
}
