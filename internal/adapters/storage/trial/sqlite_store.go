package trial

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/trial"
)

// ErrUsernameTaken is returned by Create when the trial username exists.
var ErrUsernameTaken = errors.New("trial username already taken")

const selectSignup = "SELECT id, username, password_hash, phone, date_of_birth, address, created_at FROM trial_signup"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new trial signup store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves a signup by username.
// PRE: username is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Signup, error) {
	return scanSignup(s.db.QueryRowContext(ctx, selectSignup+" WHERE username = ?", username).Scan)
}

// Create inserts a signup.
// PRE: entity has been validated (password already hashed)
// POST: Entity is persisted; a clashing username yields ErrUsernameTaken
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Signup) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trial_signup (id, username, password_hash, phone, date_of_birth, address, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		entity.ID,
		entity.Username,
		entity.PasswordHash,
		entity.Phone,
		storage.FormatDate(entity.DateOfBirth),
		entity.Address,
		storage.FormatTime(entity.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

// List returns every signup, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Signup, error) {
	rows, err := s.db.QueryContext(ctx, selectSignup+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Signup
	for rows.Next() {
		signup, err := scanSignup(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, signup)
	}
	return results, rows.Err()
}

func scanSignup(scan func(dest ...any) error) (domain.Signup, error) {
	var entity domain.Signup
	var dob, createdAt string
	err := scan(&entity.ID, &entity.Username, &entity.PasswordHash, &entity.Phone, &dob, &entity.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Signup{}, fmt.Errorf("trial signup: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Signup{}, err
	}
	if entity.DateOfBirth, err = storage.ParseDate(dob); err != nil {
		return domain.Signup{}, fmt.Errorf("trial signup %s date_of_birth: %w", entity.ID, err)
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Signup{}, fmt.Errorf("trial signup %s created_at: %w", entity.ID, err)
	}
	return entity, nil
}
