package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/account"
)

// ErrUsernameTaken is returned by Save when another account holds the username.
var ErrUsernameTaken = errors.New("username already taken")

const selectAccount = "SELECT id, username, email, password_hash, created_at FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id)
	return scanAccount(row)
}

// GetByUsername retrieves an Account by username (exact match).
// PRE: username is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectAccount+" WHERE username = ?", username)
	return scanAccount(row)
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; a clashing username yields ErrUsernameTaken
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO account (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			email=excluded.email,
			password_hash=excluded.password_hash`,
		entity.ID,
		entity.Username,
		entity.Email,
		entity.PasswordHash,
		storage.FormatTime(entity.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

// Delete removes an Account; its member row cascades.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	err := row.Scan(&entity.ID, &entity.Username, &entity.Email, &entity.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, fmt.Errorf("account %s created_at: %w", entity.ID, err)
	}
	return entity, nil
}
