package trial

import (
	"context"

	domain "fitclub/internal/domain/trial"
)

// Store persists free-trial signups.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Signup, error)
	Create(ctx context.Context, value domain.Signup) error
	List(ctx context.Context) ([]domain.Signup, error)
}
