package plan

import (
	"context"

	domain "fitclub/internal/domain/plan"
)

// Store persists Plan state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	GetByName(ctx context.Context, name string) (domain.Plan, error)
	List(ctx context.Context) ([]domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	Delete(ctx context.Context, id string) error
}
