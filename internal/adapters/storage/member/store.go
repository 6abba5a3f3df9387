package member

import (
	"context"

	domain "fitclub/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Member, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
// Zero values mean "no filter"; Limit 0 means unlimited.
type ListFilter struct {
	AccountID string
	PlanID    string
	Limit     int
	Offset    int
}
