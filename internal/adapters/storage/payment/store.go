package payment

import (
	"context"

	domain "fitclub/internal/domain/payment"
)

// Store persists Payment records. Payments are append-only.
type Store interface {
	Create(ctx context.Context, value domain.Payment) error
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error)
}
