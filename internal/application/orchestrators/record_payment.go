package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fitclub/internal/domain/access"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/money"
	"fitclub/internal/domain/payment"
)

// PaymentStoreForRecord defines the payment store interface needed by RecordPayment.
type PaymentStoreForRecord interface {
	Create(ctx context.Context, p payment.Payment) error
}

// RecordPaymentInput carries the submitted payment form.
type RecordPaymentInput struct {
	MemberID string
	Values   form.Values
	Flags    access.Flags
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	MemberStore  MemberStoreForLifecycle
	PaymentStore PaymentStoreForRecord
	Policy       payment.RenewalPolicy // empty means PolicyAnyStatus
	GenerateID   func() string
	Now          func() time.Time
}

// RecordPaymentResult carries the new payment and the member after renewal.
type RecordPaymentResult struct {
	Payment payment.Payment
	Member  member.Member
	Renewed bool
}

// ExecuteRecordPayment appends a payment and renews the membership per the policy.
// The payment insert and the member update are two separate writes.
// PRE: input.Flags.AdminAccess is true
// POST: Payment persisted with the given status; when the policy renews, expiry is
// extended by 30 days if still in the future, else reset to today + 30 days
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (RecordPaymentResult, error) {
	if !input.Flags.AdminAccess {
		return RecordPaymentResult{}, ErrAdminAccessRequired
	}

	values, errs := PaymentSchema.Validate(input.Values)
	if len(errs) > 0 {
		return RecordPaymentResult{}, errs
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return RecordPaymentResult{}, err
	}

	amount, _ := money.Parse(values.Get("amount"))
	paidAt := now(deps.Now)
	p := payment.Payment{
		ID:       newID(deps.GenerateID),
		MemberID: m.ID,
		Amount:   amount,
		PaidAt:   paidAt,
		Status:   payment.Status(values.Get("status")),
	}
	if err := p.Validate(); err != nil {
		return RecordPaymentResult{}, err
	}
	if err := deps.PaymentStore.Create(ctx, p); err != nil {
		return RecordPaymentResult{}, fmt.Errorf("create payment: %w", err)
	}

	policy := deps.Policy
	if policy == "" {
		policy = payment.PolicyAnyStatus
	}
	renewed := policy.Renews(p.Status)
	if renewed {
		m.ApplyPayment(member.Today(paidAt))
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			return RecordPaymentResult{}, fmt.Errorf("save member after payment %s: %w", p.ID, err)
		}
	}

	slog.Info("membership_event", "event", "payment_recorded",
		"member_id", m.ID, "payment_id", p.ID, "status", p.Status, "amount", money.Format(p.Amount), "renewed", renewed)
	return RecordPaymentResult{Payment: p, Member: m, Renewed: renewed}, nil
}
