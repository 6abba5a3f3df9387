package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fitclub/internal/adapters/storage"
	trialStore "fitclub/internal/adapters/storage/trial"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/trial"
)

// TrialStoreForRegister defines the store interface needed by RegisterTrial.
type TrialStoreForRegister interface {
	GetByUsername(ctx context.Context, username string) (trial.Signup, error)
	Create(ctx context.Context, s trial.Signup) error
}

// RegisterTrialInput carries the submitted free-trial form.
type RegisterTrialInput struct {
	Values form.Values
}

// RegisterTrialDeps holds dependencies for RegisterTrial.
type RegisterTrialDeps struct {
	TrialStore TrialStoreForRegister
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegisterTrial validates the form and stores a trial signup with a hashed password.
// The signup is not linked to any member, plan or payment.
// PRE: input.Values holds the raw form fields
// POST: On success one signup is persisted; on form.Errors nothing is
func ExecuteRegisterTrial(ctx context.Context, input RegisterTrialInput, deps RegisterTrialDeps) (trial.Signup, error) {
	values, errs := TrialSchema.Validate(input.Values)

	username := values.Get("username")
	if len(errs.For("username")) == 0 {
		_, err := deps.TrialStore.GetByUsername(ctx, username)
		switch {
		case err == nil:
			errs.Add(TrialSchema, "username", MsgUsernameTaken)
		case !errors.Is(err, storage.ErrNotFound):
			return trial.Signup{}, fmt.Errorf("check trial username: %w", err)
		}
	}
	if len(errs) > 0 {
		return trial.Signup{}, errs
	}

	dob, _ := form.ParseDate(values.Get("date_of_birth"))
	s := trial.Signup{
		ID:          newID(deps.GenerateID),
		Username:    username,
		Phone:       values.Get("phone"),
		DateOfBirth: dob,
		Address:     values.Get("address"),
		CreatedAt:   now(deps.Now),
	}
	if err := s.SetPassword(values.Get("password")); err != nil {
		return trial.Signup{}, err
	}
	if err := s.Validate(); err != nil {
		return trial.Signup{}, err
	}

	if err := deps.TrialStore.Create(ctx, s); err != nil {
		if errors.Is(err, trialStore.ErrUsernameTaken) {
			var taken form.Errors
			taken.Add(TrialSchema, "username", MsgUsernameTaken)
			return trial.Signup{}, taken
		}
		return trial.Signup{}, fmt.Errorf("save trial signup: %w", err)
	}

	slog.Info("registration_event", "event", "trial_registered", "trial_id", s.ID)
	return s, nil
}
