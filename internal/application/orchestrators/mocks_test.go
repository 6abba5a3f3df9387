package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	emailAdapter "fitclub/internal/adapters/email"
	"fitclub/internal/adapters/storage"
	accountStore "fitclub/internal/adapters/storage/account"
	"fitclub/internal/domain/account"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/payment"
	"fitclub/internal/domain/plan"
	"fitclub/internal/domain/trial"
)

func init() {
	account.HashCost = bcrypt.MinCost
	trial.HashCost = bcrypt.MinCost
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedToday() time.Time { return member.Today(fixedTime) }

// sequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errStoreDown = errors.New("store down")

// mockAccountStore implements the account store interfaces for testing.
type mockAccountStore struct {
	accounts map[string]account.Account
	saveErr  error
	deleted  []string
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

// GetByUsername implements AccountStoreForRegister.
// PRE: username is non-empty
// POST: returns the account or storage.ErrNotFound
func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return account.Account{}, storage.ErrNotFound
}

// Save implements AccountStoreForRegister.
// PRE: a is valid
// POST: a is persisted unless saveErr is set
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, existing := range m.accounts {
		if existing.Username == a.Username && existing.ID != a.ID {
			return accountStore.ErrUsernameTaken
		}
	}
	m.accounts[a.ID] = a
	return nil
}

// Delete implements AccountStoreForRegister.
// PRE: id is non-empty
// POST: account removed
func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.accounts, id)
	return nil
}

// mockMemberStore implements the member store interfaces for testing.
type mockMemberStore struct {
	members map[string]member.Member
	saves   int
	saveErr error
}

func newMockMemberStore(ms ...member.Member) *mockMemberStore {
	s := &mockMemberStore{members: make(map[string]member.Member)}
	for _, m := range ms {
		s.members[m.ID] = m
	}
	return s
}

// GetByID implements MemberStoreForLifecycle.
// PRE: id is non-empty
// POST: returns the member or storage.ErrNotFound
func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member: %w", storage.ErrNotFound)
	}
	return mem, nil
}

// Save implements MemberStoreForLifecycle.
// PRE: mem is valid
// POST: mem is persisted unless saveErr is set
func (m *mockMemberStore) Save(_ context.Context, mem member.Member) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.members[mem.ID] = mem
	return nil
}

// mockPlanStore implements the plan store interfaces for testing.
type mockPlanStore struct {
	plans  map[string]plan.Plan
	getErr error
}

func newMockPlanStore(ps ...plan.Plan) *mockPlanStore {
	s := &mockPlanStore{plans: make(map[string]plan.Plan)}
	for _, p := range ps {
		s.plans[p.ID] = p
	}
	return s
}

// GetByID implements PlanStoreForAssign.
// PRE: id is non-empty
// POST: returns the plan or storage.ErrNotFound
func (m *mockPlanStore) GetByID(_ context.Context, id string) (plan.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return plan.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

// GetByName implements PlanLookup.
// PRE: name is non-empty
// POST: returns the plan or storage.ErrNotFound
func (m *mockPlanStore) GetByName(_ context.Context, name string) (plan.Plan, error) {
	if m.getErr != nil {
		return plan.Plan{}, m.getErr
	}
	for _, p := range m.plans {
		if p.Name == name {
			return p, nil
		}
	}
	return plan.Plan{}, storage.ErrNotFound
}

// Save implements PlanStoreForCreate.
// PRE: p is valid
// POST: p is persisted
func (m *mockPlanStore) Save(_ context.Context, p plan.Plan) error {
	m.plans[p.ID] = p
	return nil
}

// mockPaymentStore implements PaymentStoreForRecord for testing.
type mockPaymentStore struct {
	payments []payment.Payment
	err      error
}

// Create implements PaymentStoreForRecord.
// PRE: p is valid
// POST: p is appended unless err is set
func (m *mockPaymentStore) Create(_ context.Context, p payment.Payment) error {
	if m.err != nil {
		return m.err
	}
	m.payments = append(m.payments, p)
	return nil
}

// mockTrialStore implements TrialStoreForRegister for testing.
type mockTrialStore struct {
	signups map[string]trial.Signup
}

func newMockTrialStore() *mockTrialStore {
	return &mockTrialStore{signups: make(map[string]trial.Signup)}
}

// GetByUsername implements TrialStoreForRegister.
// PRE: username is non-empty
// POST: returns the signup or storage.ErrNotFound
func (m *mockTrialStore) GetByUsername(_ context.Context, username string) (trial.Signup, error) {
	s, ok := m.signups[username]
	if !ok {
		return trial.Signup{}, storage.ErrNotFound
	}
	return s, nil
}

// Create implements TrialStoreForRegister.
// PRE: s is valid
// POST: s is persisted
func (m *mockTrialStore) Create(_ context.Context, s trial.Signup) error {
	m.signups[s.Username] = s
	return nil
}

// failingMailer always fails to send.
type failingMailer struct{}

// Send implements email.Sender.
// PRE: none
// POST: returns an error
func (failingMailer) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errors.New("smtp unreachable")
}
