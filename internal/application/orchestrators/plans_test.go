package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitclub/internal/domain/access"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/plan"
)

func planForm() form.Values {
	return form.Values{"name": "Gold", "duration_months": "6", "price": "249.50", "description": "All **classes**"}
}

// TestExecuteCreatePlan_AccessTiers tests that plan or admin access suffices.
func TestExecuteCreatePlan_AccessTiers(t *testing.T) {
	tests := []struct {
		name  string
		flags access.Flags
		ok    bool
	}{
		{"anonymous", access.Flags{}, false},
		{"plan manager", access.Flags{PlanAccess: true}, true},
		{"admin", access.Flags{AdminAccess: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockPlanStore()
			p, err := ExecuteCreatePlan(context.Background(), CreatePlanInput{Values: planForm(), Flags: tt.flags},
				CreatePlanDeps{PlanStore: store, GenerateID: sequentialIDs("plan")})
			if !tt.ok {
				if !errors.Is(err, ErrPlanAccessRequired) {
					t.Errorf("expected ErrPlanAccessRequired, got %v", err)
				}
				if len(store.plans) != 0 {
					t.Error("expected nothing persisted")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.DurationMonths != 6 || p.Price.StringFixed(2) != "249.50" {
				t.Errorf("unexpected plan %+v", p)
			}
			if _, ok := store.plans["plan-1"]; !ok {
				t.Error("expected plan persisted")
			}
		})
	}
}

// TestExecuteCreatePlan_Validation tests field errors.
func TestExecuteCreatePlan_Validation(t *testing.T) {
	values := form.Values{"name": "", "duration_months": "0", "price": "12345678901"}
	_, err := ExecuteCreatePlan(context.Background(), CreatePlanInput{Values: values, Flags: access.Flags{PlanAccess: true}},
		CreatePlanDeps{PlanStore: newMockPlanStore()})

	var fe form.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected form.Errors, got %v", err)
	}
	if len(fe) != 3 {
		t.Fatalf("expected 3 errors, got %v", fe)
	}
	if fe[0].Field != "name" || fe[1].Field != "duration_months" || fe[2].Field != "price" {
		t.Errorf("unexpected order %v", fe)
	}
	if fe[2].Message != "Ensure that there are no more than 10 digits in total." {
		t.Errorf("price message = %q", fe[2].Message)
	}
}

// TestExecuteCreatePlan_MultiByteName tests that the name limit counts characters.
func TestExecuteCreatePlan_MultiByteName(t *testing.T) {
	store := newMockPlanStore()
	values := planForm()
	values["name"] = strings.Repeat("é", plan.MaxNameLength)

	p, err := ExecuteCreatePlan(context.Background(), CreatePlanInput{Values: values, Flags: access.Flags{PlanAccess: true}},
		CreatePlanDeps{PlanStore: store, GenerateID: sequentialIDs("plan")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != values["name"] {
		t.Errorf("name = %q", p.Name)
	}
}

// TestExecuteSeedPlans tests the default plan is created once.
func TestExecuteSeedPlans(t *testing.T) {
	store := newMockPlanStore()
	deps := SeedPlansDeps{PlanStore: store, GenerateID: sequentialIDs("seed")}

	if err := ExecuteSeedPlans(context.Background(), deps); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ExecuteSeedPlans(context.Background(), deps); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if len(store.plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(store.plans))
	}
	p := store.plans["seed-1"]
	if p.Name != plan.DefaultName || p.DurationMonths != 1 || !p.Price.IsZero() {
		t.Errorf("unexpected seed plan %+v", p)
	}
}

// TestExecuteSeedPlans_StoreFailure tests that lookup errors propagate.
func TestExecuteSeedPlans_StoreFailure(t *testing.T) {
	store := newMockPlanStore()
	store.getErr = errStoreDown
	if err := ExecuteSeedPlans(context.Background(), SeedPlansDeps{PlanStore: store}); !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}
}
