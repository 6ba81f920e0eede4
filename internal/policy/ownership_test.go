package policy_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/policy"
)

type mockOwnable struct {
	userID uint
}

func (m *mockOwnable) GetUserID() uint { return m.userID }

type mockNonOwnable struct {
	ID uint
}

func TestOwnershipPolicy_NilResource(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	if !p.Can(context.Background(), 1, gate.ActionList, nil) {
		t.Error("Expected Can to return true for nil resource")
	}
}

func TestOwnershipPolicy_OwnerCanAccess(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	ctx := context.Background()
	resource := &mockOwnable{userID: 42}

	for _, action := range []gate.Action{gate.ActionView, gate.ActionUpdate, gate.ActionAllocate, gate.ActionRelease} {
		if !p.Can(ctx, 42, action, resource) {
			t.Errorf("Expected owner to be allowed to %s", action)
		}
		if p.Can(ctx, 99, action, resource) {
			t.Errorf("Expected non-owner to be denied %s", action)
		}
	}
}

func TestOwnershipPolicy_UnloadedOwnerDenied(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	// An association that was not preloaded reports owner 0.
	if p.Can(context.Background(), 0, gate.ActionView, &mockOwnable{}) {
		t.Error("Expected resource without owner to be denied")
	}
}

func TestOwnershipPolicy_NonOwnableResource(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	if p.Can(context.Background(), 1, gate.ActionView, &mockNonOwnable{ID: 1}) {
		t.Error("Expected non-Ownable resource to be denied")
	}
}
