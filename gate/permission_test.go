package gate_test

import (
	"testing"

	"github.com/diewo77/go-society/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("unit", gate.ActionAllocate)
	if perm != "unit:allocate" {
		t.Errorf("expected 'unit:allocate', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("parking_slot:update").Parse()
	if res != "parking_slot" || act != gate.ActionUpdate {
		t.Errorf("got %q %q", res, act)
	}
	res, act = gate.Permission("invalid").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		granted   gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"unit:allocate", "unit:allocate", true},
		{"unit:allocate", "unit:release", false},
		{"unit:*", "unit:release", true},
		{"unit:*", "tenant:list", false},
		{"*:list", "building:list", true},
		{"*:list", "building:update", false},
		{gate.PermissionAll, "payment:list", true},
		{"garbage", "unit:list", false},
	}
	for _, tt := range tests {
		if got := tt.granted.Matches(tt.requested); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.granted, tt.requested, got, tt.want)
		}
	}
}
