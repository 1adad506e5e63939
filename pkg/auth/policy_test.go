package auth

import (
	"testing"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

func TestRoleClaimPolicy(t *testing.T) {
	policy := RoleClaimPolicy{}
	if !policy.IsAdmin(Identity{UID: "a", Role: enums.ActorRoleAdmin}) {
		t.Fatal("admin role should pass")
	}
	if policy.IsAdmin(Identity{UID: "b", Role: enums.ActorRoleBuyer}) {
		t.Fatal("buyer role should not pass")
	}
}

func TestEmailAllowlistPolicyNormalizes(t *testing.T) {
	policy := NewEmailAllowlistPolicy([]string{" Ops@BidAgri.PK "})
	if !policy.IsAdmin(Identity{Email: "ops@bidagri.pk"}) {
		t.Fatal("allow-listed email should pass")
	}
	if policy.IsAdmin(Identity{Email: "stranger@bidagri.pk"}) {
		t.Fatal("unknown email should not pass")
	}
}

func TestDefaultAdminPolicyIsUnion(t *testing.T) {
	policy := DefaultAdminPolicy([]string{"ops@bidagri.pk"})

	cases := []struct {
		name     string
		identity Identity
		want     bool
	}{
		{"role claim only", Identity{Role: enums.ActorRoleAdmin}, true},
		{"allow-list only", Identity{Role: enums.ActorRoleFarmer, Email: "ops@bidagri.pk"}, true},
		{"neither", Identity{Role: enums.ActorRoleBuyer, Email: "x@y.z"}, false},
	}
	for _, tc := range cases {
		if got := policy.IsAdmin(tc.identity); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
