package authorize

import (
	"context"
	"errors"
	"testing"

	"github.com/Alijeyrad/dentalcenter/pkg/reqctx"
)

func newTestAuth(t *testing.T) IAuthorization {
	t.Helper()
	auth, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return auth
}

func TestDefaultPolicies(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		role   Role
		object Resource
		action Action
		want   bool
	}{
		{"admin creates patients", RoleAdmin, ResourcePatient, ActionCreate, true},
		{"admin deletes incidents", RoleAdmin, ResourceIncident, ActionDelete, true},
		{"admin reads calendar", RoleAdmin, ResourceCalendar, ActionRead, true},
		{"admin reads dashboard", RoleAdmin, ResourceDashboard, ActionRead, true},
		{"patient reads own dashboard", RolePatient, ResourceOwnDashboard, ActionRead, true},
		{"patient lists patients", RolePatient, ResourcePatient, ActionList, false},
		{"patient reads admin dashboard", RolePatient, ResourceDashboard, ActionRead, false},
		{"patient updates own dashboard", RolePatient, ResourceOwnDashboard, ActionUpdate, false},
		{"unknown role", Role("Dentist"), ResourcePatient, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforce_InvalidArgs(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Enforce(ctx, "", ResourcePatient, ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("empty role error = %v, want ErrInvalidArgs", err)
	}
	if _, err := auth.Enforce(ctx, RoleAdmin, "billing", ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown resource error = %v, want ErrInvalidArgs", err)
	}
	if _, err := auth.Enforce(ctx, RoleAdmin, ResourcePatient, "approve"); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown action error = %v, want ErrInvalidArgs", err)
	}
}

func TestMustEnforce(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if err := auth.MustEnforce(ctx, RoleAdmin, ResourcePatient, ActionUpdate); err != nil {
		t.Errorf("MustEnforce(admin) error = %v", err)
	}
	if err := auth.MustEnforce(ctx, RolePatient, ResourcePatient, ActionUpdate); !errors.Is(err, ErrForbidden) {
		t.Errorf("MustEnforce(patient) error = %v, want ErrForbidden", err)
	}
}

func TestDenyOverridesAllow(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	deny := PermissionPolicy{RoleAdmin, ResourceAttachment, ActionDelete, EffectDeny}
	if _, err := auth.AddPermission(ctx, deny); err != nil {
		t.Fatalf("AddPermission() error = %v", err)
	}
	if ok, _ := auth.Enforce(ctx, RoleAdmin, ResourceAttachment, ActionDelete); ok {
		t.Error("deny policy did not override manage")
	}

	if removed, err := auth.RemovePermission(ctx, deny); err != nil || !removed {
		t.Fatalf("RemovePermission() = %v, %v", removed, err)
	}
	if ok, _ := auth.Enforce(ctx, RoleAdmin, ResourceAttachment, ActionDelete); !ok {
		t.Error("admin still denied after removing the deny policy")
	}
}

func TestAddPermission_Validates(t *testing.T) {
	auth := newTestAuth(t)

	bad := []PermissionPolicy{
		{Subject: "", Object: ResourcePatient, Action: ActionRead, Effect: EffectAllow},
		{Subject: "Dentist", Object: ResourcePatient, Action: ActionRead, Effect: EffectAllow},
		{Subject: RoleAdmin, Object: "billing", Action: ActionRead, Effect: EffectAllow},
		{Subject: RoleAdmin, Object: ResourcePatient, Action: ActionRead, Effect: "maybe"},
	}
	for _, p := range bad {
		if _, err := auth.AddPermission(context.Background(), p); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("AddPermission(%+v) error = %v, want ErrInvalidArgs", p, err)
		}
	}
}

type testClaims struct{ role string }

func (c testClaims) GetUserID() string { return "1" }
func (c testClaims) GetRole() string   { return c.role }
func (c testClaims) IsExpired() bool   { return false }

func TestRoleFromContext(t *testing.T) {
	if _, err := RoleFromContext(context.Background()); !errors.Is(err, ErrNoSubjectInContext) {
		t.Errorf("RoleFromContext(empty) error = %v", err)
	}

	ctx := reqctx.WithClaims(context.Background(), testClaims{role: "Admin"})
	role, err := RoleFromContext(ctx)
	if err != nil || role != RoleAdmin {
		t.Errorf("RoleFromContext() = %q, %v", role, err)
	}
}
