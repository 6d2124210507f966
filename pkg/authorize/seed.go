package authorize

import (
	"context"
	"fmt"
)

// DefaultPolicies: admins manage everything, patients only read their own
// dashboard.
func DefaultPolicies() []PermissionPolicy {
	return []PermissionPolicy{
		{RoleAdmin, WildcardResource, ActionManage, EffectAllow},
		{RolePatient, ResourceOwnDashboard, ActionRead, EffectAllow},
	}
}

// SeedDefaultPolicies loads DefaultPolicies into auth.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	for _, p := range DefaultPolicies() {
		if _, err := auth.AddPermission(ctx, p); err != nil {
			return fmt.Errorf("seed policy %s/%s/%s: %w", p.Subject, p.Object, p.Action, err)
		}
	}
	return nil
}

// New returns an audited authorization seeded with DefaultPolicies.
func New(ctx context.Context, cfg Config) (IAuthorization, error) {
	e, err := NewEnforcer()
	if err != nil {
		return nil, err
	}
	base, err := NewAuthorization(e)
	if err != nil {
		return nil, err
	}

	var auth IAuthorization = base
	if cfg.EnableAudit {
		auth = NewAuditedAuthorization(base, cfg.Logger)
	}
	if err := SeedDefaultPolicies(ctx, auth); err != nil {
		return nil, err
	}
	return auth, nil
}
