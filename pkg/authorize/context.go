package authorize

import (
	"context"
	"errors"

	"github.com/Alijeyrad/dentalcenter/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// RoleFromContext extracts the caller's role from authenticated claims.
func RoleFromContext(ctx context.Context) (Role, error) {
	claims := reqctx.ClaimsFromContext(ctx)
	if claims == nil || claims.GetRole() == "" {
		return "", ErrNoSubjectInContext
	}
	return Role(claims.GetRole()), nil
}
