package middleware

import (
	"github.com/gofiber/fiber/v3"

	pasetotoken "github.com/Alijeyrad/dentalcenter/pkg/paseto"
	"github.com/Alijeyrad/dentalcenter/pkg/reqctx"
)

// AuthRequired validates a Bearer PASETO access token. On success the claims
// are stored in c.Locals(pasetotoken.CtxKeyClaims) and in the request context.
func AuthRequired(mgr *pasetotoken.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		tok, ok := pasetotoken.BearerToken(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(tok)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}
