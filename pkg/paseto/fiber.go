package pasetotoken

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/gofiber/fiber/v3"
)

const CtxKeyClaims = "auth.claims"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c fiber.Ctx) (string, bool) {
	h := c.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	cl, ok := c.Locals(CtxKeyClaims).(*Claims)
	return cl, ok && cl != nil
}

// NewPasetoManager creates a new PASETO manager from config.
func NewPasetoManager(cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	p := cfg.Authentication.Paseto

	key, generated, err := LoadLocalKey(p.LocalKeyHex)
	if err != nil {
		return nil, err
	}
	if generated && logger != nil {
		logger.Warn("authentication.paseto.local_key_hex is empty; using an ephemeral key")
	}

	return New(Config{
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		AccessTTL: time.Duration(p.AccessTTLMinutes) * time.Minute,
	}, key)
}
