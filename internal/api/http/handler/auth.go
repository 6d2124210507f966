package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
	pasetotoken "github.com/Alijeyrad/dentalcenter/pkg/paseto"
)

type AuthHandler struct {
	svc    auth.Service
	tokens *pasetotoken.Manager
}

func NewAuthHandler(svc auth.Service, tokens *pasetotoken.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrUserNotFound):
		return unauthorized(c, "unauthorized")
	default:
		return internalError(c, err)
	}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	sess, err := h.svc.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	token, err := h.tokens.IssueAccess(sess.User.ID, string(sess.User.Role))
	if err != nil {
		return internalError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token": token,
		"expires_in":   int(h.tokens.TTL().Seconds()),
		"user":         sess.User,
	})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if err := h.svc.Logout(c.Context()); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c, "unauthorized")
	}
	u, err := h.svc.UserByID(c.Context(), claims.UserID)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, u)
}

// sessionFromClaims rebuilds the caller's session from the token.
func sessionFromClaims(c fiber.Ctx, svc auth.Service) (*auth.Session, error) {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return nil, auth.ErrNoSession
	}
	u, err := svc.UserByID(c.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	return auth.NewSession(*u), nil
}
