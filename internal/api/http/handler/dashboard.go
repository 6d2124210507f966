package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/query"
	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
	"github.com/Alijeyrad/dentalcenter/internal/service/dashboard"
)

type DashboardHandler struct {
	svc  dashboard.Service
	auth auth.Service
}

func NewDashboardHandler(svc dashboard.Service, authSvc auth.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc, auth: authSvc}
}

func mapDashboardError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dashboard.ErrNotPatient):
		return forbidden(c)
	case errors.Is(err, dashboard.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrUserNotFound):
		return unauthorized(c, "unauthorized")
	default:
		return internalError(c, err)
	}
}

// GET /api/v1/dashboard
func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	s, err := h.svc.AdminSummary(c.Context())
	if err != nil {
		return mapDashboardError(c, err)
	}
	return ok(c, s)
}

// GET /api/v1/calendar?from=&to=
// Bounds accept a date ("2025-07-01") or a datetime; either may be omitted.
func (h *DashboardHandler) Calendar(c fiber.Ctx) error {
	from, err := parseBound(c.Query("from"))
	if err != nil {
		return badRequest(c, "invalid from")
	}
	to, err := parseBound(c.Query("to"))
	if err != nil {
		return badRequest(c, "invalid to")
	}

	events, err := h.svc.Calendar(c.Context(), query.Window{From: from, To: to})
	if err != nil {
		return mapDashboardError(c, err)
	}
	return ok(c, events)
}

// GET /api/v1/me/dashboard
func (h *DashboardHandler) Mine(c fiber.Ctx) error {
	sess, err := sessionFromClaims(c, h.auth)
	if err != nil {
		return mapDashboardError(c, err)
	}

	d, err := h.svc.PatientDashboard(c.Context(), sess)
	if err != nil {
		return mapDashboardError(c, err)
	}
	return ok(c, d)
}

func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := model.ParseDate(s); err == nil {
		return d.Time, nil
	}
	dt, err := model.ParseDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return dt.Time, nil
}
