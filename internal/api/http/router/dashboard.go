package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/api/http/handler"
	"github.com/Alijeyrad/dentalcenter/pkg/authorize"
)

func (r *Router) registerDashboardRoutes(api fiber.Router, h *handler.DashboardHandler, authRequired fiber.Handler, requirePerm permFunc) {
	api.Get("/dashboard", authRequired, requirePerm(authorize.ResourceDashboard, authorize.ActionRead), h.Summary)
	api.Get("/calendar", authRequired, requirePerm(authorize.ResourceCalendar, authorize.ActionRead), h.Calendar)
	api.Get("/me/dashboard", authRequired, requirePerm(authorize.ResourceOwnDashboard, authorize.ActionRead), h.Mine)
}
