package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/api/http/handler"
	"github.com/Alijeyrad/dentalcenter/pkg/authorize"
)

func (r *Router) registerIncidentRoutes(api fiber.Router, h *handler.IncidentHandler, authRequired fiber.Handler, requirePerm permFunc) {
	incidents := api.Group("/incidents", authRequired)

	incidents.Get("/", requirePerm(authorize.ResourceIncident, authorize.ActionList), h.List)
	incidents.Post("/", requirePerm(authorize.ResourceIncident, authorize.ActionCreate), h.Create)

	i := incidents.Group("/:id")
	i.Get("/", requirePerm(authorize.ResourceIncident, authorize.ActionRead), h.Get)
	i.Patch("/", requirePerm(authorize.ResourceIncident, authorize.ActionUpdate), h.Update)
	i.Delete("/", requirePerm(authorize.ResourceIncident, authorize.ActionDelete), h.Delete)

	// Attachments
	i.Post("/files", requirePerm(authorize.ResourceAttachment, authorize.ActionCreate), h.UploadFiles)
	i.Delete("/files/:index", requirePerm(authorize.ResourceAttachment, authorize.ActionDelete), h.RemoveFile)
}
