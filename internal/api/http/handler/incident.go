package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/attachment"
	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/query"
	"github.com/Alijeyrad/dentalcenter/internal/service/incident"
)

// filesField is the multipart field holding uploaded attachments.
const filesField = "files"

type IncidentHandler struct {
	svc incident.Service
}

func NewIncidentHandler(svc incident.Service) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

func mapIncidentError(c fiber.Ctx, err error) error {
	if handled, werr := validation(c, err); handled {
		return werr
	}
	switch {
	case errors.Is(err, incident.ErrIncidentNotFound),
		errors.Is(err, incident.ErrFileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, incident.ErrPatientNotFound):
		return badRequest(c, err.Error())
	case errors.Is(err, incident.ErrNoFiles),
		errors.Is(err, attachment.ErrTooLarge):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /api/v1/incidents?search=&status=
func (h *IncidentHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), query.IncidentFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, list)
}

// POST /api/v1/incidents
func (h *IncidentHandler) Create(c fiber.Ctx) error {
	var body model.IncidentInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inc, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return created(c, inc)
}

// GET /api/v1/incidents/:id
func (h *IncidentHandler) Get(c fiber.Ctx) error {
	view, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, view)
}

// PATCH /api/v1/incidents/:id
func (h *IncidentHandler) Update(c fiber.Ctx) error {
	var body model.IncidentInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inc, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, inc)
}

// DELETE /api/v1/incidents/:id
func (h *IncidentHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapIncidentError(c, err)
	}
	return noContent(c)
}

// POST /api/v1/incidents/:id/files (multipart, field "files")
func (h *IncidentHandler) UploadFiles(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form required")
	}

	headers := form.File[filesField]
	sources := make([]attachment.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, attachment.FromFileHeader(fh))
	}

	inc, err := h.svc.AttachFiles(c.Context(), c.Params("id"), sources)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return created(c, inc)
}

// DELETE /api/v1/incidents/:id/files/:index
func (h *IncidentHandler) RemoveFile(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "invalid file index")
	}

	inc, err := h.svc.RemoveFile(c.Context(), c.Params("id"), index)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, inc)
}
