package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/service/dashboard"
	"github.com/Alijeyrad/dentalcenter/internal/service/incident"
	"github.com/Alijeyrad/dentalcenter/internal/service/patient"
)

type PatientHandler struct {
	svc        patient.Service
	incidents  incident.Service
	dashboards dashboard.Service
}

func NewPatientHandler(svc patient.Service, incidents incident.Service, dashboards dashboard.Service) *PatientHandler {
	return &PatientHandler{svc: svc, incidents: incidents, dashboards: dashboards}
}

func mapPatientError(c fiber.Ctx, err error) error {
	if handled, werr := validation(c, err); handled {
		return werr
	}
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /api/v1/patients?search=
func (h *PatientHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), c.Query("search"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, list)
}

// POST /api/v1/patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var body model.PatientInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// GET /api/v1/patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}

	history, err := h.incidents.ListForPatient(c.Context(), p.ID)
	if err != nil {
		return internalError(c, err)
	}
	return ok(c, fiber.Map{"patient": p, "incidents": history})
}

// GET /api/v1/patients/:id/history
func (h *PatientHandler) History(c fiber.Ctx) error {
	hist, err := h.dashboards.History(c.Context(), c.Params("id"))
	if err != nil {
		return mapDashboardError(c, err)
	}
	return ok(c, hist)
}

// PATCH /api/v1/patients/:id
// Fields left empty keep their stored value.
func (h *PatientHandler) Update(c fiber.Ctx) error {
	var body model.PatientInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// DELETE /api/v1/patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	res, err := h.svc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, res)
}
