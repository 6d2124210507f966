package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/internal/api/http/handler"
	"github.com/Alijeyrad/dentalcenter/internal/api/http/middleware"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
	"github.com/Alijeyrad/dentalcenter/internal/service/dashboard"
	"github.com/Alijeyrad/dentalcenter/internal/service/incident"
	"github.com/Alijeyrad/dentalcenter/internal/service/patient"
	"github.com/Alijeyrad/dentalcenter/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/dentalcenter/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg          *config.Config
	Auth         authorize.IAuthorization
	DB           *repo.Client
	AuthSvc      auth.Service
	PatientSvc   patient.Service
	IncidentSvc  incident.Service
	DashboardSvc dashboard.Service
	PasetoMgr    *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.PasetoMgr)
	patientH := handler.NewPatientHandler(r.p.PatientSvc, r.p.IncidentSvc, r.p.DashboardSvc)
	incidentH := handler.NewIncidentHandler(r.p.IncidentSvc)
	dashboardH := handler.NewDashboardHandler(r.p.DashboardSvc, r.p.AuthSvc)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, authRequired)
	r.registerPatientRoutes(api, patientH, authRequired, requirePerm)
	r.registerIncidentRoutes(api, incidentH, authRequired, requirePerm)
	r.registerDashboardRoutes(api, dashboardH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return r.p.DB.View(c.Context(), func(tx *repo.Tx) error {
				_, err := tx.Session().Get()
				return err
			}) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
