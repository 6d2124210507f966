package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/internal/attachment"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
	"github.com/Alijeyrad/dentalcenter/internal/service/dashboard"
	"github.com/Alijeyrad/dentalcenter/internal/service/incident"
	"github.com/Alijeyrad/dentalcenter/internal/service/patient"
	pasetotoken "github.com/Alijeyrad/dentalcenter/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvidePatientService,
		ProvideIncidentService,
		ProvideDashboardService,
		ProvidePasetoManager,
	),
)

func ProvideAuthService(db *repo.Client, logger *slog.Logger) auth.Service {
	return auth.New(db, logger)
}

func ProvidePatientService(db *repo.Client, logger *slog.Logger) patient.Service {
	return patient.New(db, logger)
}

func ProvideIncidentService(db *repo.Client, cfg *config.Config, logger *slog.Logger) incident.Service {
	return incident.New(db, NewEncoder(cfg), logger)
}

func ProvideDashboardService(db *repo.Client) dashboard.Service {
	return dashboard.New(db)
}

func ProvidePasetoManager(cfg *config.Config, logger *slog.Logger) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg, logger)
}

func NewEncoder(cfg *config.Config) attachment.Encoder {
	return attachment.Encoder{
		MaxBytes:    cfg.Attachments.MaxBytes,
		Concurrency: cfg.Attachments.Concurrency,
	}
}
