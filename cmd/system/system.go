package system

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/internal/app"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/internal/store"
	"github.com/Alijeyrad/dentalcenter/pkg/logs"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewGenDocsCommand())

	return cmd
}

// env is what the maintenance commands share: config, logger and an open
// store. close releases the backend.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *repo.Client
	close  func() error
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	logger := logs.New(cfg)

	backend, err := store.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		db:     app.NewRepo(cfg, backend, logger),
		close:  backend.Close,
	}, nil
}
