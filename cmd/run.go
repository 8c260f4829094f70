package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quarrydata/quarry/internal/catalog"
	"github.com/quarrydata/quarry/internal/config"
	"github.com/quarrydata/quarry/internal/handlers"
	"github.com/quarrydata/quarry/internal/server"
	"github.com/quarrydata/quarry/internal/services"
	"github.com/quarrydata/quarry/internal/store"
)

const shutdownTimeout = 5 * time.Second

// NewRunCommand builds the command that starts the HTTP query service.
func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the HTTP query service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnvVars(cmd)
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg)
		},
	}

	registerConfigFlags(cmd, cfg)
	return cmd
}

func runServer(ctx context.Context, cfg *config.Configuration) error {
	if err := setupLogger(cfg.Logging.Level); err != nil {
		return err
	}
	defer func() { _ = zap.S().Sync() }()

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	st := store.NewStore(db)
	defer func() { _ = st.Close() }()

	if err := st.History().Migrate(ctx); err != nil {
		return err
	}

	cat := catalog.New(st.Dataset())
	if err := registerModels(ctx, cat, cfg); err != nil {
		return err
	}

	querySrv := services.NewQueryService(cat, st)
	handler := handlers.New(querySrv)

	srv, err := server.NewServer(cfg, handler.Register)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Stop(shutdownCtx)
	}()

	zap.S().Infow("server listening",
		"port", cfg.Server.HTTPPort,
		"mode", cfg.Server.ServerMode,
		"database", cfg.Database.Path,
		"models", cat.Names())

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// registerModels loads the definition file and registers every model. Service
// wide query limits apply to models that do not declare their own.
func registerModels(ctx context.Context, cat *catalog.Catalog, cfg *config.Configuration) error {
	if cfg.Models.File == "" {
		zap.S().Warn("no models file configured, starting with an empty catalog")
		return nil
	}

	specs, err := catalog.LoadFile(cfg.Models.File)
	if err != nil {
		return err
	}

	for _, spec := range specs {
		if spec.Defaults.Limit == 0 {
			spec.Defaults.Limit = cfg.Query.DefaultLimit
		}
		if spec.Defaults.MaxLimit == 0 {
			spec.Defaults.MaxLimit = cfg.Query.MaxLimit
		}
		if err := cat.Register(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}
