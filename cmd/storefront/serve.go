package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmacy/storefront/internal/api"
)

const defaultShutdownTimeout = 10 * time.Second

type serveConfig struct {
	shutdownTimeout time.Duration
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. When SEED_ENABLED is true the default
administrator is created first if it does not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout,
		"time allowed for in-flight requests on shutdown")

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	if a.cfg.Seed.Enabled {
		if _, err := a.seed.EnsureSeeded(ctx); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:                a.auth,
		Registration:        a.registration,
		Checks:              a.checks,
		AllowedOrigins:      a.cfg.HTTP.AllowedOrigins,
		ExposeAdminIdentity: a.cfg.HTTP.ExposeAdminIdentity,
		Log:                 a.log,
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("store", a.cfg.StoreDriver).Msg("http server listening")
		errCh <- e.Start(":" + a.cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
