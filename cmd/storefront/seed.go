package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default administrator",
		Long: `Creates the default administrator from the SEED_ADMIN_* settings.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	created, err := a.seed.EnsureSeeded(ctx)
	if err != nil {
		return err
	}

	if created {
		cmd.Printf("Created administrator %s\n", a.cfg.Seed.AdminEmail)
	} else {
		cmd.Printf("Administrator %s already exists\n", a.cfg.Seed.AdminEmail)
	}
	return nil
}
