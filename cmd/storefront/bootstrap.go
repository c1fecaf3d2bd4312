package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pharmacy/storefront/internal/api/handler"
	"github.com/pharmacy/storefront/internal/core/ports"
	"github.com/pharmacy/storefront/internal/core/service"
	"github.com/pharmacy/storefront/internal/infrastructure/db/memory"
	"github.com/pharmacy/storefront/internal/infrastructure/db/mongo"
	"github.com/pharmacy/storefront/internal/infrastructure/db/postgres"
	"github.com/pharmacy/storefront/internal/infrastructure/db/redis"
	"github.com/pharmacy/storefront/internal/infrastructure/password"
	"github.com/pharmacy/storefront/internal/pkg/config"
	"github.com/pharmacy/storefront/pkg/logger"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg          *config.Config
	log          zerolog.Logger
	auth         *service.AuthService
	registration *service.RegistrationService
	seed         *service.SeedService
	checks       []handler.DependencyCheck
	closers      []func(context.Context) error
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront",
	})

	return newApp(ctx, cfg, log)
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	admins, customers, err := a.openDirectories(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	encoder, err := password.New(password.Options{
		Algorithm:  cfg.Password.Algorithm,
		BcryptCost: cfg.Password.BcryptCost,
	})
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.auth = service.NewAuthService(service.StorefrontSources(admins, customers), encoder,
		logger.WithComponent(log, "auth"))
	a.registration = service.NewRegistrationService(customers, encoder, a.openReserver(ctx),
		logger.WithComponent(log, "registration"))
	a.seed = service.NewSeedService(admins, encoder, service.SeedAdmin{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Hash:     cfg.Seed.HashPassword,
	}, logger.WithComponent(log, "seed"))

	return a, nil
}

// openDirectories connects the configured store driver and returns the admin
// and customer directories.
func (a *app) openDirectories(ctx context.Context) (admins, customers ports.Directory, err error) {
	switch a.cfg.StoreDriver {
	case config.DriverMemory:
		a.log.Warn().Msg("using in-memory directories, data is lost on exit")
		return memory.NewDirectory(), memory.NewDirectory(), nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
			AppName:  "storefront",
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.checks = append(a.checks, handler.DependencyCheck{Name: "mongodb", Ping: mongo.Pinger(client)})

		adminDir, userDir, err := mongo.Directories(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		return adminDir, userDir, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{
			URL:      a.cfg.Postgres.URL,
			MaxConns: a.cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		a.checks = append(a.checks, handler.DependencyCheck{Name: "postgres", Ping: pool.Ping})

		adminDir, userDir, err := postgres.Directories(ctx, pool)
		if err != nil {
			return nil, nil, err
		}
		return adminDir, userDir, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
}

// openReserver returns the Redis email reservation, or nil when Redis is
// disabled or unreachable. Registration stays correct without it because
// every directory enforces unique emails.
func (a *app) openReserver(ctx context.Context) ports.EmailReserver {
	if !a.cfg.Redis.Enabled {
		return nil
	}

	client, err := redis.Connect(ctx, redis.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
	if err != nil {
		a.log.Warn().Err(err).Msg("redis unavailable, registering without email reservations")
		return nil
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.checks = append(a.checks, handler.DependencyCheck{Name: "redis", Ping: redis.Pinger(client)})

	return redis.NewEmailReservation(client)
}

// close releases backends in reverse order of acquisition.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("error closing backend")
		}
	}
	a.closers = nil
}
