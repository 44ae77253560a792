package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ballotservice "ballotbox/contexts/election-core/ballot-service"
	ballotpostgres "ballotbox/contexts/election-core/ballot-service/adapters/postgres"
	ballotworkers "ballotbox/contexts/election-core/ballot-service/application/workers"
	registryservice "ballotbox/contexts/election-core/registry-service"
	registrymemory "ballotbox/contexts/election-core/registry-service/adapters/memory"
	registrypostgres "ballotbox/contexts/election-core/registry-service/adapters/postgres"
	registrys3 "ballotbox/contexts/election-core/registry-service/adapters/s3"
	registryports "ballotbox/contexts/election-core/registry-service/ports"
	sessionresolver "ballotbox/contexts/identity-access/session-resolver"
	"ballotbox/contexts/identity-access/session-resolver/adapters/authapi"
	sessionmemory "ballotbox/contexts/identity-access/session-resolver/adapters/memory"
	sessionpostgres "ballotbox/contexts/identity-access/session-resolver/adapters/postgres"
	sessionports "ballotbox/contexts/identity-access/session-resolver/ports"
	"ballotbox/internal/platform/config"
	"ballotbox/internal/platform/db"
	"ballotbox/internal/platform/httpserver"
	"ballotbox/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	session   sessionresolver.Module
	gateway   *authapi.Client
	refresher bool
	logger    *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  ballotworkers.OutboxRelay
	auditor      ballotworkers.EventAuditor
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	sessionRepo := sessionpostgres.NewRepository(pg.DB, logger)
	var gateway *authapi.Client
	var gatewayPort sessionports.AuthGateway
	if strings.TrimSpace(cfg.AuthBaseURL) != "" {
		gateway = authapi.NewClient(cfg.AuthBaseURL, cfg.AuthAPIKey, logger)
		gatewayPort = gateway
	} else {
		// No auth backend configured: run against the in-memory gateway so
		// local development works without external services.
		gatewayPort = sessionmemory.NewStore()
	}
	sessionModule := sessionresolver.NewModule(sessionresolver.Dependencies{
		Gateway:  gatewayPort,
		Roles:    sessionRepo,
		Profiles: sessionRepo,
		Logger:   logger,
	})

	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	ballotModule := ballotservice.NewModule(ballotservice.Dependencies{
		Repo:   ballotRepo,
		Outbox: ballotRepo,
		Clock:  ballotpostgres.SystemClock{},
		IDGen:  ballotpostgres.UUIDGenerator{},
		Logger: logger,
	})

	registryModule, err := buildRegistryModule(cfg, pg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(sessionModule, ballotModule, registryModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:    server,
		postgres:  pg,
		session:   sessionModule,
		gateway:   gateway,
		refresher: cfg.EnableTokenRefresher,
		logger:    logger,
	}, nil
}

func buildRegistryModule(cfg config.Config, pg *db.Postgres, logger *slog.Logger) (registryservice.Module, error) {
	var images registryports.ImageStore
	if strings.TrimSpace(cfg.ImageBucket) != "" {
		store, err := registrys3.NewImageStore(cfg.ImageBucket)
		if err != nil {
			return registryservice.Module{}, err
		}
		images = store
	} else {
		// No bucket configured: keep uploads in memory so local development
		// works without cloud credentials.
		images = registrymemory.NewStore()
	}
	return registryservice.NewModule(registryservice.Dependencies{
		Repo:   registrypostgres.NewRepository(pg.DB, logger),
		Images: images,
		Clock:  ballotpostgres.SystemClock{},
		IDGen:  ballotpostgres.UUIDGenerator{},
		Logger: logger,
	}), nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := ballotpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres:    pg,
		outboxRelay: ballotservice.NewOutboxRelay(repo, bus, ballotpostgres.SystemClock{}, logger),
		auditor: ballotworkers.EventAuditor{
			Subscriber:    bus,
			ConsumerGroup: "election-audit-cg",
			Logger:        logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	// Event consumption and the first session resolution start before the
	// server accepts traffic so early requests see a settling snapshot rather
	// than none.
	go a.session.Resolver.Run(ctx)
	if _, err := a.session.Resolver.Initialize(ctx); err != nil {
		a.logger.Warn("initial session resolution failed; starting signed out",
			"event", "bootstrap_initialize_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
	if a.gateway != nil && a.refresher {
		go a.gateway.RunRefresher(ctx)
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	a.session.Resolver.Close()
	if a.gateway != nil {
		a.gateway.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.auditor.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
