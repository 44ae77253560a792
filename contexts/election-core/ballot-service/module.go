package ballotservice

import (
	"log/slog"

	httpadapter "ballotbox/contexts/election-core/ballot-service/adapters/http"
	"ballotbox/contexts/election-core/ballot-service/adapters/memory"
	"ballotbox/contexts/election-core/ballot-service/application/commands"
	"ballotbox/contexts/election-core/ballot-service/application/queries"
	"ballotbox/contexts/election-core/ballot-service/application/workers"
	"ballotbox/contexts/election-core/ballot-service/ports"
)

// Module is the ballot-service composition root exposed to runtime wiring.
type Module struct {
	Cast    commands.CastBallotUseCase
	Publish commands.PublishResultsUseCase
	Catalog queries.CatalogUseCase
	Results queries.ResultsUseCase
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repo   ports.BallotRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// NewModule wires the ballot use cases and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	cast := commands.CastBallotUseCase{
		Repo:   deps.Repo,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	publish := commands.PublishResultsUseCase{
		Repo:   deps.Repo,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	catalog := queries.CatalogUseCase{Repo: deps.Repo}
	results := queries.ResultsUseCase{Repo: deps.Repo}
	return Module{
		Cast:    cast,
		Publish: publish,
		Catalog: catalog,
		Results: results,
		Handler: httpadapter.Handler{
			Cast:    cast,
			Publish: publish,
			Catalog: catalog,
			Results: results,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store for every port.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:   store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the worker that drains this module's outbox onto the
// event bus.
func NewOutboxRelay(outbox ports.OutboxRepository, publisher ports.EventPublisher, clock ports.Clock, logger *slog.Logger) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: 100,
		Logger:    logger,
	}
}
