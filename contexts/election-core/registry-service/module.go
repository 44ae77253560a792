package registryservice

import (
	"log/slog"

	httpadapter "ballotbox/contexts/election-core/registry-service/adapters/http"
	"ballotbox/contexts/election-core/registry-service/adapters/memory"
	"ballotbox/contexts/election-core/registry-service/application"
	"ballotbox/contexts/election-core/registry-service/ports"
)

// Module is the registry-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repo   ports.Repository
	Images ports.ImageStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// NewModule wires the registry service and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repo,
		Images: deps.Images,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory catalog for every port.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:   store,
		Images: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
