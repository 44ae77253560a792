package sessionresolver

import (
	"log/slog"

	httpadapter "ballotbox/contexts/identity-access/session-resolver/adapters/http"
	"ballotbox/contexts/identity-access/session-resolver/adapters/memory"
	"ballotbox/contexts/identity-access/session-resolver/application"
	"ballotbox/contexts/identity-access/session-resolver/ports"
)

// Module is the session-resolver composition root exposed to runtime wiring.
type Module struct {
	Resolver *application.Resolver
	Handler  httpadapter.Handler
	Store    *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Gateway  ports.AuthGateway
	Roles    ports.RoleDirectory
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

// NewModule wires the resolver and transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	resolver := application.NewResolver(application.Dependencies{
		Gateway:  deps.Gateway,
		Roles:    deps.Roles,
		Profiles: deps.Profiles,
		Logger:   deps.Logger,
	})
	return Module{
		Resolver: resolver,
		Handler: httpadapter.Handler{
			Resolver: resolver,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// auth backend.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Gateway:  store,
		Roles:    store,
		Profiles: store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
