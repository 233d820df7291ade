package handlers

import (
	"context"

	"blogapi/internal/authz"
	"blogapi/internal/config"
	"blogapi/internal/service"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers serves the REST routes that sit next to the GraphQL endpoint.
type Handlers struct {
	UploadService service.UploadService
	TablesService service.TablesService
	Enforcer      *authz.Enforcer
	DB            HealthChecker
	Cfg           *config.Config
}

func NewHandlers(services *service.Service, enforcer *authz.Enforcer, db HealthChecker, cfg *config.Config) *Handlers {
	return &Handlers{
		UploadService: services.Upload,
		TablesService: services.Tables,
		Enforcer:      enforcer,
		DB:            db,
		Cfg:           cfg,
	}
}
