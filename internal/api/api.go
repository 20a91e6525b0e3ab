package api

import (
	"github.com/skybi/user-service/internal/api/management"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/auth/revocation"
	"github.com/skybi/user-service/internal/config"
	"github.com/skybi/user-service/internal/storage"
)

// Service represents the HTTP API service
type Service struct {
	Config      *config.Config
	Storage     storage.Driver
	Issuer      *auth.Issuer
	Revocations *revocation.Store
	management  *management.Service
}

// Startup starts up the user management API in the background.
// Unexpected server errors are sent to errs.
func (service *Service) Startup(errs chan<- error) {
	managementService := &management.Service{
		Config:      service.Config,
		Storage:     service.Storage,
		Issuer:      service.Issuer,
		Revocations: service.Revocations,
	}
	service.management = managementService
	managementService.Startup(errs)
}

// Shutdown shuts down the user management API
func (service *Service) Shutdown() {
	if service.management != nil {
		service.management.Shutdown()
		service.management = nil
	}
}
