package management

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/auth/revocation"
	"github.com/skybi/user-service/internal/config"
	"github.com/skybi/user-service/internal/storage"
	"github.com/skybi/user-service/internal/user"
)

const shutdownTimeout = 10 * time.Second

// Service represents the user management API service
type Service struct {
	server *http.Server

	Config *config.Config

	Storage     storage.Driver
	Issuer      *auth.Issuer
	Revocations *revocation.Store

	writer *schema.Writer
}

// Handler builds the HTTP router serving the user management API
func (service *Service) Handler() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the user management API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RedirectSlashes)
	router.Use(hlog.NewHandler(log.Logger))
	router.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	router.Use(hlog.AccessHandler(func(request *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(request).Debug().
			Str("method", request.Method).
			Stringer("url", request.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("handled request")
	}))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	admin := service.MiddlewareRequireRoles(user.RoleAdmin, user.RoleSuperAdmin)

	// Register the authentication endpoints
	router.Post("/v1/auth/register", service.EndpointRegister)
	router.Post("/v1/auth/login", service.EndpointLogin)
	router.Post("/v1/auth/logout", withMiddlewares(service.EndpointLogout, service.MiddlewareVerifyToken))

	// Register the user controller endpoints
	router.Get("/v1/users", service.EndpointGetUsers)
	router.Post("/v1/users", withMiddlewares(service.EndpointCreateUser, service.MiddlewareOptionalToken))
	router.Get("/v1/users/{id}", service.EndpointGetUser)
	router.Put("/v1/users/{id}", withMiddlewares(service.EndpointUpdateUser, service.MiddlewareVerifyToken, admin))
	router.Delete("/v1/users/{id}", withMiddlewares(service.EndpointDeleteUser, service.MiddlewareVerifyToken, admin))
	router.Get("/v1/users/{id}/roles", service.EndpointGetUserRoles)
	router.Put("/v1/users/{id}/roles", withMiddlewares(service.EndpointSetUserRoles, service.MiddlewareVerifyToken, admin))
	router.Get("/v1/me", withMiddlewares(service.EndpointGetSelfUser, service.MiddlewareVerifyToken))

	return router
}

// Startup starts up the user management API in the background.
// The server is created before this method returns, so Shutdown may be called right afterwards.
// Unexpected server errors are sent to errs.
func (service *Service) Startup(errs chan<- error) {
	server := &http.Server{
		Addr:              service.Config.ListenAddress,
		Handler:           service.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	service.server = server
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown gracefully shuts down the user management API
func (service *Service) Shutdown() {
	if service.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := service.server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("could not gracefully shut down the user management API")
		service.server.Close()
	}
	service.server = nil
}

func withMiddlewares(end http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	final := end
	for i := len(middlewares); i > 0; i-- {
		final = middlewares[i-1](final)
	}
	return final
}

func requestLogger(request *http.Request) *zerolog.Logger {
	return hlog.FromRequest(request)
}
