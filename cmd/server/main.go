package main

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/user-service/internal/api"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/auth/revocation"
	"github.com/skybi/user-service/internal/config"
	"github.com/skybi/user-service/internal/storage"
	"github.com/skybi/user-service/internal/storage/cache"
	"github.com/skybi/user-service/internal/storage/inmem"
	"github.com/skybi/user-service/internal/storage/postgres"
	"github.com/skybi/user-service/internal/task"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// Set up zerolog to use pretty printing until the environment is known
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().
		Str("environment", cfg.Environment).
		Str("listen_address", cfg.ListenAddress).
		Str("storage_driver", cfg.StorageDriver).
		Dur("cache_lifetime", cfg.CacheLifetime).
		Dur("jwt_lifetime", cfg.JWTLifetime).
		Msg("loaded configuration")

	// Initialize the storage driver and wrap it into the caching one
	log.Info().Str("driver", cfg.StorageDriver).Msg("initializing storage...")
	var underlying storage.Driver
	switch cfg.StorageDriver {
	case config.StorageDriverInmem:
		underlying = inmem.New()
	default:
		underlying = postgres.New(cfg.PostgresDSN)
	}
	if err := underlying.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the storage driver")
	}
	driver := cache.New(underlying, cfg.CacheLifetime)
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the caching storage driver")
	}
	defer driver.Close()

	// Create the token issuer & revocation list and schedule a task that purges expired revocations
	issuer, err := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTLifetime)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the token issuer")
	}
	revocations, err := revocation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the token revocation list")
	}
	purgingTask := task.NewRepeating(func() {
		n, err := revocations.PurgeExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not purge expired token revocations")
		} else if n > 0 {
			log.Debug().Int("amount", n).Msg("purged expired token revocations")
		}
	}, time.Minute)
	purgingTask.Start()
	defer purgingTask.Stop(false)

	// Start up the user management API
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the user management API...")
	apis := &api.Service{
		Config:      cfg,
		Storage:     driver,
		Issuer:      issuer,
		Revocations: revocations,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	defer func() {
		log.Info().Msg("shutting down the user management API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated or the API to fail
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	select {
	case <-shutdown:
	case err := <-apiErrs:
		log.Error().Err(err).Msg("the API service raised an unexpected error")
	}
}
