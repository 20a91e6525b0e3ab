package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/skybi/user-service/internal/secret"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverInmem    = "inmem"

	environmentProduction = "prod"

	generatedSecretLength = 64
)

// Config represents the application configuration structure
type Config struct {
	Environment string `default:"prod"`

	ListenAddress string `default:":8081" split_words:"true"`
	AllowedOrigin string `default:"*" split_words:"true"`
	SecureCookies bool   `default:"true" split_words:"true"`

	StorageDriver string        `default:"postgres" split_words:"true"`
	PostgresDSN   string        `default:"" split_words:"true"`
	CacheLifetime time.Duration `default:"5m" split_words:"true"`

	JWTSecret   string        `default:"" split_words:"true"`
	JWTIssuer   string        `default:"user-service" split_words:"true"`
	JWTAudience string        `default:"user-service" split_words:"true"`
	JWTLifetime time.Duration `default:"10m" split_words:"true"`
	BcryptCost  int           `default:"10" split_words:"true"`
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, environmentProduction)
}

// Validate checks the configuration for contradicting or missing values
func (config *Config) Validate() error {
	var errs []error
	switch config.StorageDriver {
	case StorageDriverPostgres:
		if config.PostgresDSN == "" {
			errs = append(errs, errors.New("UM_POSTGRES_DSN is required for the postgres storage driver"))
		}
	case StorageDriverInmem:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver '%s'", config.StorageDriver))
	}
	if config.JWTSecret == "" {
		errs = append(errs, errors.New("UM_JWT_SECRET is required"))
	}
	if config.JWTLifetime <= 0 {
		errs = append(errs, errors.New("UM_JWT_LIFETIME must be positive"))
	}
	if config.CacheLifetime <= 0 {
		errs = append(errs, errors.New("UM_CACHE_LIFETIME must be positive"))
	}
	return errors.Join(errs...)
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("um", config); err != nil {
		return nil, err
	}

	// Generate an ephemeral token secret for development setups
	if config.JWTSecret == "" && !config.IsEnvProduction() {
		_, encoded := secret.MustNew(generatedSecretLength)
		config.JWTSecret = encoded
		log.Warn().Msg("no JWT secret configured; generated an ephemeral one (tokens will not survive a restart)")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
