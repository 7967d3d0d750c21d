package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const defaultRecheckPlayersPerSecond = 10.0

type Config struct {
	dBHost                  string
	dBPassword              string
	dBUsername              string
	sentryDSN               string
	otlpEndpoint            string
	googleCloudProject      string
	recheckPlayersPerSecond float64
	env                     environment
}

// DBHost is a host name or a unix socket directory
func (c *Config) DBHost() string {
	return c.dBHost
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) OTLPEndpoint() string {
	return c.otlpEndpoint
}

func (c *Config) GoogleCloudProject() string {
	return c.googleCloudProject
}

func (c *Config) RecheckPlayersPerSecond() float64 {
	return c.recheckPlayersPerSecond
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, dbHost: %s, telemetry: %t, recheckPlayersPerSecond: %g, ...}",
		string(c.env), c.dBHost, c.otlpEndpoint != "", c.recheckPlayersPerSecond,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("GAME_PROGRESS_ENVIRONMENT")
	if !ok {
		return missingKey("GAME_PROGRESS_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: GAME_PROGRESS_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	googleCloudProject := os.Getenv("GOOGLE_CLOUD_PROJECT")

	recheckPlayersPerSecond := defaultRecheckPlayersPerSecond
	if rawRate := os.Getenv("RECHECK_PLAYERS_PER_SECOND"); rawRate != "" {
		parsed, err := strconv.ParseFloat(rawRate, 64)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("%w: RECHECK_PLAYERS_PER_SECOND (%s)", ErrInvalidValue, rawRate)
		}
		recheckPlayersPerSecond = parsed
	}

	if env == production || env == staging {
		if dbHost == "" {
			return missingKey("DB_HOST")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		dBHost:                  dbHost,
		dBPassword:              dbPassword,
		dBUsername:              dbUsername,
		sentryDSN:               sentryDSN,
		otlpEndpoint:            otlpEndpoint,
		googleCloudProject:      googleCloudProject,
		recheckPlayersPerSecond: recheckPlayersPerSecond,
		env:                     env,
	}, nil
}
