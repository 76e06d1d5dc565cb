package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

var envPrefix = strings.ToUpper(ServiceName) + "_"

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}

	return b, nil
}

// parseEnv overlays the PUBLISHER_* variables.
func parseEnv(config *Config) error {
	var err error

	config.Addr = getEnv(envPrefix+"ADDR", config.Addr)
	config.DiagAddr = getEnv(envPrefix+"DIAG_ADDR", config.DiagAddr)
	config.Store = getEnv(envPrefix+"STORE", config.Store)
	config.MongoURI = getEnv(envPrefix+"MONGO_URI", config.MongoURI)
	config.MongoDatabase = getEnv(envPrefix+"MONGO_DB", config.MongoDatabase)
	config.PostgresDSN = getEnv(envPrefix+"POSTGRES_DSN", config.PostgresDSN)
	config.TimeZone = getEnv(envPrefix+"TZ", config.TimeZone)

	if config.Routes, err = getEnvBool(envPrefix+"ROUTES", config.Routes); err != nil {
		return err
	}
	if config.ChallengeWrites, err = getEnvBool(envPrefix+"CHALLENGE_WRITES", config.ChallengeWrites); err != nil {
		return err
	}

	return nil
}
