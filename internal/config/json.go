package config

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// JSONConfig is the layout of the -config file. Absent keys keep the
// values loaded before.
type JSONConfig struct {
	Addr            *string           `json:"addr"`
	DiagAddr        *string           `json:"diag_addr"`
	Store           *string           `json:"store"`
	MongoURI        *string           `json:"mongo_uri"`
	MongoDatabase   *string           `json:"mongo_db"`
	PostgresDSN     *string           `json:"postgres_dsn"`
	TimeZone        *string           `json:"tz"`
	ChallengeWrites *bool             `json:"challenge_writes"`
	Accounts        map[string]string `json:"accounts"`
}

// parseJSON loads the file named by the -config flag, if any, into config.
func parseJSON(config *Config, args []string) error {
	path := configFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JSONConfig{}
	if err := jsoniter.ConfigFastest.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.DiagAddr, c.DiagAddr)
	setString(&config.Store, c.Store)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.PostgresDSN, c.PostgresDSN)
	setString(&config.TimeZone, c.TimeZone)

	if c.ChallengeWrites != nil {
		config.ChallengeWrites = *c.ChallengeWrites
	}
	if len(c.Accounts) > 0 {
		config.Accounts = c.Accounts
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// configFlag finds the value of -config in args, accepting both
// "-config path" and "-config=path" with one or two dashes.
func configFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		name := strings.TrimLeft(args[i], "-")
		if name == args[i] {
			continue
		}

		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}
