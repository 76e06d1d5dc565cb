package config

import (
	"flag"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-addr string           application address (e.g. ":3333")
//	-diag_addr string      diagnostics address (e.g. ":9999")
//	-routes                generate router documentation
//	-store string          memory, mongo or postgres
//	-mongo_uri string      MongoDB URI
//	-mongo_db string       MongoDB database
//	-postgres_dsn string   PostgreSQL DSN
//	-tz string             time zone of listing dates
//	-challenge_writes      answer anonymous writes with 401
//	-config string         JSON config file, applied before the flags
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet(ServiceName, flag.ContinueOnError)

	fs.StringVar(&config.Addr, "addr", config.Addr, "application address")
	fs.StringVar(&config.DiagAddr, "diag_addr", config.DiagAddr, "diag address")
	fs.BoolVar(&config.Routes, "routes", config.Routes, "Generate router documentation")
	fs.StringVar(&config.Store, "store", config.Store, "article store: memory, mongo or postgres")
	fs.StringVar(&config.MongoURI, "mongo_uri", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "mongo_db", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.PostgresDSN, "postgres_dsn", config.PostgresDSN, "PostgreSQL DSN")
	fs.StringVar(&config.TimeZone, "tz", config.TimeZone, "time zone of listing dates, local if empty")
	fs.BoolVar(&config.ChallengeWrites, "challenge_writes", config.ChallengeWrites, "answer writes without credentials with 401")
	fs.String("config", "", "JSON config file")

	return fs.Parse(args)
}
