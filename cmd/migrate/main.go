package main

import (
	"flag"

	"github.com/disha2301/employee-payroll-application/internal/config"
	"github.com/disha2301/employee-payroll-application/internal/db"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory containing migration files")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	status, err := db.Migrate(action, *migrationsDir, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}

	if !status.Applied {
		log.Info().Str("action", action).Msg("migration completed, no migration applied")
		return
	}
	log.Info().
		Str("action", action).
		Uint("version", status.Version).
		Bool("dirty", status.Dirty).
		Msg("migration completed")
}
