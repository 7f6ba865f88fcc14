package main

import (
	"flag"
	"log"

	"chalet-booking/internal/config"
	"chalet-booking/internal/database"
	"chalet-booking/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "chalet-migrate")
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer lg.Sync()

	path := cfg.MigrationsPath
	if *dir != "" {
		path = *dir
	}

	if *down > 0 {
		if err := database.Rollback(cfg.DatabaseURL(), path, *down, lg); err != nil {
			lg.Fatal("rollback", zap.Error(err))
		}
		return
	}
	if err := database.Migrate(cfg.DatabaseURL(), path, lg); err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}
}
