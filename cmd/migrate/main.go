package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/persistence"
)

// migrate brings the database schema up to date. It is the same AutoMigrate
// the server runs on boot, split out so deploys can run it ahead of rollout.
func main() {
	dryRun := flag.Bool("dry-run", false, "connect and validate configuration without migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if *dryRun {
		log.Info("Dry run: database reachable, skipping migration",
			zap.String("host", cfg.Database.Host),
			zap.String("dbname", cfg.Database.DBName),
		)
		return
	}

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Migration completed")
}
