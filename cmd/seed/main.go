// Command seed fills the configured database with synthetic users and
// activity history for local development.
package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	userpulse "github.com/userpulse/userpulse"
	"github.com/userpulse/userpulse/config"
	"github.com/userpulse/userpulse/pkg/logging"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/schema"
	"github.com/userpulse/userpulse/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New("seed", cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("seed failed", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger types.Logger) error {
	sqldb, err := sql.Open("sqlite3", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := schema.CreateAll(ctx, db); err != nil {
		return err
	}

	svc, err := userpulse.New(userpulse.Config{
		DB:     db,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	seeder := seed.New(svc.Users, svc.Activities, nil, logger)
	created, err := seeder.Run(ctx, seed.Options{
		Users:                cfg.SeedUsers,
		MaxActivitiesPerUser: cfg.SeedMaxActivities,
	})
	if err != nil {
		return err
	}
	logger.Info("seed complete", "users", created)
	return nil
}
