package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	userpulse "github.com/userpulse/userpulse"
	"github.com/userpulse/userpulse/config"
	"github.com/userpulse/userpulse/pkg/logging"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/schema"
	"github.com/userpulse/userpulse/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New("server", cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", err)
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

	srv := server.New(server.Config{
		Service:      svc,
		Logger:       logger,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown failed", err)
		}
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)
	return srv.Listen(cfg.ListenAddr)
}
