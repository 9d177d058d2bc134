package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/abelal/pantrylog/internal/config"
	"github.com/abelal/pantrylog/internal/db"
	"github.com/abelal/pantrylog/internal/lifecycle"
	"github.com/abelal/pantrylog/internal/logging"
	"github.com/abelal/pantrylog/internal/report"
	"github.com/abelal/pantrylog/internal/store"
	"github.com/abelal/pantrylog/internal/sweep"
	"github.com/abelal/pantrylog/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	catalogStore := store.NewCatalogStore(database)
	lotStore := store.NewLotStore(database)
	eventStore := store.NewEventStore(database)

	engine := lifecycle.NewEngine(catalogStore, lotStore, eventStore)
	reports := report.NewService(lotStore, eventStore, catalogStore)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := sweep.NewRunner(engine, cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	server := web.NewServer(engine, reports, catalogStore, cfg.DefaultActor, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
