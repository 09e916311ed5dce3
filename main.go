package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/collections"
	"boqtracker/config"
	"boqtracker/handlers"
	"boqtracker/logging"
	"boqtracker/reconcile"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOQ_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: cfg.Server.DataDir,
	})

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(se.App, logger); err != nil {
			return err
		}
		if cfg.Seed {
			if err := collections.Seed(se.App, logger); err != nil {
				logger.Warn("seed data failed", zap.Error(err))
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		deps := handlers.NewDeps(se.App, reconcile.New(cfg.Reconcile.Precision), logger)
		deps.CurrencySymbol = cfg.Reconcile.CurrencySymbol
		deps.CompanyName = cfg.Report.CompanyName

		se.Router.BindFunc(handlers.RequestContextMiddleware(logger, cfg.Server.RequestTimeout))
		handlers.RegisterRoutes(se, deps)
		return se.Next()
	})

	// Without a subcommand, serve on the configured address.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve", "--http="+cfg.Server.HTTPAddr)
	}

	logger.Info("starting", zap.String("data_dir", cfg.Server.DataDir), zap.String("http_addr", cfg.Server.HTTPAddr))
	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
