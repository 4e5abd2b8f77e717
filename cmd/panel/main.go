package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irrigation_panel/internal/config"
	"irrigation_panel/internal/device"
	"irrigation_panel/internal/handlers"
	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/repository"
	"irrigation_panel/internal/repository/db"
	"irrigation_panel/internal/server"
	"irrigation_panel/internal/service"

	_ "irrigation_panel/docs"
)

const shutdownTimeout = 10 * time.Second

// @title                       Irrigation panel API
// @version                     1.0
// @description                 Control panel for a single irrigation controller.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	controller := device.NewClient(cfg.Device.BaseURL, cfg.Device.Timeout)
	services := service.NewService(repos, controller, cfg, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for page pollers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services.Pages.Bind(ctx)
	if err := services.Pages.LoadPage(ctx, service.PageManual); err != nil {
		// the device may come up later; the next page load retries
		log.Warnw("initial page load failed", "err", err, "device", cfg.Device.BaseURL)
	}

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)
	log.Infow("panel started", "addr", srv.Addr(), "device", cfg.Device.BaseURL)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	apiHandler.Close()
	services.Pages.ClosePage()
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DBPath
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "panel.db")
		path = "panel.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop pollers
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
