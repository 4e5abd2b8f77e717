// Command devicesim serves a simulated irrigation controller with the same
// REST surface as the real device, for development and demos.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irrigation_panel/internal/config"
	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/server"
	"irrigation_panel/internal/simulator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(logger.Options{Level: cfg.Log.Level})
	defer func() { _ = log.Sync() }()

	seed, err := simulator.LoadSeed(cfg.Sim.Seed)
	if err != nil {
		log.Fatalw("failed to load seed", "err", err, "path", cfg.Sim.Seed)
	}
	dev := simulator.New(seed, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dev.Run(ctx, cfg.Sim.Tick)

	srv := server.New(cfg.Sim.Port, dev.Routes())
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting simulator", "err", err)
		}
	}()
	log.Infow("device simulator started", "addr", srv.Addr(), "zones", len(seed.UserSettings.Zones))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("simulator forced to shutdown", "err", err)
	}
}
