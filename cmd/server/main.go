/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll attendance engine server.

STARTUP SEQUENCE:
  1. Load configuration from the environment
  2. Configure the global logger
  3. Open the SQLite store
  4. Wire handler, router, and period watcher
  5. Start the server with graceful shutdown

CONFIGURATION (environment variables):
  SERVER_PORT       HTTP port (default: 8080)
  DB_PATH           SQLite database path (default: payroll.db, ":memory:" works)
  LOCAL_DEV         Pretty console logs at debug level (default: true)
  WATCHER_INTERVAL  Missing-period check interval (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop the watcher, drain active requests (30s timeout),
  close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - api/watcher.go: Missing-attendance watcher
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/helioworks/payroll-engine/api"
	"github.com/helioworks/payroll-engine/config"
	"github.com/helioworks/payroll-engine/logger"
	"github.com/helioworks/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.LocalDev)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to open database")
	}
	defer store.Close()

	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	watcher := api.NewPeriodWatcher(store)
	if interval, err := time.ParseDuration(cfg.WatcherInterval); err == nil {
		watcher.CheckInterval = interval
	} else {
		log.Warn().Str("value", cfg.WatcherInterval).Msg("invalid WATCHER_INTERVAL, using default")
	}
	watcher.Start()
	defer watcher.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
