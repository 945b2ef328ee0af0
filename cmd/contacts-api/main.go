// main is the entry point of the contacts API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from the environment (and an optional YAML file)
//  2. Initialise the logger
//  3. Build the storage backend selected by STORAGE_DRIVER
//  4. Register the HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	DefaultConnection='Server=tcp:localhost,1433;Database=contacts;User Id=sa;Password=...' \
//	    go run ./cmd/contacts-api
//
// or, without a SQL Server at hand:
//
//	STORAGE_DRIVER=sqlite STORAGE_PATH=contacts.db go run ./cmd/contacts-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/contacts-api/internal/config"
	"github.com/aanand-mishra/contacts-api/internal/http/handlers/contact"
	"github.com/aanand-mishra/contacts-api/internal/http/middleware"
	"github.com/aanand-mishra/contacts-api/internal/storage"
	"github.com/aanand-mishra/contacts-api/internal/storage/postgres"
	"github.com/aanand-mishra/contacts-api/internal/storage/sqlite"
	"github.com/aanand-mishra/contacts-api/internal/storage/sqlserver"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting contacts-api",
		slog.String("env", cfg.Env),
		slog.String("driver", cfg.Driver),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Nothing is dialled here; each request opens its own connection.
	store := newStorage(cfg, log)
	if cfg.Driver != config.DriverSQLite && cfg.DSN() == "" {
		log.Warn("connection string environment variable not set; requests will fail until it is")
	}

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	//   POST /api/contacts → add a contact
	router := http.NewServeMux()
	router.HandleFunc("POST /api/contacts", contact.New(log, store, contact.Timeouts{
		Connect: cfg.ConnectTimeout,
		Query:   cfg.QueryTimeout,
	}))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.Logger(log)(middleware.CORS(router)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.Addr()))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newStorage picks the backend. config.Load has already rejected unknown
// drivers.
func newStorage(cfg *config.Config, log *slog.Logger) storage.Storage {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(cfg.DSN(), log)
	case config.DriverSQLite:
		return sqlite.New(cfg.StoragePath)
	default:
		return sqlserver.New(cfg.DSN(), log)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
