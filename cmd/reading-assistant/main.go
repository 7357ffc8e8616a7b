// reading-assistant serves the reading-practice web API: text uploads,
// per-word progress tracking against speech-recognition results, and session
// accuracy statistics.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/readaloud/reading-assistant/internal/api"
	"github.com/readaloud/reading-assistant/internal/config"
	"github.com/readaloud/reading-assistant/internal/database"
	"github.com/readaloud/reading-assistant/internal/logger"
	"github.com/readaloud/reading-assistant/internal/server"
	"github.com/readaloud/reading-assistant/internal/session"
	"github.com/readaloud/reading-assistant/internal/store"
	"github.com/readaloud/reading-assistant/internal/store/memory"
)

var (
	version = "dev" // Set during build
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "reading-assistant",
		Usage:   "Reading practice with per-word speech-recognition feedback",
		Version: fmt.Sprintf("%s (%s) %s", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Storage backend: sqlite or memory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "SQLite database file (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides config)",
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	// Flags override the environment, which overrides the config file.
	setEnvFromFlag(c.String("port"), "PORT")
	setEnvFromFlag(c.String("storage"), "STORAGE_BACKEND")
	setEnvFromFlag(c.String("db-path"), "DATABASE_PATH")
	setEnvFromFlag(c.String("log-level"), "LOG_LEVEL")

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Setup(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     logger.ParseLogFormat(cfg.Logging.Format),
		Output:     os.Stdout,
		TimeFormat: time.RFC3339,
	})
	log := logger.Get()

	log.Info("Starting reading-assistant", map[string]interface{}{
		"version":   version,
		"log_level": cfg.Logging.Level,
		"storage":   cfg.Storage.Backend,
	})

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Failed to close store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sessions := session.NewService(st, log)
	apiHandler := api.NewHandler(sessions, cfg.Upload.MaxFileSize, log)
	srv := server.New(":"+cfg.Server.Port, apiHandler, cfg.Web.StaticDir, log)

	// Set up signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	case err := <-errCh:
		log.Error("Fatal error occurred", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	// Shutdown HTTP server with configured timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Shutdown completed", nil)
	return nil
}

// openStore picks the storage backend from configuration.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Info("Using in-memory storage; sessions are lost on restart", nil)
		return memory.New(), nil
	default:
		db, err := database.NewDatabase(cfg.Storage.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database.NewRepository(db, log), nil
	}
}

// setEnvFromFlag sets an environment variable if the flag value is not empty
func setEnvFromFlag(value, envVar string) {
	if value != "" {
		if err := os.Setenv(envVar, value); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to set %s: %v\n", envVar, err)
		}
	}
}
