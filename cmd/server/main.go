/*
main.go - Application entry point

PURPOSE:
  Starts the welfare market dashboard API and hosts the offline dataset
  commands. Handles configuration, dependency injection, and graceful
  shutdown.

COMMANDS:
  serve                 Serve the API (default dataset: ./data)
  validate DIR          Print the consistency report, exit 1 on errors
  build-db DIR OUT.db   Compile a dataset directory into SQLite
  export compare OUT    Comparison table as XLSX (--ids a,b)
  export ranking OUT    Revenue ranking as XLSX

STARTUP SEQUENCE (serve):
  1. Load config.toml, then apply command-line flags
  2. Build the zap logger
  3. Load the snapshot from --db or the dataset directory
  4. Create API handler, optional reloader, router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the reloader
  4. Exit

EXAMPLES:
  # Serve a dataset directory, reloading on change
  ./server serve --data ./data --watch

  # Serve a compiled database
  ./server build-db ./data welfare.db
  ./server serve --db welfare.db --port 3000

SEE ALSO:
  - commands.go: validate, build-db and export commands
  - api/server.go: Router configuration
  - config/config.go: config.toml keys
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/welfare-intel/api"
	"github.com/warp/welfare-intel/config"
	"github.com/warp/welfare-intel/factory"
	"github.com/warp/welfare-intel/logging"
	"github.com/warp/welfare-intel/store/memory"
	"github.com/warp/welfare-intel/store/sqlite"
	"github.com/warp/welfare-intel/welfare"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Disability-welfare market intelligence API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.toml if present)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(buildDBCmd())
	rootCmd.AddCommand(exportCmd(&configPath))
	return rootCmd
}

// =============================================================================
// SERVE
// =============================================================================

func serveCmd(configPath *string) *cobra.Command {
	var (
		dataDir string
		dbPath  string
		port    int
		watch   bool
		dev     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, info, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.Data.Dir = dataDir
			}
			if flags.Changed("db") {
				cfg.Data.DB = dbPath
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("watch") {
				cfg.Data.Watch = watch
			}
			if flags.Changed("dev") {
				cfg.Server.DevMode = dev
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg, info)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataDir, "data", "data", "dataset directory")
	f.StringVar(&dbPath, "db", "", "compiled SQLite snapshot (wins over --data)")
	f.IntVarP(&port, "port", "p", 8080, "HTTP server port")
	f.BoolVar(&watch, "watch", false, "reload the dataset directory on change")
	f.BoolVar(&dev, "dev", false, "development logging")
	return cmd
}

func runServe(cfg *config.Config, info config.LoadInfo) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Server.DevMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if info.Found {
		logger.Info("config loaded", zap.String("path", info.Path))
	}

	data := memory.NewMemory()
	handler := api.NewHandler(data, handlerOptions(cfg), logger)

	var reloader *api.Reloader
	ctx := context.Background()
	if cfg.Data.DB != "" {
		snap, err := loadFromDB(ctx, cfg.Data.DB)
		if err != nil {
			return err
		}
		report := data.Replace(snap)
		logger.Info("dataset loaded",
			zap.String("db", cfg.Data.DB),
			zap.String("snapshot", snap.ID),
			zap.String("summary", report.Summary))
	} else {
		reloader = api.NewReloader(cfg.Data.Dir, factory.NewDatasetFactory(), data, logger)
		reloader.Debounce = cfg.Data.Debounce()
		if _, err := reloader.RunNow(ctx); err != nil {
			return fmt.Errorf("loading dataset %s: %w", cfg.Data.Dir, err)
		}
		handler.Reloader = reloader
		if cfg.Data.Watch {
			if err := reloader.Start(); err != nil {
				return err
			}
			defer reloader.Stop()
		}
	}

	router := api.NewRouter(handler, api.RouterOptions{CORSOrigins: cfg.Server.CORSOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			zap.Bool("watch", cfg.Data.Watch))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// =============================================================================
// SHARED
// =============================================================================

func handlerOptions(cfg *config.Config) api.Options {
	return api.Options{
		Compare: welfare.CompareOptions{
			MinSelection: cfg.Analytics.CompareMin,
			MaxSelection: cfg.Analytics.CompareMax,
		},
		RankingExclude: cfg.Analytics.RankingExclude,
	}
}

func loadFromDB(ctx context.Context, path string) (*welfare.Snapshot, error) {
	store, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ctx)
}

// loadSnapshot reads dbPath when set, else the dataset directory.
func loadSnapshot(ctx context.Context, dir, dbPath string) (*welfare.Snapshot, error) {
	if dbPath != "" {
		return loadFromDB(ctx, dbPath)
	}
	return factory.NewDatasetFactory().Load(ctx, dir)
}
