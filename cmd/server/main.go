// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	apiconnect "github.com/osa030/vidshelf/internal/api/connect"
	"github.com/osa030/vidshelf/internal/api/media"
	"github.com/osa030/vidshelf/internal/app/exporter"
	"github.com/osa030/vidshelf/internal/app/filter"
	"github.com/osa030/vidshelf/internal/app/importer"
	"github.com/osa030/vidshelf/internal/app/library"
	"github.com/osa030/vidshelf/internal/app/objecturl"
	"github.com/osa030/vidshelf/internal/app/planner"
	"github.com/osa030/vidshelf/internal/app/session"
	"github.com/osa030/vidshelf/internal/infra/blobstore"
	"github.com/osa030/vidshelf/internal/infra/config"
	"github.com/osa030/vidshelf/internal/infra/logger"
)

var (
	app        = kingpin.New("vidshelf-server", "vidshelf media library server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	logFormat  = app.Flag("log-format", "Log format: console or json").Enum("console", "json")

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available import filters and exit")

	// export command
	exportCmd = app.Command("export", "Export the library to a directory and exit")
	exportDir = exportCmd.Flag("dir", "Export directory (default: exporter.dir)").String()
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-filters command
	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		Format: *logFormat,
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = closer.Close() }()

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case exportCmd.FullCommand():
		err = runExport(cfg, *exportDir)
	default:
		err = run(cfg)
	}
	if err != nil {
		zlog.Error().Msgf("Server error: %+v", err)
		_ = closer.Close()
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Validate filter config
	if err := validateFilterConfig(cfg); err != nil {
		return errors.Wrap(err, "invalid filter config")
	}

	// Open storage
	store, err := blobstore.Open(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "failed to open blob store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Error().Msgf("Failed to close blob store: %v", err)
		}
	}()

	plannerStore, err := planner.Open(ctx, cfg.Planner.Path)
	if err != nil {
		return errors.Wrap(err, "failed to open planner store")
	}
	defer func() { _ = plannerStore.Close() }()

	// Create session manager
	sessionMgr, err := session.NewManager(cfg, store)
	if err != nil {
		return errors.Wrap(err, "failed to create session manager")
	}
	if err := sessionMgr.Start(ctx); err != nil {
		sessionMgr.Close()
		return errors.Wrap(err, "failed to start session")
	}

	router := newRouter(cfg, sessionMgr, plannerStore)

	// Listen before announcing so the started hook sees a live server
	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		sessionMgr.Close()
		return errors.Wrapf(err, "failed to listen on %s", cfg.Server.Addr)
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info().Msgf("Starting server: addr=%s public=%s", listener.Addr(), cfg.Server.PublicBaseURL)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server error")
		}
		return nil
	})

	if cfg.Importer.Enabled {
		imp := importer.New(importer.Config{
			Dir:      cfg.Importer.Dir,
			Debounce: time.Duration(cfg.Importer.DebounceMs) * time.Millisecond,
		}, sessionMgr)
		g.Go(func() error {
			return imp.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zlog.Info().Msg("Shutting down...")

		// Close session manager first to terminate active streams
		sessionMgr.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error().Msgf("Failed to shutdown server: %v", err)
		}
		return nil
	})

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	err = g.Wait()
	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return err
}

// newRouter mounts the RPC services, the media endpoint, metrics and health.
func newRouter(cfg *config.Config, sessionMgr *session.Manager, plannerStore *planner.Store) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	apiconnect.Register(r,
		apiconnect.NewLibraryService(sessionMgr),
		apiconnect.NewPlayerService(sessionMgr),
		apiconnect.NewPlannerService(plannerStore),
		connect.WithInterceptors(apiconnect.NewAuthInterceptor(cfg.Auth.Token)),
		connect.WithReadMaxBytes(maxUploadBytes(cfg)),
	)

	r.Mount(objecturl.MediaPath, media.NewHandler(sessionMgr.Broker(), media.Config{
		RateLimitPerMinute: cfg.Media.RateLimitPerMinute,
	}))

	if !cfg.Metrics.Disabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// maxUploadBytes bounds RPC message size by the storage quota, or 1 GiB.
func maxUploadBytes(cfg *config.Config) int {
	const fallback = 1 << 30
	if cfg.Storage.QuotaMB > 0 && cfg.Storage.QuotaMB < fallback>>20 {
		// Base64 inflates JSON-encoded bytes by a third
		return (cfg.Storage.QuotaMB << 20) * 4 / 3
	}
	return fallback
}

// runExport writes the stored library to a directory.
func runExport(cfg *config.Config, dir string) error {
	ctx := context.Background()
	if dir == "" {
		dir = cfg.Exporter.Dir
	}

	store, err := blobstore.Open(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "failed to open blob store")
	}
	defer func() { _ = store.Close() }()

	lib := library.NewManager(store, nil)
	if err := lib.Load(ctx); err != nil {
		return err
	}

	manifest, err := exporter.Export(ctx, dir, lib.List())
	if err != nil {
		return errors.Wrap(err, "export failed")
	}
	fmt.Printf("Exported %d videos (%s) to %s\n",
		len(manifest.Videos), humanize.IBytes(uint64(manifest.TotalBytes)), dir)
	return nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	fmt.Printf("  %-30s - %s [codes: %s]\n", "duplicate_filter",
		"Rejects files whose name and size match a library entry (always on)", filter.CodeDuplicate)
	for _, factory := range filter.GetRegistered() {
		f := factory()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// validateFilterConfig validates filter configurations.
func validateFilterConfig(cfg *config.Config) error {
	registry := filter.GetRegistered()

	for filterName, filterCfg := range cfg.Filters {
		if !filterCfg.Enabled {
			continue
		}

		factory, exists := registry[filterName]
		if !exists {
			return errors.Newf("unknown filter: %s", filterName)
		}

		f := factory()
		if err := f.ValidateConfig(filterCfg.Settings); err != nil {
			return errors.Wrapf(err, "filter %s", filterName)
		}
	}

	return nil
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
