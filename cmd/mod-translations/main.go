package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/folio-org/mod-translations/internal/adapter/filter"
	handler "github.com/folio-org/mod-translations/internal/adapter/http"
	oteladapter "github.com/folio-org/mod-translations/internal/adapter/otel"
	riveradapter "github.com/folio-org/mod-translations/internal/adapter/river"
	"github.com/folio-org/mod-translations/internal/adapter/sqlite"
	"github.com/folio-org/mod-translations/internal/app"
	"github.com/folio-org/mod-translations/internal/domain"
	"github.com/folio-org/mod-translations/internal/logger"
)

const (
	serviceName    = "mod-translations"
	serviceVersion = "0.1.0"

	// jobsDBName cannot collide with a tenant database: tenant ids start
	// with a letter.
	jobsDBName = "_jobs.db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

type config struct {
	port                 string
	dataDir              string
	defaultTenant        string
	logLevel             string
	logFormat            string
	exposeInternalErrors bool
	jobsEnabled          bool
}

func loadConfig() config {
	return config{
		port:                 envOrDefault("PORT", "8080"),
		dataDir:              envOrDefault("DATA_DIR", "data"),
		defaultTenant:        envOrDefault("DEFAULT_TENANT", "folio_shared"),
		logLevel:             envOrDefault("LOG_LEVEL", "info"),
		logFormat:            envOrDefault("LOG_FORMAT", "text"),
		exposeInternalErrors: boolOrDefault("EXPOSE_INTERNAL_ERRORS", false),
		jobsEnabled:          boolOrDefault("JOBS_ENABLED", true),
	}
}

func run() error {
	cfg := loadConfig()
	logger.Init(logger.ParseLevel(cfg.logLevel), cfg.logFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := domain.ResolveTenant("", cfg.defaultTenant); err != nil {
		return fmt.Errorf("DEFAULT_TENANT: %w", err)
	}

	// --- Telemetry ---
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	tenants := sqlite.NewTenants(cfg.dataDir, oteladapter.OpenDB)
	defer tenants.Close()

	// Open the default tenant up front so a bad data directory fails at startup.
	if _, err := tenants.DB(ctx, cfg.defaultTenant); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	var publisher domain.ChangePublisher = logPublisher{}
	if cfg.jobsEnabled {
		client, closeJobs, err := startJobs(ctx, filepath.Join(cfg.dataDir, jobsDBName))
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		defer closeJobs()
		publisher = riveradapter.NewPublisher(client)
	}

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           newRouter(cfg, tenants, oteladapter.NewTracingPublisher(publisher)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "service", serviceName, "addr", srv.Addr, "docs", "http://localhost:"+cfg.port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("stopped")
	return nil
}

// newRouter wires the three resources onto a chi router.
func newRouter(cfg config, tenants *sqlite.Tenants, publisher domain.ChangePublisher) http.Handler {
	compiler := filter.New().
		Register(domain.LanguageKind.Table, domain.LanguageKind.Fields...).
		Register(domain.LanguageTranslatorKind.Table, domain.LanguageTranslatorKind.Fields...).
		Register(domain.TranslationKind.Table, domain.TranslationKind.Fields...)

	languages := app.NewResourceService[domain.Language](
		domain.LanguageKind,
		oteladapter.NewTracingStore[domain.Language](domain.LanguageKind, sqlite.NewRepository(tenants, sqlite.LanguageTable)),
		compiler, publisher,
		app.WithUsageCheck[domain.Language](sqlite.NewLanguageUsage(tenants)),
	)
	translators := app.NewResourceService[domain.LanguageTranslator](
		domain.LanguageTranslatorKind,
		oteladapter.NewTracingStore[domain.LanguageTranslator](domain.LanguageTranslatorKind, sqlite.NewRepository(tenants, sqlite.LanguageTranslatorTable)),
		compiler, publisher,
	)
	translations := app.NewResourceService[domain.Translation](
		domain.TranslationKind,
		oteladapter.NewTracingStore[domain.Translation](domain.TranslationKind, sqlite.NewRepository(tenants, sqlite.TranslationTable)),
		compiler, publisher,
	)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	hcfg := handler.Config{
		DefaultTenant:        cfg.defaultTenant,
		ExposeInternalErrors: cfg.exposeInternalErrors,
	}
	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, languages, handler.LanguagesRoute, hcfg)
	handler.Register(api, translators, handler.LanguageTranslatorsRoute, hcfg)
	handler.Register(api, translations, handler.TranslationsRoute, hcfg)

	return router
}

// startJobs opens the job database and starts the River client. The
// returned function stops the client and closes the database.
func startJobs(ctx context.Context, path string) (*riveradapter.Client, func(), error) {
	db, err := oteladapter.OpenDB(sqlite.DSN(path))
	if err != nil {
		return nil, nil, err
	}

	// No downstream consumer yet: changes are only logged by the worker.
	client, err := riveradapter.Setup(ctx, db, nil)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	// The client outlives the signal context; closeJobs stops it after the
	// HTTP server has drained.
	if err := client.Start(context.WithoutCancel(ctx)); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("starting river: %w", err)
	}

	return client, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			slog.Error("river stop", "error", err)
		}
		closeDB(db)
	}, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("closing job database", "error", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolOrDefault(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// logPublisher records changes in the log when the job queue is disabled.
type logPublisher struct{}

func (logPublisher) Publish(ctx context.Context, change domain.Change) error {
	slog.DebugContext(ctx, "record changed",
		"tenant", change.Tenant,
		"table", change.Table,
		"action", string(change.Action),
		"record_id", change.RecordID,
	)
	return nil
}
