package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userregistry/docs"
	"userregistry/internal/config"
	"userregistry/internal/database"
	"userregistry/internal/database/migration"
	handlers "userregistry/internal/http/handler"
	"userregistry/internal/http/middleware"
	"userregistry/internal/logging"
	"userregistry/internal/otel"
	"userregistry/internal/repository"
	"userregistry/internal/repository/memory"
	"userregistry/internal/repository/sqlstore"
	"userregistry/internal/service"
)

// @title User Registry API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.Location())
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", "error", err.Error())
		}
	}()

	store, newUnitOfWork, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	userSvc := service.NewUserService(newUnitOfWork, service.WithLocation(cfg.Location()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, store, userSvc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := cfg.AppHost + ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", "addr", addr, "db_driver", cfg.Database.Driver)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// openStore selects the user store from configuration. The returned pinger backs /health.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (handlers.Pinger, func() repository.UnitOfWork, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		return store, memory.Factory(store), func() {}, nil
	}

	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			logger.Error("db_close_failed", "error", err.Error())
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, dialect, logger, cfg.Database.Host); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
	}

	return db, sqlstore.Factory(db, dialect), closeDB, nil
}
