package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/garagehub/garagehub-backend/api/routes"
	"github.com/garagehub/garagehub-backend/internal/allocation"
	"github.com/garagehub/garagehub-backend/internal/authn"
	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/credentials"
	"github.com/garagehub/garagehub-backend/internal/customers"
	"github.com/garagehub/garagehub-backend/internal/employees"
	"github.com/garagehub/garagehub-backend/internal/jobcards"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	"github.com/garagehub/garagehub-backend/internal/usage"
	"github.com/garagehub/garagehub-backend/pkg/config"
	"github.com/garagehub/garagehub-backend/pkg/db"
	"github.com/garagehub/garagehub-backend/pkg/logger"
	"github.com/garagehub/garagehub-backend/pkg/metrics"
	"github.com/garagehub/garagehub-backend/pkg/migrate"
	"github.com/garagehub/garagehub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	coordMetrics := metrics.NewCoordinatorMetrics(registry)

	conn := dbClient.DB()
	employeesRepo := employees.NewRepository(conn)
	credentialsRepo := credentials.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	jobCardsRepo := jobcards.NewRepository(conn)
	allocationRepo := allocation.NewRepository(conn)
	usageRepo := usage.NewRepository(conn)
	customersRepo := customers.NewRepository(conn)

	usageTracker := usage.NewTracker(usageRepo)

	provisioner, err := employees.NewProvisioner(employees.ProvisionerParams{
		Privileged:  db.NewPrivileged(dbClient),
		Employees:   employeesRepo,
		Credentials: credentialsRepo,
		Usage:       usageTracker,
		Metrics:     coordMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity provisioner", err)
		os.Exit(1)
	}

	allocator, err := allocation.NewCoordinator(allocation.CoordinatorParams{
		JobCards:    jobCardsRepo,
		Lines:       allocationRepo,
		Catalog:     catalogRepo,
		Ledger:      ledgerRepo,
		Usage:       usageTracker,
		Metrics:     coordMetrics,
		Logger:      logg,
		StrictStock: cfg.Allocation.StrictStock,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create allocation coordinator", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Idempotency: redisClient,
		Registry:    registry,
		Auth:        authn.NewService(credentialsRepo, employeesRepo, cfg.JWT, cfg.Password),
		Provisioner: provisioner,
		Employees:   employees.NewService(employeesRepo),
		Catalog:     catalog.NewService(catalogRepo, usageTracker),
		Ledger:      ledgerRepo,
		JobCards:    jobcards.NewService(jobCardsRepo),
		Allocator:   allocator,
		Customers:   customers.NewService(customersRepo),
		Usage:       usageTracker,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"strict_stock": cfg.Allocation.StrictStock,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
