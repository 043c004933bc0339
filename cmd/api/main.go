package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/krishichetan/krishichetan-backend/api/routes"
	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/analytics"
	"github.com/krishichetan/krishichetan-backend/internal/farmers"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/internal/officer"
	"github.com/krishichetan/krishichetan-backend/internal/subsidy"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/db"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
	"github.com/krishichetan/krishichetan-backend/pkg/metrics"
	"github.com/krishichetan/krishichetan-backend/pkg/migrate"
	"github.com/krishichetan/krishichetan-backend/pkg/pubsub"
	pkgredis "github.com/krishichetan/krishichetan-backend/pkg/redis"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
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

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeAutoMigrate(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	}

	var pubsubClient *pubsub.Client
	if cfg.PubSub.Enabled() {
		pubsubClient, err = pubsub.NewClient(ctx, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
	}

	recordLog, err := storage.NewFileRecordLog(cfg.Ledger.FilePath)
	if err != nil {
		logg.Error(ctx, "failed to open ledger log", err)
		os.Exit(1)
	}
	chain, err := ledger.New(ctx, recordLog)
	if err != nil {
		logg.Error(ctx, "failed to load ledger", err)
		os.Exit(1)
	}
	if chain.Tainted() {
		logg.Warn(ctx, "ledger failed verification on load, writes are suspended")
	}

	registry := prometheus.NewRegistry()
	advisoryMetrics := metrics.NewAdvisoryMetrics(registry)

	var notifier advisory.Notifier
	if pubsubClient != nil {
		notifier = advisory.NewPubSubNotifier(pubsubClient, logg)
	}

	advisoryDoc, err := storage.NewFileDocStore(cfg.Advisory.FilePath)
	if err != nil {
		logg.Error(ctx, "failed to open advisory store", err)
		os.Exit(1)
	}
	advisoryStore, err := advisory.NewStore(ctx, advisory.StoreParams{
		Doc:      advisoryDoc,
		Metrics:  advisoryMetrics,
		Notifier: notifier,
	})
	if err != nil {
		logg.Error(ctx, "failed to load advisory store", err)
		os.Exit(1)
	}

	gatewayService := gateway.NewService(gateway.ServiceParams{
		Ledger:      chain,
		Advisories:  advisoryStore,
		Eligibility: subsidy.NewEngine(),
		Metrics:     advisoryMetrics,
		Logger:      logg,
	})

	farmerService, err := farmers.NewService(farmers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create farmer service", err)
		os.Exit(1)
	}
	officerService, err := officer.NewService(officer.NewRepository(dbClient.DB()), gatewayService)
	if err != nil {
		logg.Error(ctx, "failed to create officer service", err)
		os.Exit(1)
	}
	analyticsService := analytics.NewService(advisoryStore, farmerService, cfg.Analytics)

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	handler := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		Gateway:          gatewayService,
		Ledger:           chain,
		AdvisoryStore:    advisoryStore,
		FarmerService:    farmerService,
		OfficerService:   officerService,
		AnalyticsService: analyticsService,
		IdempotencyStore: idempotencyStore,
		MetricsRegistry:  registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{Addr: addr, Handler: handler}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := shutdown(timeoutCtx, server, dbClient, redisClient, pubsubClient); err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
	}
}

func shutdown(ctx context.Context, server *http.Server, dbClient *db.Client, redisClient *pkgredis.Client, pubsubClient *pubsub.Client) error {
	var errs error
	if err := server.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if dbClient != nil {
		errs = multierr.Append(errs, dbClient.Close())
	}
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	if pubsubClient != nil {
		errs = multierr.Append(errs, pubsubClient.Close())
	}
	return errs
}
