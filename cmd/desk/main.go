package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alsafar-travels/umrahdesk/api"
	"github.com/alsafar-travels/umrahdesk/config"
	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/bootstrap"
	"github.com/alsafar-travels/umrahdesk/internal/cache"
	"github.com/alsafar-travels/umrahdesk/internal/events"
	"github.com/alsafar-travels/umrahdesk/internal/otp"
	"github.com/alsafar-travels/umrahdesk/internal/service/account"
	adminsvc "github.com/alsafar-travels/umrahdesk/internal/service/admin"
	"github.com/alsafar-travels/umrahdesk/internal/service/ledger"
	"github.com/alsafar-travels/umrahdesk/internal/service/trip"
	"github.com/alsafar-travels/umrahdesk/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage := cache.NewRedisStorage(cfg.Redis, cfg.Session.KeyPrefix)
	defer storage.Close()

	store := session.NewStore(storage, cfg.Tenant.Default, logger)
	client := backend.NewClient(cfg.Backend.Origin, cfg.Backend.Timeout(), store, logger)

	if err := store.Rehydrate(ctx, client, session.RehydrateOptions{
		Revalidate:     cfg.Session.Revalidate,
		ClearOnFailure: cfg.Session.ClearOnRevalidateFailure,
	}); err != nil {
		logger.Warn("session rehydration failed", zap.Error(err))
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	flow := otp.NewFlow(client, logger)
	accounts := account.NewService(client, store, flow, logger)
	plans := ledger.NewLedger(client, store, producer, cfg.Kafka.NotificationsTopic, logger)
	trips := trip.NewOrchestrator(client, plans, store, producer, cfg.Kafka.NotificationsTopic, logger)
	reconciler := adminsvc.NewReconciler(client, store, producer, cfg.Kafka.EventsTopic, logger)

	store.OnReset(plans.Reset)
	store.OnReset(reconciler.Reset)
	store.OnReset(flow.Reset)

	router := api.NewRouter(
		api.NewAuthHandler(accounts, flow, store),
		api.NewCatalogHandler(client),
		api.NewBookingHandler(trips, client, store),
		api.NewPaymentHandler(plans),
		api.NewAdminHandler(reconciler),
	)

	if err := bootstrap.Run(ctx, cfg, router, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
