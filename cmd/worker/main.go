package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alsafar-travels/umrahdesk/config"
	"github.com/alsafar-travels/umrahdesk/internal/events"
	"github.com/alsafar-travels/umrahdesk/internal/notify"
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

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := notify.NewSender(logger)

	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		logger.Fatal("consumer error", zap.Error(err))
	}
}
