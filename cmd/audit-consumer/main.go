package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"roombooking/internal/config"
	"roombooking/internal/events"
	"roombooking/internal/pkg/logger"
)

// audit-consumer drains the reservation events queue into an append-only log file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, config.IsProdLike(cfg.AppEnv))

	if cfg.RabbitMQURL == "" {
		logrus.Fatal("RABBITMQ_URL is empty")
	}

	f, err := events.OpenAuditFile(cfg.AuditLogPath)
	if err != nil {
		logrus.WithError(err).Fatal("open audit log failed")
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{
		"queue": cfg.EventsQueue,
		"path":  cfg.AuditLogPath,
	}).Info("audit consumer started")

	err = events.Consume(ctx, cfg.RabbitMQURL, cfg.EventsQueue, events.NewAuditLog(f).Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Error("audit consumer stopped")
	}
}
