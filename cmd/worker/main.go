// Command worker consumes account events from RabbitMQ and appends them to
// an audit log.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/launchdev/internal/logging"
	"github.com/iliyamo/launchdev/internal/queue"
)

func main() {
	_ = godotenv.Load()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Fatal("RABBITMQ_URL is required")
	}
	logPath := os.Getenv("AUDIT_LOG_PATH")
	if logPath == "" {
		logPath = "logs/audit.log"
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	logger := logging.New(env, os.Getenv("LOG_LEVEL"), os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("audit worker started", "log_path", logPath)
	err := queue.NewAuditConsumer(url, logPath, logger).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}
	logger.Info("audit worker stopped")
}
