package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/launchdev/internal/config"
	"github.com/iliyamo/launchdev/internal/database"
	"github.com/iliyamo/launchdev/internal/logging"
	"github.com/iliyamo/launchdev/internal/queue"
	"github.com/iliyamo/launchdev/internal/repository"
	"github.com/iliyamo/launchdev/internal/router"
	"github.com/iliyamo/launchdev/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable, credential endpoints are not rate limited")
	} else {
		defer rdb.Close()
	}

	var pub service.EventPublisher
	if cfg.RabbitMQURL != "" {
		pub = queue.NewPublisher(cfg.RabbitMQURL, logger)
	} else {
		logger.Info("RABBITMQ_URL not set, domain events disabled")
		pub = queue.NopPublisher{}
	}
	events := service.NewEvents(pub, logger)

	users := repository.NewUserRepo(db)
	auth := service.NewAuthService(users, events, service.AuthConfig{
		Secret:     cfg.SecretKey,
		BcryptCost: cfg.BcryptCost,
	}, logger)

	e := router.New(router.Deps{
		Auth:          auth,
		Users:         service.NewUserService(users),
		Subscriptions: service.NewSubscriptionService(users, events, logger),
		Store:         users,
		CookieSecure:  cfg.CookieSecure,
		RateLimit:     config.LoadRateLimitConfig(),
		Redis:         rdb,
		Logger:        logger,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "driver", db.DriverName())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	events.Wait()
}
