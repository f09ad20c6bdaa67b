package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Eursukkul/booking-microservice/reservation-service/config"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/consumer"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/server"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/worker"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/auth"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/rabbitmq"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Service: "reservation-service"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DSN(), logg.Logger)
	if err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}

	// Repositories
	txm := repository.NewTransactor(db)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL)
	if err != nil {
		logg.Fatal("failed to build token issuer", "error", err)
	}

	// Services
	bookingSvc := service.NewBookingService(txm, bookingRepo, notificationRepo, outboxRepo, logg, cfg.Location())
	notificationSvc := service.NewNotificationService(notificationRepo)
	userSvc := service.NewUserService(userRepo, tokens, logg)

	if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logg.Fatal("failed to provision admin account", "error", err)
	}

	// Messaging: outbox relay out, notification consumer in.
	if cfg.MessagingEnabled() {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, logg)
		if err != nil {
			logg.Fatal("failed to connect publisher to RabbitMQ", "error", err)
		}
		defer publisher.Close()

		relay := worker.NewOutboxRelay(outboxRepo, publisher, logg, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxMaxAttempts)
		go relay.Run(ctx)

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.NotificationsQueue, logg, "booking.*")
		if err != nil {
			logg.Fatal("failed to connect consumer to RabbitMQ", "error", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			logg.Fatal("failed to start consuming", "error", err)
		}
		consumer.NewNotificationConsumer(consumer.NewLogNotifier(logg), logg).Start(ctx, msgs)
	} else {
		logg.Warn("RABBIT_URL not set, booking events stay in the outbox")
	}

	var stats middleware.RateLimitStats
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logg.Warn("redis unreachable, rate limit stats disabled", "error", err)
		} else {
			stats = middleware.NewRedisRateLimitStats(rdb, "reservation-service:ratelimit")
		}
	}

	limiter := middleware.NewLimiterStore(cfg.AuthRateRPS, cfg.AuthRateBurst)
	limiter.StartJanitor(ctx)

	e := server.New(server.Deps{
		Log:            logg,
		DB:             database.NewPinger(db),
		Tokens:         tokens,
		Bookings:       bookingSvc,
		Notifications:  notificationSvc,
		Users:          userSvc,
		Location:       cfg.Location(),
		AuthLimiter:    limiter,
		RateLimitStats: stats,
	})

	go func() {
		logg.Info("reservation service starting", "port", cfg.ServerPort, "timezone", cfg.Location().String())
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server stopped unexpectedly", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", "error", err)
	}
}
