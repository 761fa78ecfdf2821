package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphandler "homeward/internal/application/handler"
	appmetrics "homeward/internal/application/metrics"
	appservice "homeward/internal/application/service"
	appstore "homeward/internal/application/store"
	"homeward/internal/audit"
	httpapi "homeward/internal/http"
	jwttoken "homeward/internal/jwt_token"
	"homeward/internal/notification"
	pethandler "homeward/internal/pet/handler"
	petservice "homeward/internal/pet/service"
	petstore "homeward/internal/pet/store"
	"homeward/internal/platform/config"
	"homeward/internal/platform/httpserver"
	"homeward/internal/platform/kafka"
	"homeward/internal/platform/logger"
	"homeward/internal/platform/metrics"
	"homeward/internal/platform/postgres"
	"homeward/internal/platform/redis"
	authmw "homeward/pkg/platform/middleware/auth"
)

// jwtValidator adapts the token service to the auth middleware contract.
type jwtValidator struct {
	svc *jwttoken.JWTService
}

func (v *jwtValidator) ValidateToken(token string) (*authmw.Claims, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{UserID: claims.UserID, Role: claims.Role}, nil
}

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		pets         petstore.Store
		applications appstore.Store
		health       = map[string]func(context.Context) error{}
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.ApplySchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		pets = petstore.NewPostgres(db)
		applications = appstore.NewPostgres(db)
		health["postgres"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		pets = petstore.NewInMemory()
		applications = appstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		pets = petstore.NewRedisCache(pets, redisClient.Client, cfg.Redis.PetCacheTTL, log)
		health["redis"] = redisClient.Health
		log.Info("pet cache enabled")
	}

	var publisher audit.Publisher = audit.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = audit.NewKafkaPublisher(producer, log)
		log.Info("transition audit log enabled", "topic", cfg.Kafka.Topic)
	}

	var sender notification.Sender
	if cfg.Notification.SESRegion != "" {
		sesSender, err := notification.NewSESSender(ctx, cfg.Notification.SESRegion, cfg.Notification.Sender)
		if err != nil {
			log.Error("ses setup failed", "error", err)
			os.Exit(1)
		}
		sender = sesSender
		log.Info("ses notifications enabled", "region", cfg.Notification.SESRegion)
	} else {
		sender = notification.NewLogSender(log)
		log.Warn("SES_REGION not set, notifications are log-only")
	}
	dispatcher := notification.NewDispatcher(sender, log,
		cfg.Notification.QueueSize,
		cfg.Notification.MaxRetries,
		cfg.Notification.RetryDelay,
	)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	directory := notification.NewStaticDirectory()

	httpMetrics := metrics.New()
	lifecycle := appservice.New(applications, pets, log,
		appservice.WithNotifier(dispatcher, directory),
		appservice.WithAuditPublisher(publisher),
		appservice.WithMetrics(appmetrics.New()),
	)
	catalog := petservice.New(pets)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       log,
		Metrics:      httpMetrics,
		Validator:    &jwtValidator{svc: tokens},
		Pets:         pethandler.New(catalog, log),
		Applications: apphandler.New(lifecycle, log),
		HealthChecks: health,
	})

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
