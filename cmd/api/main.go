package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/config"
	bookingHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/booking"
	healthHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/health"
	scheduleHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/schedule"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/middleware"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository/cache"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository/postgres"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/router"
	availabilityService "github.com/JuanJo0775/Veterinaria-sistema/internal/service/availability"
	bookingService "github.com/JuanJo0775/Veterinaria-sistema/internal/service/booking"
	scheduleService "github.com/JuanJo0775/Veterinaria-sistema/internal/service/schedule"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/auth"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/messaging/redis"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/metrics"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/validator"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/worker"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := validator.RegisterCustomValidators(); err != nil {
		log.Fatal(err, "failed to register validators")
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer, "scheduling")

	scheduleRepo := cache.NewScheduleRepository(postgres.NewScheduleRepository(db), cfg.Schedule.CacheTTL)
	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	scheduleSvc := scheduleService.NewService(scheduleRepo, log)
	availabilitySvc := availabilityService.NewService(scheduleRepo, bookingRepo, m)
	bookingSvc := bookingService.NewService(bookingRepo, availabilitySvc, log, m)

	authMw := middleware.NewAuthMiddleware(auth.NewVerifier(cfg.Auth.Secret))

	r := router.NewRouter(
		authMw,
		healthHandler.NewHandler(db),
		bookingHandler.NewHandler(bookingSvc, availabilitySvc),
		scheduleHandler.NewHandler(scheduleSvc),
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:  cfg.Server.RateLimitBurst,
			Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig: middleware.DefaultCORSConfig(),
			Registerer: prometheus.DefaultRegisterer,
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(cfg.Redis.URL)
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.DefaultOutboxProcessorConfig(), log, m)
		go processor.Start(ctx)
	} else {
		log.Warn("redis url not configured, booking events will stay queued")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
