package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/config"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository/postgres"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/messaging/redis"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/metrics"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/worker"
)

// workerConfig is read from the environment so the worker can run without
// the API's config file.
type workerConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	MetricsPort   int           `envconfig:"METRICS_PORT" default:"9090"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"1s"`
	Retention     time.Duration `envconfig:"OUTBOX_RETENTION" default:"24h"`
}

func main() {
	log := logger.NewLogger(nil)

	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.RedisURL)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer, "scheduling_worker")

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:       cfg.BatchSize,
			PollInterval:    cfg.PollInterval,
			RetryAttempts:   cfg.RetryAttempts,
			RetryDelay:      cfg.RetryDelay,
			RetainProcessed: cfg.Retention,
		},
		log,
		m,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Info("serving metrics", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "metrics server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
