package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/messaging"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// RetainProcessed bounds how long processed events are kept before the
	// cleanup pass deletes them.
	RetainProcessed time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:       100,
		PollInterval:    5 * time.Second,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		RetainProcessed: 24 * time.Hour,
	}
}

// OutboxProcessor drains pending booking events and publishes them to the
// broker. Publication is best-effort: a failure marks the event failed and
// never touches booking state.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: m,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process events")
			}
			p.cleanup(ctx)
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	var timer *prometheus.Timer
	if p.metrics != nil {
		timer = prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
		defer timer.ObserveDuration()
	}

	events, err := p.repo.GetPendingWithLock(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
		}
	}

	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := retry(p.config.RetryAttempts, p.config.RetryDelay, func() error {
		return p.broker.Publish(ctx, event.EventType, event.Payload)
	})

	if err != nil {
		if p.metrics != nil {
			p.metrics.OutboxEventsFailed.Inc()
		}
		if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.OutboxEventsProcessed.Inc()
	}
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (p *OutboxProcessor) cleanup(ctx context.Context) {
	if p.config.RetainProcessed <= 0 {
		return
	}
	deleted, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-p.config.RetainProcessed))
	if err != nil {
		p.logger.Error(err, "failed to clean up processed events")
		return
	}
	if deleted > 0 {
		p.logger.Debug("cleaned up processed events", "deleted", deleted)
	}
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
