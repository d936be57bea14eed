package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
)

// insertOutboxEvent writes an event inside the caller's transaction so the
// event is persisted if and only if the booking mutation commits.
func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, evt *model.OutboxEvent) error {
	if evt == nil {
		return nil
	}
	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	now := time.Now()
	evt.Status = model.OutboxStatusPending
	evt.CreatedAt = now
	evt.UpdatedAt = now

	_, err := tx.ExecContext(ctx, query,
		evt.ID,
		evt.EventType,
		evt.Payload,
		evt.Status,
		evt.RetryCount,
		evt.CreatedAt,
		evt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message,
			   retry_count, created_at, processed_at, updated_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = 'processed', processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE outbox_events
		SET status = 'failed', error_message = $1,
			retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE status = 'processed' AND processed_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	return result.RowsAffected()
}
