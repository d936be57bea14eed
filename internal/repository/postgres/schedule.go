package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
)

func (r *scheduleRepository) GetDay(ctx context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time,
			   break_start, break_end, slot_duration_minutes,
			   capacity_per_slot, is_available, created_at, updated_at
		FROM weekly_availability
		WHERE staff_id = $1 AND day_of_week = $2
	`
	var rec model.WeeklyAvailability
	err := r.db.GetContext(ctx, &rec, query, staffID, dayOfWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &rec, nil
}

func (r *scheduleRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time,
			   break_start, break_end, slot_duration_minutes,
			   capacity_per_slot, is_available, created_at, updated_at
		FROM weekly_availability
		WHERE staff_id = $1
		ORDER BY day_of_week ASC
	`
	var recs []*model.WeeklyAvailability
	if err := r.db.SelectContext(ctx, &recs, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return recs, nil
}

func (r *scheduleRepository) UpsertDay(ctx context.Context, rec *model.WeeklyAvailability) error {
	query := `
		INSERT INTO weekly_availability (
			id, staff_id, day_of_week, start_time, end_time,
			break_start, break_end, slot_duration_minutes,
			capacity_per_slot, is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (staff_id, day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			capacity_per_slot = EXCLUDED.capacity_per_slot,
			is_available = EXCLUDED.is_available,
			updated_at = EXCLUDED.updated_at
	`
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.StaffID,
		rec.DayOfWeek,
		rec.StartTime,
		rec.EndTime,
		rec.BreakStart,
		rec.BreakEnd,
		rec.SlotDurationMinutes,
		rec.CapacityPerSlot,
		rec.IsAvailable,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}
