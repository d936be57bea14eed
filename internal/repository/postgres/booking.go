package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
)

// uniqueViolation is the Postgres error code raised when the partial unique
// index on (staff_id, date, time) for active bookings is hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, staff_id, client_id, pet_id, date, time,
			   status, reason, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ExistsActive(ctx context.Context, staffID uuid.UUID, date model.Date, t model.TimeOfDay) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE staff_id = $1 AND date = $2 AND time = $3
			AND status IN ('scheduled', 'confirmed')
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, staffID, date, t); err != nil {
		return false, fmt.Errorf("failed to check active booking: %w", err)
	}
	return exists, nil
}

func (r *bookingRepository) Insert(ctx context.Context, booking *model.Booking, evt *model.OutboxEvent) error {
	query := `
		INSERT INTO bookings (
			id, staff_id, client_id, pet_id, date, time,
			status, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.StaffID,
			booking.ClientID,
			booking.PetID,
			booking.Date,
			booking.Time,
			booking.Status,
			booking.Reason,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return repository.ErrDuplicateActiveBooking
		}
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return insertOutboxEvent(ctx, tx, evt)
	})
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, evt *model.OutboxEvent) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, to, time.Now(), id, from)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrStatusChanged
		}
		return insertOutboxEvent(ctx, tx, evt)
	})
}

func (r *bookingRepository) Move(ctx context.Context, id uuid.UUID, date model.Date, t model.TimeOfDay, evt *model.OutboxEvent) error {
	query := `
		UPDATE bookings
		SET date = $1, time = $2, updated_at = $3
		WHERE id = $4 AND status IN ('scheduled', 'confirmed')
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, date, t, time.Now(), id)
		if isUniqueViolation(err) {
			return repository.ErrDuplicateActiveBooking
		}
		if err != nil {
			return fmt.Errorf("failed to move booking: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrStatusChanged
		}
		return insertOutboxEvent(ctx, tx, evt)
	})
}

func (r *bookingRepository) Query(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, staff_id, client_id, pet_id, date, time,
			   status, reason, created_at, updated_at
		FROM bookings
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1

	if filters.StaffID != uuid.Nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argCount)
		args = append(args, filters.StaffID)
		argCount++
	}
	if filters.ClientID != uuid.Nil {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}
	if filters.DateFrom != nil {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, *filters.DateTo)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.History {
		query += " ORDER BY date DESC, time DESC"
	} else {
		query += " ORDER BY date ASC, time ASC"
	}

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return bookings, nil
}
