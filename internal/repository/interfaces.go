package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
)

// Sentinel errors returned by repositories. Services translate these into
// the caller-facing error kinds.
var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateActiveBooking is returned when an insert or move would
	// violate the at-most-one-active-booking-per-slot invariant. The
	// storage layer enforces it atomically, closing the check-then-insert
	// race between concurrent requests.
	ErrDuplicateActiveBooking = errors.New("slot already has an active booking")

	// ErrStatusChanged is returned when a status update lost a race with
	// a concurrent transition on the same booking.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

// ScheduleRepository stores weekly availability templates, one record per
// (staff_id, day_of_week).
type ScheduleRepository interface {
	// GetDay returns nil (not an error) when no record exists for the day.
	GetDay(ctx context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error)
	// UpsertDay replaces any existing record for (staff_id, day_of_week).
	UpsertDay(ctx context.Context, rec *model.WeeklyAvailability) error
}

// BookingRepository is the booking ledger. Mutations that free or occupy a
// slot run in a single transaction together with their outbox event.
type BookingRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ExistsActive(ctx context.Context, staffID uuid.UUID, date model.Date, t model.TimeOfDay) (bool, error)
	// Insert persists the booking and the outbox event atomically. Returns
	// ErrDuplicateActiveBooking when the slot is already held.
	Insert(ctx context.Context, booking *model.Booking, evt *model.OutboxEvent) error
	// UpdateStatus transitions id from one status to another, guarded by the
	// current status. Returns ErrStatusChanged when the guard fails.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, evt *model.OutboxEvent) error
	// Move changes the booking's slot. The old slot is freed and the new one
	// taken in the same transaction; on conflict nothing changes and
	// ErrDuplicateActiveBooking is returned.
	Move(ctx context.Context, id uuid.UUID, date model.Date, t model.TimeOfDay, evt *model.OutboxEvent) error
	Query(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
}

// OutboxRepository is consumed by the event worker.
type OutboxRepository interface {
	GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
