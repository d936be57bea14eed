package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsActive reports whether a booking with this status occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusScheduled || s == BookingStatusConfirmed
}

// CanTransitionTo reports whether the status change is allowed.
// Completed and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusScheduled:
		return next == BookingStatusConfirmed || next == BookingStatusCompleted || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

// Booking is one scheduled appointment occupying a slot. Bookings are never
// deleted; cancellation is a status change.
type Booking struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	StaffID   uuid.UUID     `db:"staff_id" json:"staff_id"`
	ClientID  uuid.UUID     `db:"client_id" json:"client_id"`
	PetID     uuid.UUID     `db:"pet_id" json:"pet_id"`
	Date      Date          `db:"date" json:"date"`
	Time      TimeOfDay     `db:"time" json:"time"`
	Status    BookingStatus `db:"status" json:"status"`
	Reason    string        `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingFilters narrows Query results. Zero-value fields are ignored.
type BookingFilters struct {
	StaffID  uuid.UUID
	ClientID uuid.UUID
	DateFrom *Date
	DateTo   *Date
	Status   BookingStatus
	// History orders by (date, time) descending, for client history views.
	// The default ascending order serves staff/date agenda views.
	History bool
}

type CreateBookingRequest struct {
	StaffID  uuid.UUID `json:"staff_id" binding:"required"`
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	PetID    uuid.UUID `json:"pet_id" binding:"required"`
	Date     string    `json:"date" binding:"required,datestring"`
	Time     string    `json:"time" binding:"required,timeofday"`
	Reason   string    `json:"reason" binding:"max=1000"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" binding:"required,datestring"`
	Time string `json:"time" binding:"required,timeofday"`
}
