package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSlotDurationMinutes = 30
	DefaultCapacityPerSlot     = 1
)

// WeeklyAvailability is one staff member's working pattern for one weekday.
// At most one record exists per (staff_id, day_of_week); writes upsert.
type WeeklyAvailability struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	StaffID             uuid.UUID  `db:"staff_id" json:"staff_id"`
	DayOfWeek           int        `db:"day_of_week" json:"day_of_week"` // 0=Monday .. 6=Sunday
	StartTime           TimeOfDay  `db:"start_time" json:"start_time"`
	EndTime             TimeOfDay  `db:"end_time" json:"end_time"`
	BreakStart          *TimeOfDay `db:"break_start" json:"break_start,omitempty"`
	BreakEnd            *TimeOfDay `db:"break_end" json:"break_end,omitempty"`
	SlotDurationMinutes int        `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	CapacityPerSlot     int        `db:"capacity_per_slot" json:"capacity_per_slot"`
	IsAvailable         bool       `db:"is_available" json:"is_available"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// HasBreak reports whether a break window is configured.
func (w *WeeklyAvailability) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

type UpsertScheduleRequest struct {
	StaffID             uuid.UUID `json:"staff_id" binding:"required"`
	DayOfWeek           int       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime           string    `json:"start_time" binding:"required,timeofday"`
	EndTime             string    `json:"end_time" binding:"required,timeofday"`
	BreakStart          *string   `json:"break_start" binding:"omitempty,timeofday"`
	BreakEnd            *string   `json:"break_end" binding:"omitempty,timeofday"`
	SlotDurationMinutes int       `json:"slot_duration_minutes" binding:"omitempty,min=5,max=480"`
	CapacityPerSlot     int       `json:"capacity_per_slot" binding:"omitempty,min=1"`
	IsAvailable         *bool     `json:"is_available"`
}
