package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/metrics"
)

// Service generates candidate slots from the weekly template and filters
// them against the booking ledger.
type Service struct {
	schedules repository.ScheduleRepository
	bookings  repository.BookingRepository
	metrics   *metrics.Metrics
}

func NewService(schedules repository.ScheduleRepository, bookings repository.BookingRepository, m *metrics.Metrics) *Service {
	return &Service{schedules: schedules, bookings: bookings, metrics: m}
}

// GenerateCandidates returns the ordered slot start times a staff member
// could be booked at on a date, before booking conflicts are considered.
// The sequence is empty when the weekday has no template or the day is
// marked unavailable. A pure function of repository state.
func (s *Service) GenerateCandidates(ctx context.Context, staffID uuid.UUID, date model.Date) ([]model.TimeOfDay, error) {
	rec, err := s.schedules.GetDay(ctx, staffID, date.DayOfWeek())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if rec == nil || !rec.IsAvailable {
		return nil, nil
	}
	return candidatesFromTemplate(rec), nil
}

// candidatesFromTemplate steps from start_time by the slot duration while
// strictly before end_time. A slot is dropped when its interval
// [t, t+duration) overlaps the break window [break_start, break_end).
func candidatesFromTemplate(rec *model.WeeklyAvailability) []model.TimeOfDay {
	var slots []model.TimeOfDay
	for t := rec.StartTime; t.Before(rec.EndTime); t = t.Add(rec.SlotDurationMinutes) {
		if rec.HasBreak() && overlaps(t, t.Add(rec.SlotDurationMinutes), *rec.BreakStart, *rec.BreakEnd) {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

func overlaps(aStart, aEnd, bStart, bEnd model.TimeOfDay) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FreeSlots filters the candidates down to those without an active booking,
// preserving ascending order.
func (s *Service) FreeSlots(ctx context.Context, staffID uuid.UUID, date model.Date) ([]model.TimeOfDay, error) {
	if s.metrics != nil {
		timer := prometheus.NewTimer(s.metrics.SlotComputationLatency)
		defer timer.ObserveDuration()
	}

	candidates, err := s.GenerateCandidates(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	var free []model.TimeOfDay
	for _, t := range candidates {
		taken, err := s.bookings.ExistsActive(ctx, staffID, date, t)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !taken {
			free = append(free, t)
		}
	}
	return free, nil
}

// Verdict says why a slot is or is not bookable. Callers collapse the two
// rejection causes into one user-facing conflict error but log the verdict.
type Verdict int

const (
	VerdictBookable Verdict = iota
	VerdictOutsideSchedule
	VerdictAlreadyBooked
)

func (v Verdict) String() string {
	switch v {
	case VerdictBookable:
		return "bookable"
	case VerdictOutsideSchedule:
		return "outside_schedule"
	case VerdictAlreadyBooked:
		return "already_booked"
	default:
		return "unknown"
	}
}

// Check reports whether t is a candidate slot with no active booking.
// This is a pre-check only; the booking insert re-enforces the invariant
// atomically in the storage layer.
func (s *Service) Check(ctx context.Context, staffID uuid.UUID, date model.Date, t model.TimeOfDay) (Verdict, error) {
	candidates, err := s.GenerateCandidates(ctx, staffID, date)
	if err != nil {
		return VerdictOutsideSchedule, err
	}

	candidate := false
	for _, c := range candidates {
		if c == t {
			candidate = true
			break
		}
	}
	if !candidate {
		return VerdictOutsideSchedule, nil
	}

	taken, err := s.bookings.ExistsActive(ctx, staffID, date, t)
	if err != nil {
		return VerdictAlreadyBooked, apperrors.Internal(err)
	}
	if taken {
		return VerdictAlreadyBooked, nil
	}
	return VerdictBookable, nil
}

// IsBookable is a convenience wrapper around Check.
func (s *Service) IsBookable(ctx context.Context, staffID uuid.UUID, date model.Date, t model.TimeOfDay) (bool, error) {
	verdict, err := s.Check(ctx, staffID, date, t)
	if err != nil {
		return false, err
	}
	return verdict == VerdictBookable, nil
}
