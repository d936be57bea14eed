package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
)

// Service manages weekly availability templates. Writes are administrative
// and rare; reads feed the slot generator.
type Service struct {
	repo   repository.ScheduleRepository
	logger *logger.Logger
}

func NewService(repo repository.ScheduleRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetDay returns the availability record for a weekday, or nil when the day
// is unset or explicitly marked unavailable. Absence is not an error.
func (s *Service) GetDay(ctx context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, apperrors.BadRequest(fmt.Sprintf("day_of_week must be 0-6, got %d", dayOfWeek), nil)
	}

	rec, err := s.repo.GetDay(ctx, staffID, dayOfWeek)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if rec == nil || !rec.IsAvailable {
		return nil, nil
	}
	return rec, nil
}

// ListByStaff returns every configured day for a staff member, including
// days marked unavailable, for administrative views.
func (s *Service) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	recs, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return recs, nil
}

// UpsertDay validates and stores a day template, replacing any prior record
// for the same (staff_id, day_of_week).
func (s *Service) UpsertDay(ctx context.Context, req *model.UpsertScheduleRequest) (*model.WeeklyAvailability, error) {
	rec, err := buildRecord(req)
	if err != nil {
		return nil, err
	}

	if err := validate(rec); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertDay(ctx, rec); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("schedule upserted",
		"staff_id", rec.StaffID.String(),
		"day_of_week", rec.DayOfWeek)
	return rec, nil
}

func buildRecord(req *model.UpsertScheduleRequest) (*model.WeeklyAvailability, error) {
	start, err := model.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start_time", err)
	}
	end, err := model.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid end_time", err)
	}

	rec := &model.WeeklyAvailability{
		StaffID:             req.StaffID,
		DayOfWeek:           req.DayOfWeek,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: req.SlotDurationMinutes,
		CapacityPerSlot:     req.CapacityPerSlot,
		IsAvailable:         true,
	}
	if rec.SlotDurationMinutes == 0 {
		rec.SlotDurationMinutes = model.DefaultSlotDurationMinutes
	}
	if rec.CapacityPerSlot == 0 {
		rec.CapacityPerSlot = model.DefaultCapacityPerSlot
	}
	if req.IsAvailable != nil {
		rec.IsAvailable = *req.IsAvailable
	}

	if req.BreakStart != nil {
		bs, err := model.ParseTimeOfDay(*req.BreakStart)
		if err != nil {
			return nil, apperrors.BadRequest("invalid break_start", err)
		}
		rec.BreakStart = &bs
	}
	if req.BreakEnd != nil {
		be, err := model.ParseTimeOfDay(*req.BreakEnd)
		if err != nil {
			return nil, apperrors.BadRequest("invalid break_end", err)
		}
		rec.BreakEnd = &be
	}

	return rec, nil
}

func validate(rec *model.WeeklyAvailability) error {
	if !rec.StartTime.Before(rec.EndTime) {
		return apperrors.InvalidSchedule("start_time must be before end_time")
	}
	if (rec.BreakStart == nil) != (rec.BreakEnd == nil) {
		return apperrors.InvalidSchedule("break_start and break_end must be set together")
	}
	if rec.HasBreak() {
		if !rec.BreakStart.Before(*rec.BreakEnd) {
			return apperrors.InvalidSchedule("break_start must be before break_end")
		}
		if rec.BreakStart.Before(rec.StartTime) || rec.EndTime.Before(*rec.BreakEnd) {
			return apperrors.InvalidSchedule("break must lie within working hours")
		}
	}
	if rec.SlotDurationMinutes <= 0 {
		return apperrors.InvalidSchedule("slot_duration_minutes must be positive")
	}
	if rec.CapacityPerSlot <= 0 {
		return apperrors.InvalidSchedule("capacity_per_slot must be positive")
	}
	return nil
}
