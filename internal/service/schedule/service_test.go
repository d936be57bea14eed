package schedule

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
)

type fakeRepo struct {
	days map[string]*model.WeeklyAvailability
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{days: make(map[string]*model.WeeklyAvailability)}
}

func key(staffID uuid.UUID, day int) string {
	return fmt.Sprintf("%s:%d", staffID, day)
}

func (r *fakeRepo) GetDay(_ context.Context, staffID uuid.UUID, day int) (*model.WeeklyAvailability, error) {
	return r.days[key(staffID, day)], nil
}

func (r *fakeRepo) ListByStaff(_ context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	var recs []*model.WeeklyAvailability
	for _, rec := range r.days {
		if rec.StaffID == staffID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (r *fakeRepo) UpsertDay(_ context.Context, rec *model.WeeklyAvailability) error {
	r.days[key(rec.StaffID, rec.DayOfWeek)] = rec
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewService(repo, log), repo
}

func strp(s string) *string { return &s }

func validRequest() *model.UpsertScheduleRequest {
	return &model.UpsertScheduleRequest{
		StaffID:   uuid.New(),
		DayOfWeek: 0,
		StartTime: "09:00",
		EndTime:   "17:00",
	}
}

func TestUpsertDayDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.UpsertDay(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSlotDurationMinutes, rec.SlotDurationMinutes)
	assert.Equal(t, model.DefaultCapacityPerSlot, rec.CapacityPerSlot)
	assert.True(t, rec.IsAvailable)
	assert.Nil(t, rec.BreakStart)
}

func TestUpsertDayWithBreak(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.BreakStart = strp("12:00")
	req.BreakEnd = strp("13:00")

	rec, err := svc.UpsertDay(context.Background(), req)
	require.NoError(t, err)
	require.True(t, rec.HasBreak())
	assert.Equal(t, "12:00", rec.BreakStart.String())
	assert.Equal(t, "13:00", rec.BreakEnd.String())
}

func TestUpsertDayReplacesExisting(t *testing.T) {
	svc, repo := newTestService(t)

	req := validRequest()
	_, err := svc.UpsertDay(context.Background(), req)
	require.NoError(t, err)

	req2 := validRequest()
	req2.StaffID = req.StaffID
	req2.StartTime = "08:00"
	_, err = svc.UpsertDay(context.Background(), req2)
	require.NoError(t, err)

	stored := repo.days[key(req.StaffID, 0)]
	require.NotNil(t, stored)
	assert.Equal(t, "08:00", stored.StartTime.String())
	assert.Len(t, repo.days, 1)
}

func TestUpsertDayValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(*model.UpsertScheduleRequest)
	}{
		{"start after end", func(r *model.UpsertScheduleRequest) {
			r.StartTime = "17:00"
			r.EndTime = "09:00"
		}},
		{"start equals end", func(r *model.UpsertScheduleRequest) {
			r.StartTime = "09:00"
			r.EndTime = "09:00"
		}},
		{"break start without end", func(r *model.UpsertScheduleRequest) {
			r.BreakStart = strp("12:00")
		}},
		{"break end without start", func(r *model.UpsertScheduleRequest) {
			r.BreakEnd = strp("13:00")
		}},
		{"inverted break", func(r *model.UpsertScheduleRequest) {
			r.BreakStart = strp("13:00")
			r.BreakEnd = strp("12:00")
		}},
		{"break outside working hours", func(r *model.UpsertScheduleRequest) {
			r.BreakStart = strp("08:00")
			r.BreakEnd = strp("08:30")
		}},
		{"break past end of day", func(r *model.UpsertScheduleRequest) {
			r.BreakStart = strp("16:30")
			r.BreakEnd = strp("17:30")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := svc.UpsertDay(context.Background(), req)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidSchedule), "got %v", err)
		})
	}
}

func TestUpsertDayBadTimeFormat(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.StartTime = "nine"
	_, err := svc.UpsertDay(context.Background(), req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestGetDay(t *testing.T) {
	svc, _ := newTestService(t)
	req := validRequest()

	_, err := svc.UpsertDay(context.Background(), req)
	require.NoError(t, err)

	rec, err := svc.GetDay(context.Background(), req.StaffID, 0)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "09:00", rec.StartTime.String())

	// Unset day is nil, not an error.
	rec, err = svc.GetDay(context.Background(), req.StaffID, 3)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetDayUnavailable(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	off := false
	req.IsAvailable = &off
	_, err := svc.UpsertDay(context.Background(), req)
	require.NoError(t, err)

	rec, err := svc.GetDay(context.Background(), req.StaffID, 0)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetDayRejectsBadWeekday(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetDay(context.Background(), uuid.New(), 7)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = svc.GetDay(context.Background(), uuid.New(), -1)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestListByStaffIncludesUnavailable(t *testing.T) {
	svc, _ := newTestService(t)
	staffID := uuid.New()

	req := validRequest()
	req.StaffID = staffID
	_, err := svc.UpsertDay(context.Background(), req)
	require.NoError(t, err)

	off := false
	req2 := validRequest()
	req2.StaffID = staffID
	req2.DayOfWeek = 1
	req2.IsAvailable = &off
	_, err = svc.UpsertDay(context.Background(), req2)
	require.NoError(t, err)

	recs, err := svc.ListByStaff(context.Background(), staffID)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
