package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
)

type countingRepo struct {
	days    map[string]*model.WeeklyAvailability
	getDays int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{days: make(map[string]*model.WeeklyAvailability)}
}

func (r *countingRepo) GetDay(_ context.Context, staffID uuid.UUID, day int) (*model.WeeklyAvailability, error) {
	r.getDays++
	return r.days[dayKey(staffID, day)], nil
}

func (r *countingRepo) ListByStaff(_ context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	var recs []*model.WeeklyAvailability
	for _, rec := range r.days {
		if rec.StaffID == staffID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (r *countingRepo) UpsertDay(_ context.Context, rec *model.WeeklyAvailability) error {
	r.days[dayKey(rec.StaffID, rec.DayOfWeek)] = rec
	return nil
}

func record(staffID uuid.UUID, day int, start model.TimeOfDay) *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		ID:                  uuid.New(),
		StaffID:             staffID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             model.NewTimeOfDay(17, 0),
		SlotDurationMinutes: 30,
		CapacityPerSlot:     1,
		IsAvailable:         true,
	}
}

func TestGetDayCachesResult(t *testing.T) {
	inner := newCountingRepo()
	repo := NewScheduleRepository(inner, time.Minute)
	staffID := uuid.New()

	require.NoError(t, inner.UpsertDay(context.Background(), record(staffID, 0, model.NewTimeOfDay(9, 0))))

	for i := 0; i < 3; i++ {
		rec, err := repo.GetDay(context.Background(), staffID, 0)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "09:00", rec.StartTime.String())
	}
	assert.Equal(t, 1, inner.getDays)
}

func TestGetDayCachesAbsence(t *testing.T) {
	inner := newCountingRepo()
	repo := NewScheduleRepository(inner, time.Minute)
	staffID := uuid.New()

	for i := 0; i < 3; i++ {
		rec, err := repo.GetDay(context.Background(), staffID, 2)
		require.NoError(t, err)
		assert.Nil(t, rec)
	}
	assert.Equal(t, 1, inner.getDays)
}

func TestUpsertDayInvalidates(t *testing.T) {
	inner := newCountingRepo()
	repo := NewScheduleRepository(inner, time.Minute)
	staffID := uuid.New()

	require.NoError(t, repo.UpsertDay(context.Background(), record(staffID, 0, model.NewTimeOfDay(9, 0))))

	rec, err := repo.GetDay(context.Background(), staffID, 0)
	require.NoError(t, err)
	assert.Equal(t, "09:00", rec.StartTime.String())

	require.NoError(t, repo.UpsertDay(context.Background(), record(staffID, 0, model.NewTimeOfDay(8, 0))))

	rec, err = repo.GetDay(context.Background(), staffID, 0)
	require.NoError(t, err)
	assert.Equal(t, "08:00", rec.StartTime.String())
	assert.Equal(t, 2, inner.getDays)
}

func TestUpsertDayLeavesOtherDaysCached(t *testing.T) {
	inner := newCountingRepo()
	repo := NewScheduleRepository(inner, time.Minute)
	staffID := uuid.New()

	require.NoError(t, repo.UpsertDay(context.Background(), record(staffID, 0, model.NewTimeOfDay(9, 0))))
	require.NoError(t, repo.UpsertDay(context.Background(), record(staffID, 1, model.NewTimeOfDay(10, 0))))

	_, err := repo.GetDay(context.Background(), staffID, 0)
	require.NoError(t, err)
	_, err = repo.GetDay(context.Background(), staffID, 1)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertDay(context.Background(), record(staffID, 1, model.NewTimeOfDay(11, 0))))

	// Day 0 still served from cache, day 1 refetched.
	_, err = repo.GetDay(context.Background(), staffID, 0)
	require.NoError(t, err)
	_, err = repo.GetDay(context.Background(), staffID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.getDays)
}
