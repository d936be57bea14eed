package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
)

// ScheduleRepository decorates a schedule repository with a TTL cache.
// The weekly template is read on every availability request but changed
// only by rare administrative writes, so stale reads within the TTL are
// acceptable; upserts invalidate their own day immediately.
type ScheduleRepository struct {
	inner repository.ScheduleRepository
	cache *gocache.Cache
}

func NewScheduleRepository(inner repository.ScheduleRepository, ttl time.Duration) *ScheduleRepository {
	return &ScheduleRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func dayKey(staffID uuid.UUID, dayOfWeek int) string {
	return fmt.Sprintf("%s:%d", staffID, dayOfWeek)
}

func (r *ScheduleRepository) GetDay(ctx context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error) {
	key := dayKey(staffID, dayOfWeek)
	if cached, found := r.cache.Get(key); found {
		if rec, ok := cached.(*model.WeeklyAvailability); ok {
			return rec, nil
		}
	}

	rec, err := r.inner.GetDay(ctx, staffID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	// Absent days are cached too; a nil entry is a valid answer.
	r.cache.SetDefault(key, rec)
	return rec, nil
}

func (r *ScheduleRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	return r.inner.ListByStaff(ctx, staffID)
}

func (r *ScheduleRepository) UpsertDay(ctx context.Context, rec *model.WeeklyAvailability) error {
	if err := r.inner.UpsertDay(ctx, rec); err != nil {
		return err
	}
	r.cache.Delete(dayKey(rec.StaffID, rec.DayOfWeek))
	return nil
}
