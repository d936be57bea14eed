package schedule

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/httputil"
)

// Service is the schedule administration surface consumed by this handler.
type Service interface {
	UpsertDay(ctx context.Context, req *model.UpsertScheduleRequest) (*model.WeeklyAvailability, error)
	GetDay(ctx context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the schedule endpoints. Writes are administrative
// and require the admin guard; reads are open to any authenticated caller.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	schedules := r.Group("/staff-schedules")
	{
		schedules.POST("", admin, h.UpsertSchedule)
		schedules.PUT("", admin, h.UpsertSchedule)
		schedules.GET("/:staff_id", h.ListSchedules)
		schedules.GET("/:staff_id/day/:day", h.GetScheduleDay)
	}
}

func (h *Handler) UpsertSchedule(c *gin.Context) {
	var req model.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	rec, err := h.service.UpsertDay(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rec)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	recs, err := h.service.ListByStaff(c.Request.Context(), staffID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if recs == nil {
		recs = []*model.WeeklyAvailability{}
	}
	httputil.RespondWithSuccess(c, recs)
}

func (h *Handler) GetScheduleDay(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid day of week", err))
		return
	}

	rec, err := h.service.GetDay(c.Request.Context(), staffID, day)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if rec == nil {
		httputil.RespondWithError(c, apperrors.NotFound("schedule", nil))
		return
	}

	httputil.RespondWithSuccess(c, rec)
}
