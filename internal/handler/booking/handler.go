package booking

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/httputil"
)

// Coordinator is the booking lifecycle surface consumed by this handler.
type Coordinator interface {
	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Complete(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleBookingRequest) (*model.Booking, error)
	List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
}

// SlotLister exposes the availability computation.
type SlotLister interface {
	FreeSlots(ctx context.Context, staffID uuid.UUID, date model.Date) ([]model.TimeOfDay, error)
}

type Handler struct {
	service Coordinator
	slots   SlotLister
}

func NewHandler(service Coordinator, slots SlotLister) *Handler {
	return &Handler{service: service, slots: slots}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/available-slots", h.GetAvailableSlots)
		appointments.POST("", h.CreateBooking)
		appointments.GET("", h.ListBookings)
		appointments.GET("/:id", h.GetBooking)
		appointments.PUT("/:id/confirm", h.ConfirmBooking)
		appointments.PUT("/:id/cancel", h.CancelBooking)
		appointments.PUT("/:id/complete", h.CompleteBooking)
		appointments.PUT("/:id/reschedule", h.RescheduleBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	booking, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, booking)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, booking)
}

func (h *Handler) ListBookings(c *gin.Context) {
	filters := &model.BookingFilters{}

	if id := c.Query("staff_id"); id != "" {
		staffID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		filters.StaffID = staffID
	}

	if id := c.Query("client_id"); id != "" {
		clientID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid client ID", err))
			return
		}
		filters.ClientID = clientID
		// Client views are history views, newest first.
		filters.History = true
	}

	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}

	if date := c.Query("start_date"); date != "" {
		from, err := model.ParseDate(date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid start_date", err))
			return
		}
		filters.DateFrom = &from
	}

	if date := c.Query("end_date"); date != "" {
		to, err := model.ParseDate(date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid end_date", err))
			return
		}
		filters.DateTo = &to
	}

	bookings, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, bookings)
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	h.applyTransition(c, h.service.Confirm)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	h.applyTransition(c, h.service.Cancel)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, h.service.Complete)
}

func (h *Handler) applyTransition(c *gin.Context, op func(context.Context, uuid.UUID) (*model.Booking, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	booking, err := op(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, booking)
}

func (h *Handler) RescheduleBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	var req model.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	booking, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, booking)
}

func (h *Handler) GetAvailableSlots(c *gin.Context) {
	staffID, err := uuid.Parse(c.Query("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	date, err := model.ParseDate(c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date format", err))
		return
	}

	slots, err := h.slots.FreeSlots(c.Request.Context(), staffID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// Slots serialize as "HH:MM" strings; an empty day is an empty list.
	if slots == nil {
		slots = []model.TimeOfDay{}
	}
	httputil.RespondWithSuccess(c, gin.H{
		"staff_id": staffID,
		"date":     date,
		"slots":    slots,
	})
}
