package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/repository"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/service/availability"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/logger"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/metrics"
)

// Checker is the availability pre-check consulted before committing a
// booking. The ledger's unique index remains the authoritative guard.
type Checker interface {
	Check(ctx context.Context, staffID uuid.UUID, date model.Date, t model.TimeOfDay) (availability.Verdict, error)
}

// Service coordinates booking lifecycle operations. Every mutation is one
// atomic unit against the ledger; lifecycle events are written to the
// outbox in the same transaction and published asynchronously.
type Service struct {
	repo    repository.BookingRepository
	checker Checker
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.BookingRepository, checker Checker, logger *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, checker: checker, logger: logger, metrics: m}
}

// Create validates the slot and inserts a scheduled booking. Both "outside
// working hours or on break" and "already booked" surface as one conflict
// error; the distinguishing verdict is logged.
func (s *Service) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}
	t, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, apperrors.BadRequest("invalid time", err)
	}

	verdict, err := s.checker.Check(ctx, req.StaffID, date, t)
	if err != nil {
		return nil, err
	}
	if verdict != availability.VerdictBookable {
		s.logger.Info("booking rejected",
			"staff_id", req.StaffID.String(),
			"date", date.String(),
			"time", t.String(),
			"verdict", verdict.String())
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, apperrors.SlotConflict("requested slot is not available", nil)
	}

	now := time.Now()
	booking := &model.Booking{
		ID:        uuid.New(),
		StaffID:   req.StaffID,
		ClientID:  req.ClientID,
		PetID:     req.PetID,
		Date:      date,
		Time:      t,
		Status:    model.BookingStatusScheduled,
		Reason:    req.Reason,
		CreatedAt: now,
		UpdatedAt: now,
	}

	evt, err := newEvent(model.EventBookingCreated, booking)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Insert(ctx, booking, evt); err != nil {
		if errors.Is(err, repository.ErrDuplicateActiveBooking) {
			// Lost the race against a concurrent create for the same slot.
			s.logger.Info("booking rejected",
				"staff_id", req.StaffID.String(),
				"date", date.String(),
				"time", t.String(),
				"verdict", availability.VerdictAlreadyBooked.String())
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.SlotConflict("requested slot is not available", err)
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	return booking, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.Internal(err)
	}
	return booking, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusConfirmed, model.EventBookingConfirmed)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCancelled, model.EventBookingCancelled)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCompleted, model.EventBookingCompleted)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.BookingStatus, eventType string) (*model.Booking, error) {
	// Two attempts: a concurrent transition between Get and UpdateStatus
	// shows up as ErrStatusChanged, in which case the state machine is
	// re-evaluated against the fresh status.
	for attempt := 0; attempt < 2; attempt++ {
		booking, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if !booking.Status.CanTransitionTo(to) {
			return nil, apperrors.InvalidTransition(string(booking.Status), string(to))
		}

		from := booking.Status
		booking.Status = to
		booking.UpdatedAt = time.Now()

		evt, err := newEvent(eventType, booking)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		err = s.repo.UpdateStatus(ctx, id, from, to, evt)
		if errors.Is(err, repository.ErrStatusChanged) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		if s.metrics != nil {
			s.metrics.BookingTransitions.WithLabelValues(string(to)).Inc()
		}
		return booking, nil
	}
	return nil, apperrors.InvalidTransition("changed", string(to))
}

// Reschedule moves an active booking to a new slot. The old slot is only
// freed once the new one is held: the move is a single transactional update
// guarded by the ledger's unique index, so a conflict leaves the booking in
// its original slot.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleBookingRequest) (*model.Booking, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}
	t, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, apperrors.BadRequest("invalid time", err)
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.IsActive() {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(booking.Status))
	}

	verdict, err := s.checker.Check(ctx, booking.StaffID, date, t)
	if err != nil {
		return nil, err
	}
	if verdict != availability.VerdictBookable {
		s.logger.Info("reschedule rejected",
			"booking_id", id.String(),
			"date", date.String(),
			"time", t.String(),
			"verdict", verdict.String())
		return nil, apperrors.SlotConflict("requested slot is not available", nil)
	}

	oldDate, oldTime := booking.Date, booking.Time
	booking.Date = date
	booking.Time = t
	booking.UpdatedAt = time.Now()

	evt, err := newRescheduleEvent(booking, oldDate, oldTime)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Move(ctx, id, date, t, evt); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateActiveBooking):
			return nil, apperrors.SlotConflict("requested slot is not available", err)
		case errors.Is(err, repository.ErrStatusChanged):
			return nil, apperrors.InvalidTransition(string(booking.Status), string(booking.Status))
		default:
			return nil, apperrors.Internal(err)
		}
	}
	return booking, nil
}

func (s *Service) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.repo.Query(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

func newEvent(eventType string, booking *model.Booking) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{EventType: eventType, Payload: payload}, nil
}

func newRescheduleEvent(booking *model.Booking, oldDate model.Date, oldTime model.TimeOfDay) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(struct {
		Booking *model.Booking  `json:"booking"`
		OldDate model.Date      `json:"old_date"`
		OldTime model.TimeOfDay `json:"old_time"`
	}{booking, oldDate, oldTime})
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{EventType: model.EventBookingRescheduled, Payload: payload}, nil
}
