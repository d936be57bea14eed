package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an application error.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrSlotConflict
	ErrInvalidSchedule
	ErrInvalidTransition
)

// AppError is the error type surfaced by services. Handlers map codes to
// HTTP status; services never log-and-swallow these.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Err: err}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: ErrForbidden, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// SlotConflict covers both "slot outside working hours or on break" and
// "slot already booked"; callers see one kind, the cause stays internal.
func SlotConflict(message string, err error) *AppError {
	return &AppError{Code: ErrSlotConflict, Message: message, Err: err}
}

func InvalidSchedule(message string) *AppError {
	return &AppError{Code: ErrInvalidSchedule, Message: message}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{Code: ErrInvalidTransition, Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to)}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
