package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsCode(t *testing.T) {
	err := SlotConflict("slot taken", nil)
	assert.True(t, IsCode(err, ErrSlotConflict))
	assert.False(t, IsCode(err, ErrNotFound))

	wrapped := fmt.Errorf("creating booking: %w", err)
	assert.True(t, IsCode(wrapped, ErrSlotConflict))

	assert.False(t, IsCode(errors.New("plain"), ErrInternal))
	assert.False(t, IsCode(nil, ErrInternal))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("completed", "confirmed")
	assert.Equal(t, "cannot transition booking from completed to confirmed", err.Message)
	assert.Equal(t, ErrInvalidTransition, err.Code)
}
