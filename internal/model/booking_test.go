package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsActive(t *testing.T) {
	assert.True(t, BookingStatusScheduled.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusScheduled, BookingStatusConfirmed, true},
		{BookingStatusScheduled, BookingStatusCompleted, true},
		{BookingStatusScheduled, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusScheduled, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusScheduled, false},
		{BookingStatusCancelled, BookingStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
