package booking

import (
	"testing"
	"time"

	"hourgym/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmed(id string, start, end time.Time) models.Booking {
	return models.Booking{ID: id, Status: models.BookingConfirmed, StartAt: start, EndAt: end}
}

func TestValidateBookingRequestDuration(t *testing.T) {
	rules := DefaultRules()
	now := dt(2026, time.March, 2, 8, 0)

	t.Run("45 minutes is too short", func(t *testing.T) {
		start := dt(2026, time.March, 2, 10, 0)
		err := ValidateBookingRequest(start, start.Add(45*time.Minute), now, nil, rules)
		var durErr *DurationError
		require.ErrorAs(t, err, &durErr)
		assert.False(t, durErr.TooLong)
		assert.Equal(t, 1, durErr.LimitHours)
	})

	t.Run("five hours is too long", func(t *testing.T) {
		start := dt(2026, time.March, 2, 10, 0)
		err := ValidateBookingRequest(start, start.Add(5*time.Hour), now, nil, rules)
		var durErr *DurationError
		require.ErrorAs(t, err, &durErr)
		assert.True(t, durErr.TooLong)
		assert.Equal(t, 4, durErr.LimitHours)
	})

	t.Run("four hours exactly is fine", func(t *testing.T) {
		start := dt(2026, time.March, 2, 10, 0)
		err := ValidateBookingRequest(start, start.Add(4*time.Hour), now, nil, rules)
		assert.NoError(t, err)
	})
}

func TestValidateBookingRequestPast(t *testing.T) {
	rules := DefaultRules()
	now := dt(2026, time.March, 2, 12, 0)

	start := dt(2026, time.March, 2, 10, 0)
	err := ValidateBookingRequest(start, start.Add(time.Hour), now, nil, rules)
	assert.ErrorIs(t, err, ErrPastBooking)

	// The past check runs first even when the duration is also wrong.
	err = ValidateBookingRequest(start, start.Add(10*time.Hour), now, nil, rules)
	assert.ErrorIs(t, err, ErrPastBooking)
}

func TestValidateBookingRequestConflicts(t *testing.T) {
	rules := DefaultRules()
	now := dt(2026, time.March, 2, 8, 0)
	existing := []models.Booking{
		confirmed("b1", dt(2026, time.March, 2, 10, 0), dt(2026, time.March, 2, 11, 0)),
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		conflict bool
	}{
		{
			name:     "direct overlap",
			start:    dt(2026, time.March, 2, 10, 20),
			end:      dt(2026, time.March, 2, 11, 20),
			conflict: true,
		},
		{
			name:     "starts inside the trailing buffer",
			start:    dt(2026, time.March, 2, 11, 5),
			end:      dt(2026, time.March, 2, 12, 5),
			conflict: true,
		},
		{
			name:     "ends inside the leading buffer",
			start:    dt(2026, time.March, 2, 8, 45),
			end:      dt(2026, time.March, 2, 9, 45),
			conflict: true,
		},
		{
			name:     "starts exactly at buffer end",
			start:    dt(2026, time.March, 2, 11, 30),
			end:      dt(2026, time.March, 2, 12, 30),
			conflict: false,
		},
		{
			name:     "ends exactly at buffer start",
			start:    dt(2026, time.March, 2, 8, 30),
			end:      dt(2026, time.March, 2, 9, 30),
			conflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingRequest(tt.start, tt.end, now, existing, rules)
			if tt.conflict {
				var conflictErr *ConflictError
				require.ErrorAs(t, err, &conflictErr)
				assert.Equal(t, "b1", conflictErr.BookingID)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBookingRequestIgnoresCancelled(t *testing.T) {
	rules := DefaultRules()
	now := dt(2026, time.March, 2, 8, 0)
	existing := []models.Booking{
		{
			ID:      "b1",
			Status:  models.BookingCancelled,
			StartAt: dt(2026, time.March, 2, 10, 0),
			EndAt:   dt(2026, time.March, 2, 11, 0),
		},
	}

	start := dt(2026, time.March, 2, 10, 0)
	err := ValidateBookingRequest(start, start.Add(time.Hour), now, existing, rules)
	assert.NoError(t, err)
}
