package booking

import (
	"errors"
	"fmt"
)

// Validation failures are surfaced verbatim to the end user as the reason
// a booking cannot proceed; they are never retried.
var (
	ErrPastBooking = errors.New("cannot book in the past")

	// ErrSlotTaken is the store-enforced conflict: a concurrent booking
	// won the race at creation time. Callers show it like a validation
	// error but must not treat it as a transient failure.
	ErrSlotTaken = errors.New("this time slot is no longer available")

	ErrUnauthorized     = errors.New("not allowed to act on this booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotFound         = errors.New("booking not found")
)

// DurationError reports a requested duration outside the allowed bounds,
// naming the bound that was violated.
type DurationError struct {
	Hours      float64
	LimitHours int
	TooLong    bool
}

func (e *DurationError) Error() string {
	if e.TooLong {
		return fmt.Sprintf("maximum booking duration is %d hours", e.LimitHours)
	}
	if e.LimitHours == 1 {
		return fmt.Sprintf("minimum booking duration is %d hour", e.LimitHours)
	}
	return fmt.Sprintf("minimum booking duration is %d hours", e.LimitHours)
}

// ConflictError reports a buffered overlap with an existing confirmed
// booking.
type ConflictError struct {
	BookingID string
}

func (e *ConflictError) Error() string {
	return "this time slot conflicts with another booking"
}
