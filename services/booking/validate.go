package booking

import (
	"time"

	"hourgym/models"
)

// overlaps is the half-open interval intersection test shared by the
// validator and the slot generator: [a1,a2) and [b1,b2) intersect iff
// a1 < b2 && a2 > b1. Touching endpoints do not count.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateBookingRequest checks a proposed interval [start,end) against
// the booking rules and the given set of existing bookings, in order,
// short-circuiting on the first failure:
//
//  1. start must not be before now
//  2. duration must be within [MinBookingHours, MaxBookingHours]
//  3. the interval must not intersect any confirmed booking expanded by
//     the buffer on both ends
//
// Only confirmed bookings block; cancelled and completed ones never do.
// This is an advisory fast pre-check run against a fresh read: the
// authoritative guard is the store's conflict check at creation time.
func ValidateBookingRequest(start, end, now time.Time, existing []models.Booking, rules Rules) error {
	if start.Before(now) {
		return ErrPastBooking
	}

	hours := end.Sub(start).Hours()
	if hours < float64(rules.MinBookingHours) {
		return &DurationError{Hours: hours, LimitHours: rules.MinBookingHours}
	}
	if hours > float64(rules.MaxBookingHours) {
		return &DurationError{Hours: hours, LimitHours: rules.MaxBookingHours, TooLong: true}
	}

	buffer := rules.Buffer()
	for _, b := range existing {
		if b.Status != models.BookingConfirmed {
			continue
		}
		if overlaps(start, end, b.StartAt.Add(-buffer), b.EndAt.Add(buffer)) {
			return &ConflictError{BookingID: b.ID}
		}
	}

	return nil
}
