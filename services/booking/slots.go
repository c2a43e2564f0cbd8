package booking

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"hourgym/models"
	"hourgym/utils"

	"go.uber.org/zap"
)

// parseClock parses a wall-clock "HH:MM" string into minutes from
// midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// GenerateSlots produces every one-hour candidate slot for a space on the
// given date, flagging each as available or not. The date's weekday is
// resolved in loc (the gym's timezone).
//
//   - A blocked override with no start/end closes the whole day: empty
//     result, nothing else considered.
//   - No templates for this weekday means the gym is closed by default.
//   - Each template is walked in one-hour steps from its start; only whole
//     hours that fit entirely within [start,end) are emitted, so a
//     09:00-09:30 window yields no slots and trailing partial hours are
//     dropped.
//   - A slot is unavailable if it intersects a partial override window,
//     intersects a confirmed booking expanded by the buffer, or starts in
//     the past.
//
// Overlapping templates for the same weekday may emit duplicate slots;
// that is accepted behavior and is not deduplicated. The result is sorted
// chronologically for determinism. Stateless: same inputs, same output.
func GenerateSlots(
	date time.Time,
	templates []models.AvailabilityTemplate,
	overrides []models.AvailabilityOverride,
	existing []models.Booking,
	now time.Time,
	loc *time.Location,
	rules Rules,
) []models.TimeSlot {
	logger := utils.GetLogger()

	day := date.In(loc)
	dayOfWeek := day.Weekday()
	dateStr := day.Format("2006-01-02")
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	for _, o := range overrides {
		if o.Date == dateStr && o.Blocked && o.StartTime == "" && o.EndTime == "" {
			return nil
		}
	}

	var slots []models.TimeSlot
	buffer := rules.Buffer()

	for _, t := range templates {
		if t.DayOfWeek != dayOfWeek {
			continue
		}
		startMin, okStart := parseClock(t.StartTime)
		endMin, okEnd := parseClock(t.EndTime)
		if !okStart || !okEnd {
			logger.Warn("skipping template with malformed time window",
				zap.String("templateID", t.ID),
				zap.String("start", t.StartTime), zap.String("end", t.EndTime))
			continue
		}

		for m := startMin; m+60 <= endMin; m += 60 {
			slotStart := midnight.Add(time.Duration(m) * time.Minute)
			slotEnd := slotStart.Add(time.Hour)

			available := !blockedByOverride(slotStart, slotEnd, dateStr, midnight, overrides) &&
				!hasBufferedConflict(slotStart, slotEnd, existing, buffer) &&
				!slotStart.Before(now)

			slots = append(slots, models.TimeSlot{
				Start:     slotStart,
				End:       slotEnd,
				Available: available,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots
}

// blockedByOverride reports whether the slot intersects a partial block
// window for this date. Whole-day blocks are handled before slot
// generation starts.
func blockedByOverride(slotStart, slotEnd time.Time, dateStr string, midnight time.Time, overrides []models.AvailabilityOverride) bool {
	for _, o := range overrides {
		if o.Date != dateStr || !o.Blocked {
			continue
		}
		if o.StartTime == "" || o.EndTime == "" {
			continue
		}
		startMin, okStart := parseClock(o.StartTime)
		endMin, okEnd := parseClock(o.EndTime)
		if !okStart || !okEnd {
			continue
		}
		oStart := midnight.Add(time.Duration(startMin) * time.Minute)
		oEnd := midnight.Add(time.Duration(endMin) * time.Minute)
		if overlaps(slotStart, slotEnd, oStart, oEnd) {
			return true
		}
	}
	return false
}

// hasBufferedConflict mirrors the validator's conflict semantics exactly:
// confirmed bookings only, each expanded by the buffer on both ends.
func hasBufferedConflict(slotStart, slotEnd time.Time, existing []models.Booking, buffer time.Duration) bool {
	for _, b := range existing {
		if b.Status != models.BookingConfirmed {
			continue
		}
		if overlaps(slotStart, slotEnd, b.StartAt.Add(-buffer), b.EndAt.Add(buffer)) {
			return true
		}
	}
	return false
}
