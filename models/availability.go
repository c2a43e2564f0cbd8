package models

import "time"

// AvailabilityTemplate is a recurring weekly open window for a space.
// Start and end are wall-clock times of day ("HH:MM"); DayOfWeek follows
// time.Weekday (0=Sunday..6=Saturday). Multiple templates per weekday are
// allowed, e.g. split shifts. Invariant: start < end.
type AvailabilityTemplate struct {
	ID        string       `bson:"id" json:"id"`
	SpaceID   string       `bson:"space_id" json:"space_id"`
	DayOfWeek time.Weekday `bson:"day_of_week" json:"day_of_week"`
	StartTime string       `bson:"start_time" json:"start_time"`
	EndTime   string       `bson:"end_time" json:"end_time"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// AvailabilityOverride blocks availability for a specific calendar date
// ("2006-01-02"). With no start/end it closes the whole day; with both set
// it blocks only the overlapping portion. Overrides never add availability.
type AvailabilityOverride struct {
	ID        string    `bson:"id" json:"id"`
	SpaceID   string    `bson:"space_id" json:"space_id"`
	Date      string    `bson:"date" json:"date"`
	Blocked   bool      `bson:"blocked" json:"blocked"`
	StartTime string    `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime   string    `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TimeSlot is a candidate one-hour bookable interval [Start,End) for a
// space on a given date. Derived on every availability query, never stored.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}
