package models

// ReminderPayload is the asynq task payload for a scheduled booking
// reminder. The worker re-reads the booking at fire time, so the payload
// carries only the identifier.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}
