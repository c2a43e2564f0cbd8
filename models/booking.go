package models

import "time"

// BookingStatus is the lifecycle state of a booking. Confirmed bookings
// move one-way to cancelled; "completed" is derived from the current time
// passing EndAt, never written by the engine.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a paid reservation of a space for an absolute time interval.
// A booking row only exists once payment capture has succeeded; there are
// no pending rows. All monetary fields are minor currency units.
type Booking struct {
	ID      string `bson:"id" json:"id"`
	SpaceID string `bson:"space_id" json:"space_id"`

	RenterID    string `bson:"renter_id" json:"renter_id"`
	RenterName  string `bson:"renter_name,omitempty" json:"renter_name,omitempty"`
	RenterEmail string `bson:"renter_email,omitempty" json:"renter_email,omitempty"`
	RenterPhone string `bson:"renter_phone,omitempty" json:"renter_phone,omitempty"`

	StartAt time.Time     `bson:"start_at" json:"start_at"`
	EndAt   time.Time     `bson:"end_at" json:"end_at"`
	Status  BookingStatus `bson:"status" json:"status"`

	TotalAmount int64  `bson:"total_amount" json:"total_amount"`
	PlatformFee int64  `bson:"platform_fee" json:"platform_fee"`
	OwnerPayout int64  `bson:"owner_payout" json:"owner_payout"`
	Currency    string `bson:"currency" json:"currency"`

	StripePaymentIntentID string `bson:"stripe_payment_intent_id,omitempty" json:"stripe_payment_intent_id,omitempty"`
	StripeRefundID        string `bson:"stripe_refund_id,omitempty" json:"stripe_refund_id,omitempty"`

	WaiverAcceptedAt *time.Time `bson:"waiver_accepted_at,omitempty" json:"waiver_accepted_at,omitempty"`
	CancelledAt      *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelledBy      string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	RefundAmount     int64      `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`
	ReminderSentAt   *time.Time `bson:"reminder_sent_at,omitempty" json:"reminder_sent_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveStatus derives the presentation status: a confirmed booking
// whose interval has fully elapsed reads as completed. Nothing ever
// writes "completed" to the store.
func (b Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingConfirmed && now.After(b.EndAt) {
		return BookingCompleted
	}
	return b.Status
}

// PricingResult is the cost breakdown for a booking interval. Derived
// deterministically from the hourly rate; never stored on its own.
type PricingResult struct {
	Hours       float64 `json:"hours"`
	Subtotal    int64   `json:"subtotal"`
	PlatformFee int64   `json:"platformFee"`
	Total       int64   `json:"total"`
	OwnerPayout int64   `json:"ownerPayout"`
}
