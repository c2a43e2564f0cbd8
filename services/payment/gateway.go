package payment

import (
	"context"
	"errors"
	"time"

	"hourgym/models"
)

// ErrAlreadyRefunded signals that the charge behind a booking was
// refunded before, e.g. by a concurrent cancellation.
var ErrAlreadyRefunded = errors.New("charge already refunded")

// CheckoutParams carries everything the gateway needs to open a hosted
// checkout for a validated booking request. The booking itself is only
// created once payment succeeds, so the interval and pricing ride along
// as metadata.
type CheckoutParams struct {
	SpaceID     string
	SpaceName   string
	GymName     string
	RenterID    string
	RenterEmail string

	StartAt time.Time
	EndAt   time.Time
	Pricing models.PricingResult

	// DestinationAccount is the gym's connected account receiving the
	// payout; the platform fee stays with the marketplace.
	DestinationAccount string

	WaiverAccepted bool
	SuccessURL     string
	CancelURL      string
}

// CheckoutSession is the hosted checkout handed back to the renter.
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// RefundParams identifies the payment to refund and who asked for it.
type RefundParams struct {
	PaymentIntentID string
	BookingID       string
	CancelledBy     string
	OwnerInitiated  bool
}

// RefundResult reports the refunded amount in minor units.
type RefundResult struct {
	ID     string
	Amount int64
}

// CompletedCheckout is the decoded outcome of a successful checkout,
// parsed from the gateway's webhook event.
type CompletedCheckout struct {
	SessionID       string
	PaymentIntentID string
	SpaceID         string
	RenterID        string
	RenterName      string
	RenterEmail     string
	RenterPhone     string
	StartAt         time.Time
	EndAt           time.Time
	TotalAmount     int64
	PlatformFee     int64
	OwnerPayout     int64
	WaiverAccepted  bool
}

// Gateway abstracts the external payment provider. The engine's
// correctness never depends on the gateway succeeding: no booking is
// created or mutated unless the gateway operation already has.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	Refund(ctx context.Context, params RefundParams) (*RefundResult, error)
}
