package models

import "time"

// CancellationPolicy identifies a gym's refund policy tier.
type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "flexible"
	PolicyModerate CancellationPolicy = "moderate"
	PolicyStrict   CancellationPolicy = "strict"
)

// Gym represents a gym whose owner rents out space by the hour.
type Gym struct {
	ID                 string             `bson:"id" json:"id"`
	OwnerID            string             `bson:"owner_id" json:"owner_id"`
	Name               string             `bson:"name" json:"name"`
	Slug               string             `bson:"slug" json:"slug"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	City               string             `bson:"city" json:"city"`
	Timezone           string             `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/Denver"
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	CancellationPolicy CancellationPolicy `bson:"cancellation_policy" json:"cancellation_policy"`
	ContactName        string             `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	ContactPhone       string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	StripeAccountID    string             `bson:"stripe_account_id,omitempty" json:"stripe_account_id,omitempty"`
	StripeOnboarded    bool               `bson:"stripe_onboarded" json:"stripe_onboarded"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// EarningsSummary aggregates confirmed-booking payouts for a gym owner.
type EarningsSummary struct {
	BookingCount int   `bson:"bookingCount" json:"bookingCount"`
	GrossCents   int64 `bson:"grossCents" json:"grossCents"`
	FeesCents    int64 `bson:"feesCents" json:"feesCents"`
	PayoutCents  int64 `bson:"payoutCents" json:"payoutCents"`
}
