package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func completedSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:          "cs_1",
		AmountTotal: 10000,
		Metadata: map[string]string{
			"space_id":        "sp1",
			"renter_id":       "renter-1",
			"start_at":        "2026-03-02T10:00:00Z",
			"end_at":          "2026-03-02T12:00:00Z",
			"waiver_accepted": "true",
			"total_amount":    "10000",
			"platform_fee":    "1500",
			"owner_payout":    "8500",
		},
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Name:  "Jordan Lee",
			Email: "jordan@example.com",
			Phone: "+15550001111",
		},
	}
}

func TestParseCompletedCheckout(t *testing.T) {
	cc, err := ParseCompletedCheckout(completedSession())
	require.NoError(t, err)

	assert.Equal(t, "cs_1", cc.SessionID)
	assert.Equal(t, "pi_1", cc.PaymentIntentID)
	assert.Equal(t, "sp1", cc.SpaceID)
	assert.Equal(t, "renter-1", cc.RenterID)
	assert.Equal(t, time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC), cc.StartAt.UTC())
	assert.Equal(t, time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC), cc.EndAt.UTC())
	assert.Equal(t, int64(10000), cc.TotalAmount)
	assert.Equal(t, int64(1500), cc.PlatformFee)
	assert.Equal(t, int64(8500), cc.OwnerPayout)
	assert.True(t, cc.WaiverAccepted)
	assert.Equal(t, "jordan@example.com", cc.RenterEmail)
}

func TestParseCompletedCheckoutRejectsBadMetadata(t *testing.T) {
	t.Run("no metadata", func(t *testing.T) {
		_, err := ParseCompletedCheckout(&stripe.CheckoutSession{ID: "cs_1"})
		assert.Error(t, err)
	})

	t.Run("unparsable interval", func(t *testing.T) {
		sess := completedSession()
		sess.Metadata["start_at"] = "tomorrow"
		_, err := ParseCompletedCheckout(sess)
		assert.Error(t, err)
	})

	t.Run("missing space", func(t *testing.T) {
		sess := completedSession()
		sess.Metadata["space_id"] = ""
		_, err := ParseCompletedCheckout(sess)
		assert.Error(t, err)
	})
}

func TestParseCompletedCheckoutFallsBackToSessionTotal(t *testing.T) {
	sess := completedSession()
	sess.Metadata["total_amount"] = ""

	cc, err := ParseCompletedCheckout(sess)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cc.TotalAmount)
}
