package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// checkoutWindow is how long a renter has to complete payment before the
// hosted session expires and the slot is released.
const checkoutWindow = 30 * time.Minute

// StripeGateway implements Gateway on Stripe hosted checkout with
// destination charges to the gym's connected account.
type StripeGateway struct {
	logger *zap.Logger
}

func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{logger: logger}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	expiresAt := time.Now().Add(checkoutWindow)

	description := fmt.Sprintf("%.1f hours on %s", p.Pricing.Hours, p.StartAt.Format("Jan 2, 2006"))
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(p.RenterEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(p.Pricing.Total),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s at %s", p.SpaceName, p.GymName)),
						Description: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.Pricing.PlatformFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(p.DestinationAccount),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		ExpiresAt:  stripe.Int64(expiresAt.Unix()),
	}
	params.Context = ctx

	params.AddMetadata("space_id", p.SpaceID)
	params.AddMetadata("renter_id", p.RenterID)
	params.AddMetadata("start_at", p.StartAt.Format(time.RFC3339))
	params.AddMetadata("end_at", p.EndAt.Format(time.RFC3339))
	params.AddMetadata("waiver_accepted", strconv.FormatBool(p.WaiverAccepted))
	params.AddMetadata("total_amount", strconv.FormatInt(p.Pricing.Total, 10))
	params.AddMetadata("platform_fee", strconv.FormatInt(p.Pricing.PlatformFee, 10))
	params.AddMetadata("owner_payout", strconv.FormatInt(p.Pricing.OwnerPayout, 10))

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout creation failed: %w", err)
	}

	g.logger.Info("created checkout session",
		zap.String("sessionID", sess.ID), zap.String("spaceID", p.SpaceID))

	return &CheckoutSession{ID: sess.ID, URL: sess.URL, ExpiresAt: expiresAt}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, p RefundParams) (*RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.PaymentIntentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", p.BookingID)
	params.AddMetadata("cancelled_by", p.CancelledBy)
	if p.OwnerInitiated {
		params.AddMetadata("cancellation_type", "gym_owner")
	} else {
		params.AddMetadata("cancellation_type", "renter")
	}

	ref, err := refund.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded {
			return nil, ErrAlreadyRefunded
		}
		return nil, fmt.Errorf("stripe refund failed: %w", err)
	}

	g.logger.Info("issued refund",
		zap.String("refundID", ref.ID), zap.Int64("amount", ref.Amount),
		zap.String("bookingID", p.BookingID))

	return &RefundResult{ID: ref.ID, Amount: ref.Amount}, nil
}

// ParseCompletedCheckout decodes a checkout.session.completed event's
// session object into the typed result the booking flow consumes. The
// webhook payload is the only place the interval survives until the
// booking row exists, so missing or malformed metadata is an error, not
// a default.
func ParseCompletedCheckout(sess *stripe.CheckoutSession) (*CompletedCheckout, error) {
	md := sess.Metadata
	if md == nil {
		return nil, errors.New("checkout session has no metadata")
	}

	startAt, err := time.Parse(time.RFC3339, md["start_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid start_at in checkout metadata: %w", err)
	}
	endAt, err := time.Parse(time.RFC3339, md["end_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid end_at in checkout metadata: %w", err)
	}
	if md["space_id"] == "" || md["renter_id"] == "" {
		return nil, errors.New("checkout metadata missing space or renter")
	}

	total, _ := strconv.ParseInt(md["total_amount"], 10, 64)
	fee, _ := strconv.ParseInt(md["platform_fee"], 10, 64)
	payout, _ := strconv.ParseInt(md["owner_payout"], 10, 64)
	if total == 0 {
		total = sess.AmountTotal
	}

	out := &CompletedCheckout{
		SessionID:      sess.ID,
		SpaceID:        md["space_id"],
		RenterID:       md["renter_id"],
		StartAt:        startAt,
		EndAt:          endAt,
		TotalAmount:    total,
		PlatformFee:    fee,
		OwnerPayout:    payout,
		WaiverAccepted: md["waiver_accepted"] == "true",
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		out.RenterName = sess.CustomerDetails.Name
		out.RenterEmail = sess.CustomerDetails.Email
		out.RenterPhone = sess.CustomerDetails.Phone
	}
	return out, nil
}
