package booking

import (
	"context"
	"fmt"

	"hourgym/config"
	"hourgym/services/payment"
	"hourgym/utils"

	"go.uber.org/zap"
)

// BeginCheckout validates the requested interval against a fresh read of
// the space's confirmed bookings and opens a hosted checkout session.
// Nothing is reserved yet: the slot stays open until the payment webhook
// lands, and the session itself expires after its checkout window.
func (s *DefaultBookingService) BeginCheckout(ctx context.Context, req CheckoutRequest) (*payment.CheckoutSession, error) {
	if !req.WaiverAccepted {
		return nil, ErrWaiverRequired
	}

	sw, err := s.activeSpace(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if sw.Gym.OwnerID == req.RenterID {
		return nil, ErrOwnSpace
	}
	if !sw.Gym.StripeOnboarded || sw.Gym.StripeAccountID == "" {
		return nil, ErrPayoutsNotReady
	}

	// Read back one buffer width: a booking that ended moments ago still
	// blocks requests inside its trailing buffer, and the validator must
	// see the same conflict set the store's guard will.
	now := s.clock()
	existing, err := s.Bookings.ListConfirmedBySpace(ctx, req.SpaceID, now.Add(-s.Rules.Buffer()))
	if err != nil {
		return nil, fmt.Errorf("could not read existing bookings: %w", err)
	}
	if err := ValidateBookingRequest(req.StartAt, req.EndAt, now, existing, s.Rules); err != nil {
		return nil, err
	}

	pricing := CalculatePrice(sw.Space.HourlyRateCents, req.StartAt, req.EndAt, s.Rules)

	base := config.AppConfig.AppBaseURL
	sess, err := s.Gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		SpaceID:            req.SpaceID,
		SpaceName:          sw.Space.Name,
		GymName:            sw.Gym.Name,
		RenterID:           req.RenterID,
		RenterEmail:        req.RenterEmail,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Pricing:            pricing,
		DestinationAccount: sw.Gym.StripeAccountID,
		WaiverAccepted:     req.WaiverAccepted,
		SuccessURL:         base + "/bookings/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          base + "/spaces/" + req.SpaceID,
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("checkout opened",
		zap.String("spaceID", req.SpaceID), zap.String("renterID", req.RenterID),
		zap.Time("startAt", req.StartAt), zap.Int64("total", pricing.Total))

	return sess, nil
}
