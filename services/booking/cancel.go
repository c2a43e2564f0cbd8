package booking

import (
	"context"
	"errors"
	"time"

	"hourgym/database/repository/booking"
	"hourgym/models"
	"hourgym/services/notification"
	"hourgym/services/payment"
	"hourgym/utils"

	"go.uber.org/zap"
)

// Cancel cancels a confirmed booking on behalf of the renter or the gym
// owner. Refund eligibility follows the gym's cancellation policy for
// renters; an owner-initiated cancellation always refunds in full. The
// refund is issued before the booking flips to cancelled, so a gateway
// failure leaves the booking intact.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sw, err := s.Spaces.GetWithGym(ctx, b.SpaceID)
	if err != nil {
		return nil, err
	}

	ownerInitiated := actorID == sw.Gym.OwnerID
	if !ownerInitiated && actorID != b.RenterID {
		return nil, ErrUnauthorized
	}

	if b.Status == models.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	now := s.clock()
	if now.After(b.EndAt) {
		return nil, ErrBookingEnded
	}

	refundEligible := ownerInitiated ||
		CanCancelWithRefund(b.StartAt, now, sw.Gym.CancellationPolicy, s.Rules)

	var refundAmount int64
	var refundID string
	if refundEligible && b.StripePaymentIntentID != "" {
		res, err := s.Gateway.Refund(ctx, payment.RefundParams{
			PaymentIntentID: b.StripePaymentIntentID,
			BookingID:       b.ID,
			CancelledBy:     actorID,
			OwnerInitiated:  ownerInitiated,
		})
		switch {
		case err == nil:
			refundAmount = res.Amount
			refundID = res.ID
		case errors.Is(err, payment.ErrAlreadyRefunded):
			// A concurrent cancellation already refunded; record the full
			// amount and proceed.
			refundAmount = b.TotalAmount
		default:
			return nil, err
		}
	}

	if err := s.Bookings.MarkCancelled(ctx, b.ID, actorID, refundAmount, refundID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// Lost a cancel race; the booking is already cancelled.
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingID", b.ID), zap.String("cancelledBy", actorID),
		zap.Bool("ownerInitiated", ownerInitiated), zap.Int64("refund", refundAmount))

	b.Status = models.BookingCancelled
	b.CancelledAt = &now
	b.CancelledBy = actorID
	b.RefundAmount = refundAmount
	b.StripeRefundID = refundID
	b.UpdatedAt = now

	go s.notifyCancelled(*b, *sw, ownerInitiated)

	return b, nil
}

func (s *DefaultBookingService) notifyCancelled(b models.Booking, sw models.SpaceWithGym, ownerInitiated bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = s.Notifier.SendBookingCancelled(ctx, notification.CancellationNotification{
		BookingID:         b.ID,
		SpaceName:         sw.Space.Name,
		GymName:           sw.Gym.Name,
		StartAt:           b.StartAt,
		EndAt:             b.EndAt,
		RefundAmountCents: b.RefundAmount,
		CancelledByGym:    ownerInitiated,
		RenterName:        b.RenterName,
		RenterEmail:       b.RenterEmail,
		RenterPhone:       b.RenterPhone,
	})
}
