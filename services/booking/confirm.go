package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourgym/config"
	"hourgym/database/repository/booking"
	"hourgym/models"
	"hourgym/services/notification"
	"hourgym/services/payment"
	"hourgym/services/tasks"
	"hourgym/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmFromCheckout turns a completed checkout into a confirmed
// booking. Called from the payment webhook, so it is idempotent on the
// payment intent: webhook redelivery returns the existing booking.
//
// The store's transactional overlap check is the authoritative guard
// here. If a concurrent checkout for an overlapping interval paid first,
// the renter's money is already captured, so the loss path refunds in
// full and surfaces ErrSlotTaken.
func (s *DefaultBookingService) ConfirmFromCheckout(ctx context.Context, cc *payment.CompletedCheckout) (*models.Booking, error) {
	logger := utils.GetLogger()

	if cc.PaymentIntentID != "" {
		if existing, err := s.Bookings.FindByPaymentIntent(ctx, cc.PaymentIntentID); err == nil {
			logger.Info("duplicate checkout completion, returning existing booking",
				zap.String("bookingID", existing.ID), zap.String("paymentIntent", cc.PaymentIntentID))
			return existing, nil
		} else if !errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, err
		}
	}

	now := s.clock()
	b := &models.Booking{
		ID:                    uuid.NewString(),
		SpaceID:               cc.SpaceID,
		RenterID:              cc.RenterID,
		RenterName:            cc.RenterName,
		RenterEmail:           cc.RenterEmail,
		RenterPhone:           cc.RenterPhone,
		StartAt:               cc.StartAt,
		EndAt:                 cc.EndAt,
		Status:                models.BookingConfirmed,
		TotalAmount:           cc.TotalAmount,
		PlatformFee:           cc.PlatformFee,
		OwnerPayout:           cc.OwnerPayout,
		Currency:              "usd",
		StripePaymentIntentID: cc.PaymentIntentID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if cc.WaiverAccepted {
		b.WaiverAcceptedAt = &now
	}

	if err := s.Bookings.CreateConfirmed(ctx, b, s.Rules.Buffer()); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			// A concurrent delivery of the same event can commit between
			// the idempotency check and the insert. Then the "winner" is
			// this same payment, not a lost race: return it, never refund.
			if cc.PaymentIntentID != "" {
				if existing, lookupErr := s.Bookings.FindByPaymentIntent(ctx, cc.PaymentIntentID); lookupErr == nil {
					logger.Info("concurrent duplicate checkout completion, returning existing booking",
						zap.String("bookingID", existing.ID), zap.String("paymentIntent", cc.PaymentIntentID))
					return existing, nil
				}
			}
			s.refundLostRace(ctx, cc)
			return nil, fmt.Errorf("%w: payment refunded", ErrSlotTaken)
		}
		return nil, err
	}

	logger.Info("booking confirmed",
		zap.String("bookingID", b.ID), zap.String("spaceID", b.SpaceID),
		zap.Time("startAt", b.StartAt), zap.Int64("total", b.TotalAmount))

	s.scheduleReminder(b, now)
	go s.notifyConfirmed(*b)

	return b, nil
}

// refundLostRace refunds a payment whose slot was taken by a concurrent
// booking between checkout and webhook delivery.
func (s *DefaultBookingService) refundLostRace(ctx context.Context, cc *payment.CompletedCheckout) {
	logger := utils.GetLogger()
	if cc.PaymentIntentID == "" {
		logger.Error("lost booking race but no payment intent to refund",
			zap.String("sessionID", cc.SessionID))
		return
	}
	_, err := s.Gateway.Refund(ctx, payment.RefundParams{
		PaymentIntentID: cc.PaymentIntentID,
		CancelledBy:     "system",
	})
	if err != nil && !errors.Is(err, payment.ErrAlreadyRefunded) {
		// Needs manual follow-up: the renter paid for a slot they did not get.
		logger.Error("failed to refund lost booking race",
			zap.String("paymentIntent", cc.PaymentIntentID), zap.Error(err))
		return
	}
	logger.Warn("booking race lost after payment, refunded in full",
		zap.String("paymentIntent", cc.PaymentIntentID), zap.String("spaceID", cc.SpaceID))
}

// scheduleReminder enqueues the pre-session reminder task. Skipped when
// the session starts inside the reminder lead time.
func (s *DefaultBookingService) scheduleReminder(b *models.Booking, now time.Time) {
	if s.Reminders == nil {
		return
	}
	lead := time.Duration(config.AppConfig.ReminderMinutesAhead) * time.Minute
	fireAt := b.StartAt.Add(-lead)
	if !fireAt.After(now) {
		return
	}

	task, opts, err := tasks.NewReminderTask(models.ReminderPayload{BookingID: b.ID}, fireAt)
	if err == nil {
		_, err = s.Reminders.Enqueue(task, opts...)
	}
	if err != nil {
		utils.GetLogger().Error("failed to schedule booking reminder",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

// notifyConfirmed sends the confirmation email/SMS. Fire-and-forget: a
// notification failure never unwinds a paid booking.
func (s *DefaultBookingService) notifyConfirmed(b models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sw, err := s.Spaces.GetWithGym(ctx, b.SpaceID)
	if err != nil {
		utils.GetLogger().Warn("could not load space for confirmation notice",
			zap.String("bookingID", b.ID), zap.Error(err))
		return
	}

	_ = s.Notifier.SendBookingConfirmed(ctx, notification.BookingNotification{
		BookingID:         b.ID,
		SpaceName:         sw.Space.Name,
		GymName:           sw.Gym.Name,
		StartAt:           b.StartAt,
		EndAt:             b.EndAt,
		Address:           sw.Gym.Address,
		EntryInstructions: sw.Space.EntryInstructions,
		ContactName:       sw.Gym.ContactName,
		ContactPhone:      sw.Gym.ContactPhone,
		TotalAmountCents:  b.TotalAmount,
		RenterName:        b.RenterName,
		RenterEmail:       b.RenterEmail,
		RenterPhone:       b.RenterPhone,
	})
}
