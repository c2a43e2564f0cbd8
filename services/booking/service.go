package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourgym/config"
	"hourgym/database/repository/booking"
	"hourgym/database/repository/schedule"
	"hourgym/database/repository/space"
	"hourgym/models"
	"hourgym/services/notification"
	"hourgym/services/payment"
	"hourgym/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var (
	// ErrSpaceUnavailable covers both unknown and deactivated spaces;
	// renters see the same answer either way.
	ErrSpaceUnavailable = errors.New("this space is not open for booking")

	ErrOwnSpace        = errors.New("you cannot book a space at your own gym")
	ErrWaiverRequired  = errors.New("the liability waiver must be accepted before booking")
	ErrPayoutsNotReady = errors.New("this gym is not yet set up to accept payments")
	ErrBookingEnded    = errors.New("cannot cancel a booking that has already ended")
)

// CheckoutRequest is a renter's intent to book, prior to payment.
type CheckoutRequest struct {
	SpaceID        string
	RenterID       string
	RenterEmail    string
	StartAt        time.Time
	EndAt          time.Time
	WaiverAccepted bool
}

// BookingService is the booking engine's application surface: slot
// lookup, checkout, payment-confirmed creation, cancellation and reads.
type BookingService interface {
	// GetAvailableSlots returns the hour slots for a space on a calendar
	// date ("2006-01-02"), resolved in the gym's timezone.
	GetAvailableSlots(ctx context.Context, spaceID, date string) ([]models.TimeSlot, error)
	// QuotePrice prices an interval for a space without booking it.
	QuotePrice(ctx context.Context, spaceID string, startAt, endAt time.Time) (*models.PricingResult, error)
	// BeginCheckout validates the request and opens a hosted payment
	// session. No booking exists until the payment webhook confirms.
	BeginCheckout(ctx context.Context, req CheckoutRequest) (*payment.CheckoutSession, error)
	// ConfirmFromCheckout creates the confirmed booking for a completed
	// checkout. Idempotent on the payment intent.
	ConfirmFromCheckout(ctx context.Context, cc *payment.CompletedCheckout) (*models.Booking, error)
	// Cancel cancels a confirmed booking on behalf of the renter or the
	// gym owner, refunding per the gym's cancellation policy.
	Cancel(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ListRenterBookings(ctx context.Context, renterID string) ([]models.Booking, error)
}

// DefaultBookingService wires the engine to its stores, the payment
// gateway, notifications and the reminder queue.
type DefaultBookingService struct {
	Spaces   spaceRepo.SpaceRepository
	Schedule scheduleRepo.ScheduleRepository
	Bookings bookingRepo.BookingRepository

	Gateway   payment.Gateway
	Notifier  notification.NotificationService
	Reminders *asynq.Client

	Rules Rules

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func (s *DefaultBookingService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, spaceID, date string) ([]models.TimeSlot, error) {
	sw, err := s.activeSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	loc := gymLocation(sw.Gym)
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	templates, err := s.Schedule.ListTemplates(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.Schedule.ListOverrides(ctx, spaceID, date)
	if err != nil {
		return nil, err
	}

	// Bookings starting before the day can still reach into it (bounded
	// by the max duration plus buffer), and ones starting just after
	// midnight next day can buffer-block the last slot.
	pad := time.Duration(s.Rules.MaxBookingHours)*time.Hour + s.Rules.Buffer()
	nextDay := day.AddDate(0, 0, 1)
	existing, err := s.Bookings.ListConfirmedBetween(ctx, spaceID, day.Add(-pad), nextDay.Add(s.Rules.Buffer()))
	if err != nil {
		return nil, err
	}

	return GenerateSlots(day, templates, overrides, existing, s.clock(), loc, s.Rules), nil
}

func (s *DefaultBookingService) QuotePrice(ctx context.Context, spaceID string, startAt, endAt time.Time) (*models.PricingResult, error) {
	sw, err := s.activeSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	pricing := CalculatePrice(sw.Space.HourlyRateCents, startAt, endAt, s.Rules)
	return &pricing, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.RenterID != actorID {
		sw, err := s.Spaces.GetWithGym(ctx, b.SpaceID)
		if err != nil || sw.Gym.OwnerID != actorID {
			return nil, ErrUnauthorized
		}
	}
	return b, nil
}

func (s *DefaultBookingService) ListRenterBookings(ctx context.Context, renterID string) ([]models.Booking, error) {
	return s.Bookings.ListByRenter(ctx, renterID)
}

// activeSpace loads the space joined with its gym, rejecting inactive and
// unknown spaces identically.
func (s *DefaultBookingService) activeSpace(ctx context.Context, spaceID string) (*models.SpaceWithGym, error) {
	sw, err := s.Spaces.GetWithGym(ctx, spaceID)
	if err != nil {
		if errors.Is(err, spaceRepo.ErrNotFound) {
			return nil, ErrSpaceUnavailable
		}
		return nil, err
	}
	if !sw.Space.Active {
		return nil, ErrSpaceUnavailable
	}
	return sw, nil
}

// gymLocation resolves the gym's IANA timezone, falling back to the
// configured default when missing or unparsable.
func gymLocation(g models.Gym) *time.Location {
	if g.Timezone != "" {
		if loc, err := time.LoadLocation(g.Timezone); err == nil {
			return loc
		}
		utils.GetLogger().Warn("gym has invalid timezone, using default",
			zap.String("gymID", g.ID), zap.String("timezone", g.Timezone))
	}
	if loc, err := time.LoadLocation(config.AppConfig.DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
