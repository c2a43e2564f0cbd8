package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"hourgym/database/repository/booking"
	"hourgym/database/repository/space"
	"hourgym/models"
	"hourgym/services/notification"
	"hourgym/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpaceRepo struct {
	spaces map[string]*models.SpaceWithGym
}

func (f *fakeSpaceRepo) Create(ctx context.Context, s *models.Space) error { return nil }
func (f *fakeSpaceRepo) Update(ctx context.Context, s *models.Space) error { return nil }
func (f *fakeSpaceRepo) GetByID(ctx context.Context, id string) (*models.Space, error) {
	if sw, ok := f.spaces[id]; ok {
		return &sw.Space, nil
	}
	return nil, spaceRepo.ErrNotFound
}
func (f *fakeSpaceRepo) GetWithGym(ctx context.Context, id string) (*models.SpaceWithGym, error) {
	if sw, ok := f.spaces[id]; ok {
		return sw, nil
	}
	return nil, spaceRepo.ErrNotFound
}
func (f *fakeSpaceRepo) ListByGym(ctx context.Context, gymID string) ([]models.Space, error) {
	return nil, nil
}
func (f *fakeSpaceRepo) ListActive(ctx context.Context) ([]models.Space, error) { return nil, nil }
func (f *fakeSpaceRepo) AddPhoto(ctx context.Context, p *models.SpacePhoto) error {
	return nil
}
func (f *fakeSpaceRepo) ListPhotos(ctx context.Context, spaceID string) ([]models.SpacePhoto, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	bookings   map[string]*models.Booking
	conflictOn bool
	cancelled  []string
	// missNextPaymentIntentLookup makes the next FindByPaymentIntent
	// miss, modeling a concurrent writer committing between the
	// idempotency check and the insert.
	missNextPaymentIntentLookup bool
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, bookingRepo.ErrNotFound
}
func (f *fakeBookingRepo) FindByPaymentIntent(ctx context.Context, pi string) (*models.Booking, error) {
	if f.missNextPaymentIntentLookup {
		f.missNextPaymentIntentLookup = false
		return nil, bookingRepo.ErrNotFound
	}
	for _, b := range f.bookings {
		if b.StripePaymentIntentID == pi {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}
func (f *fakeBookingRepo) ListByRenter(ctx context.Context, renterID string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) ListConfirmedBySpace(ctx context.Context, spaceID string, from time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.SpaceID == spaceID && b.Status == models.BookingConfirmed && !b.EndAt.Before(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}
func (f *fakeBookingRepo) ListConfirmedBetween(ctx context.Context, spaceID string, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) CreateConfirmed(ctx context.Context, b *models.Booking, buffer time.Duration) error {
	if f.conflictOn {
		return bookingRepo.ErrConflict
	}
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}
func (f *fakeBookingRepo) MarkCancelled(ctx context.Context, id, cancelledBy string, refundAmount int64, refundID string, at time.Time) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != models.BookingConfirmed {
		return bookingRepo.ErrNotFound
	}
	b.Status = models.BookingCancelled
	b.CancelledBy = cancelledBy
	b.RefundAmount = refundAmount
	f.cancelled = append(f.cancelled, id)
	return nil
}
func (f *fakeBookingRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return nil
}
func (f *fakeBookingRepo) EarningsForSpaces(ctx context.Context, spaceIDs []string) (*models.EarningsSummary, error) {
	return &models.EarningsSummary{}, nil
}

type fakeGateway struct {
	sessions       int
	refunds        []payment.RefundParams
	refundErr      error
	lastCheckout   payment.CheckoutParams
	refundedAmount int64
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	f.sessions++
	f.lastCheckout = p
	return &payment.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}
func (f *fakeGateway) Refund(ctx context.Context, p payment.RefundParams) (*payment.RefundResult, error) {
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refunds = append(f.refunds, p)
	return &payment.RefundResult{ID: "re_test", Amount: f.refundedAmount}, nil
}

type noopNotifier struct{}

func (noopNotifier) SendBookingConfirmed(ctx context.Context, data notification.BookingNotification) error {
	return nil
}
func (noopNotifier) SendBookingCancelled(ctx context.Context, data notification.CancellationNotification) error {
	return nil
}
func (noopNotifier) SendBookingReminder(ctx context.Context, data notification.BookingNotification) error {
	return nil
}

func testSpace(policy models.CancellationPolicy) *models.SpaceWithGym {
	return &models.SpaceWithGym{
		Space: models.Space{
			ID:              "sp1",
			GymID:           "g1",
			Name:            "Main Mats",
			HourlyRateCents: 5000,
			Active:          true,
		},
		Gym: models.Gym{
			ID:                 "g1",
			OwnerID:            "owner-1",
			Name:               "Iron Temple",
			Timezone:           "UTC",
			CancellationPolicy: policy,
			StripeAccountID:    "acct_1",
			StripeOnboarded:    true,
		},
	}
}

func newTestService(now time.Time) (*DefaultBookingService, *fakeBookingRepo, *fakeGateway) {
	bookings := &fakeBookingRepo{bookings: map[string]*models.Booking{}}
	gateway := &fakeGateway{refundedAmount: 5000}
	svc := &DefaultBookingService{
		Spaces:   &fakeSpaceRepo{spaces: map[string]*models.SpaceWithGym{"sp1": testSpace(models.PolicyModerate)}},
		Bookings: bookings,
		Gateway:  gateway,
		Notifier: noopNotifier{},
		Rules:    DefaultRules(),
		Now:      func() time.Time { return now },
	}
	return svc, bookings, gateway
}

func TestBeginCheckout(t *testing.T) {
	now := dt(2026, time.March, 1, 8, 0)
	start := dt(2026, time.March, 2, 10, 0)

	t.Run("happy path opens a session and books nothing", func(t *testing.T) {
		svc, bookings, gateway := newTestService(now)
		sess, err := svc.BeginCheckout(context.Background(), CheckoutRequest{
			SpaceID:        "sp1",
			RenterID:       "renter-1",
			StartAt:        start,
			EndAt:          start.Add(2 * time.Hour),
			WaiverAccepted: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "cs_test", sess.ID)
		assert.Empty(t, bookings.bookings)
		assert.Equal(t, int64(10000), gateway.lastCheckout.Pricing.Total)
		assert.Equal(t, "acct_1", gateway.lastCheckout.DestinationAccount)
	})

	t.Run("waiver is mandatory", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.BeginCheckout(context.Background(), CheckoutRequest{
			SpaceID:  "sp1",
			RenterID: "renter-1",
			StartAt:  start,
			EndAt:    start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrWaiverRequired)
	})

	t.Run("owner cannot book own space", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.BeginCheckout(context.Background(), CheckoutRequest{
			SpaceID:        "sp1",
			RenterID:       "owner-1",
			StartAt:        start,
			EndAt:          start.Add(time.Hour),
			WaiverAccepted: true,
		})
		assert.ErrorIs(t, err, ErrOwnSpace)
	})

	t.Run("trailing buffer of a just-ended booking blocks checkout", func(t *testing.T) {
		// Booking 09:00-10:00 has ended by now=10:10, but its trailing
		// buffer reaches 10:30; a 10:15 request must fail the advisory
		// check before any payment happens.
		lateNow := dt(2026, time.March, 2, 10, 10)
		svc, bookings, gateway := newTestService(lateNow)
		bookings.bookings["b1"] = &models.Booking{
			ID: "b1", SpaceID: "sp1", Status: models.BookingConfirmed,
			StartAt: dt(2026, time.March, 2, 9, 0), EndAt: dt(2026, time.March, 2, 10, 0),
		}
		_, err := svc.BeginCheckout(context.Background(), CheckoutRequest{
			SpaceID:        "sp1",
			RenterID:       "renter-1",
			StartAt:        dt(2026, time.March, 2, 10, 15),
			EndAt:          dt(2026, time.March, 2, 11, 15),
			WaiverAccepted: true,
		})
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Zero(t, gateway.sessions)
	})

	t.Run("buffered conflict blocks checkout", func(t *testing.T) {
		svc, bookings, _ := newTestService(now)
		bookings.bookings["b1"] = &models.Booking{
			ID: "b1", SpaceID: "sp1", Status: models.BookingConfirmed,
			StartAt: start.Add(-time.Hour), EndAt: start.Add(-30 * time.Minute).Add(time.Hour),
		}
		_, err := svc.BeginCheckout(context.Background(), CheckoutRequest{
			SpaceID:        "sp1",
			RenterID:       "renter-1",
			StartAt:        start,
			EndAt:          start.Add(time.Hour),
			WaiverAccepted: true,
		})
		var conflictErr *ConflictError
		assert.ErrorAs(t, err, &conflictErr)
	})
}

func TestConfirmFromCheckout(t *testing.T) {
	now := dt(2026, time.March, 1, 8, 0)
	start := dt(2026, time.March, 2, 10, 0)
	cc := &payment.CompletedCheckout{
		SessionID:       "cs_test",
		PaymentIntentID: "pi_1",
		SpaceID:         "sp1",
		RenterID:        "renter-1",
		StartAt:         start,
		EndAt:           start.Add(2 * time.Hour),
		TotalAmount:     10000,
		PlatformFee:     1500,
		OwnerPayout:     8500,
		WaiverAccepted:  true,
	}

	t.Run("creates the confirmed booking", func(t *testing.T) {
		svc, bookings, _ := newTestService(now)
		b, err := svc.ConfirmFromCheckout(context.Background(), cc)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, b.Status)
		assert.Equal(t, int64(10000), b.TotalAmount)
		assert.NotNil(t, b.WaiverAcceptedAt)
		assert.Len(t, bookings.bookings, 1)
	})

	t.Run("idempotent on the payment intent", func(t *testing.T) {
		svc, bookings, _ := newTestService(now)
		first, err := svc.ConfirmFromCheckout(context.Background(), cc)
		require.NoError(t, err)
		second, err := svc.ConfirmFromCheckout(context.Background(), cc)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, bookings.bookings, 1)
	})

	t.Run("concurrent duplicate delivery returns the winner without refunding", func(t *testing.T) {
		svc, bookings, gateway := newTestService(now)
		// The same event's other delivery already committed this payment's
		// booking; the overlap guard fires, but the conflicting row is ours.
		bookings.bookings["existing"] = &models.Booking{
			ID: "existing", SpaceID: "sp1", RenterID: "renter-1",
			Status: models.BookingConfirmed, StartAt: start, EndAt: start.Add(2 * time.Hour),
			StripePaymentIntentID: "pi_1",
		}
		bookings.conflictOn = true
		bookings.missNextPaymentIntentLookup = true

		b, err := svc.ConfirmFromCheckout(context.Background(), cc)
		require.NoError(t, err)
		assert.Equal(t, "existing", b.ID)
		assert.Empty(t, gateway.refunds)
		assert.Len(t, bookings.bookings, 1)
	})

	t.Run("lost race refunds and reports the slot taken", func(t *testing.T) {
		svc, bookings, gateway := newTestService(now)
		bookings.conflictOn = true
		_, err := svc.ConfirmFromCheckout(context.Background(), cc)
		assert.ErrorIs(t, err, ErrSlotTaken)
		require.Len(t, gateway.refunds, 1)
		assert.Equal(t, "pi_1", gateway.refunds[0].PaymentIntentID)
	})
}

func TestCancel(t *testing.T) {
	start := dt(2026, time.March, 10, 10, 0)
	booked := func() *models.Booking {
		return &models.Booking{
			ID: "b1", SpaceID: "sp1", RenterID: "renter-1",
			Status: models.BookingConfirmed, StartAt: start, EndAt: start.Add(2 * time.Hour),
			TotalAmount: 10000, StripePaymentIntentID: "pi_1",
		}
	}

	t.Run("renter outside cutoff gets a refund", func(t *testing.T) {
		now := start.Add(-72 * time.Hour)
		svc, bookings, gateway := newTestService(now)
		gateway.refundedAmount = 10000
		bookings.bookings["b1"] = booked()

		b, err := svc.Cancel(context.Background(), "b1", "renter-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, int64(10000), b.RefundAmount)
		require.Len(t, gateway.refunds, 1)
		assert.False(t, gateway.refunds[0].OwnerInitiated)
	})

	t.Run("renter inside cutoff forfeits the payment", func(t *testing.T) {
		now := start.Add(-2 * time.Hour)
		svc, bookings, gateway := newTestService(now)
		bookings.bookings["b1"] = booked()

		b, err := svc.Cancel(context.Background(), "b1", "renter-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Zero(t, b.RefundAmount)
		assert.Empty(t, gateway.refunds)
	})

	t.Run("owner cancellation always refunds", func(t *testing.T) {
		now := start.Add(-2 * time.Hour)
		svc, bookings, gateway := newTestService(now)
		gateway.refundedAmount = 10000
		bookings.bookings["b1"] = booked()

		b, err := svc.Cancel(context.Background(), "b1", "owner-1")
		require.NoError(t, err)
		assert.Equal(t, int64(10000), b.RefundAmount)
		require.Len(t, gateway.refunds, 1)
		assert.True(t, gateway.refunds[0].OwnerInitiated)
	})

	t.Run("strangers cannot cancel", func(t *testing.T) {
		now := start.Add(-72 * time.Hour)
		svc, bookings, _ := newTestService(now)
		bookings.bookings["b1"] = booked()

		_, err := svc.Cancel(context.Background(), "b1", "someone-else")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("cancelled twice reports already cancelled", func(t *testing.T) {
		now := start.Add(-72 * time.Hour)
		svc, bookings, _ := newTestService(now)
		b := booked()
		b.Status = models.BookingCancelled
		bookings.bookings["b1"] = b

		_, err := svc.Cancel(context.Background(), "b1", "renter-1")
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("ended bookings cannot be cancelled", func(t *testing.T) {
		now := start.Add(3 * time.Hour)
		svc, bookings, _ := newTestService(now)
		bookings.bookings["b1"] = booked()

		_, err := svc.Cancel(context.Background(), "b1", "renter-1")
		assert.ErrorIs(t, err, ErrBookingEnded)
	})

	t.Run("refund failure leaves the booking intact", func(t *testing.T) {
		now := start.Add(-72 * time.Hour)
		svc, bookings, gateway := newTestService(now)
		gateway.refundErr = errors.New("gateway down")
		bookings.bookings["b1"] = booked()

		_, err := svc.Cancel(context.Background(), "b1", "renter-1")
		require.Error(t, err)
		assert.Equal(t, models.BookingConfirmed, bookings.bookings["b1"].Status)
	})

	t.Run("already refunded charge still cancels", func(t *testing.T) {
		now := start.Add(-72 * time.Hour)
		svc, bookings, gateway := newTestService(now)
		gateway.refundErr = payment.ErrAlreadyRefunded
		bookings.bookings["b1"] = booked()

		b, err := svc.Cancel(context.Background(), "b1", "renter-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, int64(10000), b.RefundAmount)
	})
}
