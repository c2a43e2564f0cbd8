package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourgym/database"
	"hourgym/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no booking matches the query.
	ErrNotFound = errors.New("booking not found")

	// ErrConflict is the store-level exclusion guarantee firing: another
	// confirmed booking already occupies an overlapping buffered
	// interval. This is the authoritative double-booking defense; the
	// engine's validator is only an advisory pre-check.
	ErrConflict = errors.New("overlapping confirmed booking exists")
)

// BookingRepository manages booking records.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]models.Booking, error)
	// ListConfirmedBySpace returns confirmed bookings for a space that
	// end at or after the given instant.
	ListConfirmedBySpace(ctx context.Context, spaceID string, from time.Time) ([]models.Booking, error)
	// ListConfirmedBetween returns confirmed bookings starting within
	// [from,to], as slot generation reads them for one date.
	ListConfirmedBetween(ctx context.Context, spaceID string, from, to time.Time) ([]models.Booking, error)
	// CreateConfirmed inserts a confirmed booking inside a transaction
	// that re-checks for buffered overlap, returning ErrConflict if a
	// concurrent booking won the race.
	CreateConfirmed(ctx context.Context, b *models.Booking, buffer time.Duration) error
	MarkCancelled(ctx context.Context, id, cancelledBy string, refundAmount int64, refundID string, at time.Time) error
	// MarkReminderSent sets the reminder marker once; subsequent calls
	// for the same booking do not match.
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	// EarningsForSpaces aggregates confirmed-booking money over the
	// given spaces.
	EarningsForSpaces(ctx context.Context, spaceIDs []string) (*models.EarningsSummary, error)
}

// MongoBookingRepo is the MongoDB implementation of BookingRepository.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.Collection("bookings")}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"stripe_payment_intent_id": paymentIntentID})
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) ListByRenter(ctx context.Context, renterID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"renter_id": renterID}, options.Find().SetSort(bson.M{"start_at": -1}))
}

func (r *MongoBookingRepo) ListConfirmedBySpace(ctx context.Context, spaceID string, from time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"space_id": spaceID,
		"status":   models.BookingConfirmed,
		"end_at":   bson.M{"$gte": from},
	}
	return r.list(ctx, filter, options.Find().SetSort(bson.M{"start_at": 1}))
}

func (r *MongoBookingRepo) ListConfirmedBetween(ctx context.Context, spaceID string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"space_id": spaceID,
		"status":   models.BookingConfirmed,
		"start_at": bson.M{"$gte": from, "$lte": to},
	}
	return r.list(ctx, filter, options.Find().SetSort(bson.M{"start_at": 1}))
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// CreateConfirmed inserts the booking inside a session transaction. The
// overlap re-check and the insert commit atomically, so of two racing
// checkouts for overlapping intervals exactly one commits; the other
// gets ErrConflict.
func (r *MongoBookingRepo) CreateConfirmed(ctx context.Context, b *models.Booking, buffer time.Duration) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"space_id": b.SpaceID,
			"status":   models.BookingConfirmed,
			"start_at": bson.M{"$lt": b.EndAt.Add(buffer)},
			"end_at":   bson.M{"$gt": b.StartAt.Add(-buffer)},
		}
		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap re-check failed: %w", err)
		}
		if count > 0 {
			return ErrConflict
		}
		if _, err := r.coll.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, id, cancelledBy string, refundAmount int64, refundID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":           models.BookingCancelled,
		"cancelled_at":     at,
		"cancelled_by":     cancelledBy,
		"refund_amount":    refundAmount,
		"stripe_refund_id": refundID,
		"updated_at":       at,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.BookingConfirmed}, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookingRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "reminder_sent_at": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"reminder_sent_at": at, "updated_at": at}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookingRepo) EarningsForSpaces(ctx context.Context, spaceIDs []string) (*models.EarningsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"space_id": bson.M{"$in": spaceIDs},
			"status":   models.BookingConfirmed,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"bookingCount": bson.M{"$sum": 1},
			"grossCents":   bson.M{"$sum": "$total_amount"},
			"feesCents":    bson.M{"$sum": "$platform_fee"},
			"payoutCents":  bson.M{"$sum": "$owner_payout"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.EarningsSummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode earnings summary: %w", err)
	}
	if len(results) == 0 {
		return &models.EarningsSummary{}, nil
	}
	return &results[0], nil
}
