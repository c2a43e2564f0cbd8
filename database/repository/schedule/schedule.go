package scheduleRepo

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

// ErrNotFound is returned when no template or override matches the query.
var ErrNotFound = errors.New("schedule entry not found")

// ScheduleRepository manages a space's recurring weekly templates and
// date-specific overrides.
type ScheduleRepository interface {
	CreateTemplate(ctx context.Context, t *models.AvailabilityTemplate) error
	DeleteTemplate(ctx context.Context, spaceID, templateID string) error
	ListTemplates(ctx context.Context, spaceID string) ([]models.AvailabilityTemplate, error)

	CreateOverride(ctx context.Context, o *models.AvailabilityOverride) error
	DeleteOverride(ctx context.Context, spaceID, overrideID string) error
	// ListOverrides returns the overrides for a space on one calendar
	// date ("2006-01-02").
	ListOverrides(ctx context.Context, spaceID, date string) ([]models.AvailabilityOverride, error)
}

// MongoScheduleRepo is the MongoDB implementation of ScheduleRepository.
type MongoScheduleRepo struct {
	templateColl *mongo.Collection
	overrideColl *mongo.Collection
}

func NewMongoScheduleRepo() *MongoScheduleRepo {
	return &MongoScheduleRepo{
		templateColl: database.Collection("availability_templates"),
		overrideColl: database.Collection("availability_overrides"),
	}
}

func (r *MongoScheduleRepo) CreateTemplate(ctx context.Context, t *models.AvailabilityTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.templateColl.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to insert availability template: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) DeleteTemplate(ctx context.Context, spaceID, templateID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.templateColl.DeleteOne(ctx, bson.M{"id": templateID, "space_id": spaceID})
	if err != nil {
		return fmt.Errorf("failed to delete availability template %s: %w", templateID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoScheduleRepo) ListTemplates(ctx context.Context, spaceID string) ([]models.AvailabilityTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sortOpt := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := r.templateColl.Find(ctx, bson.M{"space_id": spaceID}, sortOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for space %s: %w", spaceID, err)
	}
	defer cursor.Close(ctx)

	var templates []models.AvailabilityTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode availability templates: %w", err)
	}
	return templates, nil
}

func (r *MongoScheduleRepo) CreateOverride(ctx context.Context, o *models.AvailabilityOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.overrideColl.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to insert availability override: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) DeleteOverride(ctx context.Context, spaceID, overrideID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.overrideColl.DeleteOne(ctx, bson.M{"id": overrideID, "space_id": spaceID})
	if err != nil {
		return fmt.Errorf("failed to delete availability override %s: %w", overrideID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoScheduleRepo) ListOverrides(ctx context.Context, spaceID, date string) ([]models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.overrideColl.Find(ctx, bson.M{"space_id": spaceID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides for space %s on %s: %w", spaceID, date, err)
	}
	defer cursor.Close(ctx)

	var overrides []models.AvailabilityOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode availability overrides: %w", err)
	}
	return overrides, nil
}
