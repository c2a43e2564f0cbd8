package spaceRepo

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

// ErrNotFound is returned when no space matches the query.
var ErrNotFound = errors.New("space not found")

// SpaceRepository manages spaces and their photos.
type SpaceRepository interface {
	Create(ctx context.Context, s *models.Space) error
	Update(ctx context.Context, s *models.Space) error
	GetByID(ctx context.Context, id string) (*models.Space, error)
	// GetWithGym returns the space joined with its owning gym, as the
	// booking flow reads it.
	GetWithGym(ctx context.Context, id string) (*models.SpaceWithGym, error)
	ListByGym(ctx context.Context, gymID string) ([]models.Space, error)
	ListActive(ctx context.Context) ([]models.Space, error)
	AddPhoto(ctx context.Context, p *models.SpacePhoto) error
	ListPhotos(ctx context.Context, spaceID string) ([]models.SpacePhoto, error)
}

// MongoSpaceRepo is the MongoDB implementation of SpaceRepository.
type MongoSpaceRepo struct {
	coll      *mongo.Collection
	photoColl *mongo.Collection
}

func NewMongoSpaceRepo() *MongoSpaceRepo {
	return &MongoSpaceRepo{
		coll:      database.Collection("spaces"),
		photoColl: database.Collection("space_photos"),
	}
}

func (r *MongoSpaceRepo) Create(ctx context.Context, s *models.Space) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to insert space: %w", err)
	}
	return nil
}

func (r *MongoSpaceRepo) Update(ctx context.Context, s *models.Space) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("failed to update space %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoSpaceRepo) GetByID(ctx context.Context, id string) (*models.Space, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Space
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch space %s: %w", id, err)
	}
	return &s, nil
}

// GetWithGym joins the space with its gym via a $lookup aggregation.
func (r *MongoSpaceRepo) GetWithGym(ctx context.Context, id string) (*models.SpaceWithGym, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "gyms",
			"localField":   "gym_id",
			"foreignField": "id",
			"as":           "gym",
		}}},
		{{Key: "$unwind", Value: "$gym"}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate space %s with gym: %w", id, err)
	}
	defer cursor.Close(ctx)

	var results []models.SpaceWithGym
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode space with gym: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

func (r *MongoSpaceRepo) ListByGym(ctx context.Context, gymID string) ([]models.Space, error) {
	return r.list(ctx, bson.M{"gym_id": gymID})
}

func (r *MongoSpaceRepo) ListActive(ctx context.Context) ([]models.Space, error) {
	return r.list(ctx, bson.M{"active": true})
}

func (r *MongoSpaceRepo) list(ctx context.Context, filter bson.M) ([]models.Space, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []models.Space
	if err := cursor.All(ctx, &spaces); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}
	return spaces, nil
}

func (r *MongoSpaceRepo) AddPhoto(ctx context.Context, p *models.SpacePhoto) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.photoColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert space photo: %w", err)
	}
	return nil
}

func (r *MongoSpaceRepo) ListPhotos(ctx context.Context, spaceID string) ([]models.SpacePhoto, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.photoColl.Find(ctx, bson.M{"space_id": spaceID}, options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for space %s: %w", spaceID, err)
	}
	defer cursor.Close(ctx)

	var photos []models.SpacePhoto
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode space photos: %w", err)
	}
	return photos, nil
}
