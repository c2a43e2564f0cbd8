package gymRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourgym/database"
	"hourgym/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no gym matches the query.
var ErrNotFound = errors.New("gym not found")

// GymRepository manages gym records.
type GymRepository interface {
	Create(ctx context.Context, g *models.Gym) error
	Update(ctx context.Context, g *models.Gym) error
	GetByID(ctx context.Context, id string) (*models.Gym, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Gym, error)
}

// MongoGymRepo is the MongoDB implementation of GymRepository.
type MongoGymRepo struct {
	coll *mongo.Collection
}

func NewMongoGymRepo() *MongoGymRepo {
	return &MongoGymRepo{coll: database.Collection("gyms")}
}

func (r *MongoGymRepo) Create(ctx context.Context, g *models.Gym) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("failed to insert gym: %w", err)
	}
	return nil
}

func (r *MongoGymRepo) Update(ctx context.Context, g *models.Gym) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": g.ID}, g)
	if err != nil {
		return fmt.Errorf("failed to update gym %s: %w", g.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGymRepo) GetByID(ctx context.Context, id string) (*models.Gym, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoGymRepo) GetByOwner(ctx context.Context, ownerID string) (*models.Gym, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *MongoGymRepo) findOne(ctx context.Context, filter bson.M) (*models.Gym, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var g models.Gym
	if err := r.coll.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch gym: %w", err)
	}
	return &g, nil
}
