package models

import "time"

// SpaceType categorizes a rentable area within a gym.
type SpaceType string

const (
	SpaceMats   SpaceType = "mats"
	SpaceTurf   SpaceType = "turf"
	SpaceCage   SpaceType = "cage"
	SpaceStudio SpaceType = "studio"
	SpaceOther  SpaceType = "other"
)

// Space is a bookable area within a gym, priced per hour in minor
// currency units.
type Space struct {
	ID                string    `bson:"id" json:"id"`
	GymID             string    `bson:"gym_id" json:"gym_id"`
	Name              string    `bson:"name" json:"name"`
	Type              SpaceType `bson:"type" json:"type"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	HourlyRateCents   int64     `bson:"hourly_rate_cents" json:"hourly_rate_cents"`
	Capacity          int       `bson:"capacity,omitempty" json:"capacity,omitempty"`
	SquareFeet        int       `bson:"square_feet,omitempty" json:"square_feet,omitempty"`
	EntryInstructions string    `bson:"entry_instructions,omitempty" json:"entry_instructions,omitempty"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// SpacePhoto references an uploaded photo for a space.
type SpacePhoto struct {
	ID        string    `bson:"id" json:"id"`
	SpaceID   string    `bson:"space_id" json:"space_id"`
	PublicID  string    `bson:"public_id" json:"public_id"` // storage identifier
	URL       string    `bson:"url" json:"url"`
	Position  int       `bson:"position" json:"position"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SpaceWithGym is a space joined with its gym, as read by the booking flow.
type SpaceWithGym struct {
	Space `bson:",inline"`
	Gym   Gym `bson:"gym" json:"gym"`
}
