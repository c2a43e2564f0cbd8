package handlers

import (
	"errors"
	"net/http"
	"time"

	"hourgym/database/repository/gym"
	"hourgym/database/repository/space"
	"hourgym/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SpaceHandler exposes space CRUD for owners and browsing for renters.
type SpaceHandler struct {
	Spaces spaceRepo.SpaceRepository
	Gyms   gymRepo.GymRepository
}

func NewSpaceHandler(spaces spaceRepo.SpaceRepository, gyms gymRepo.GymRepository) *SpaceHandler {
	return &SpaceHandler{Spaces: spaces, Gyms: gyms}
}

type spaceInput struct {
	Name              string           `json:"name" binding:"required"`
	Type              models.SpaceType `json:"type" binding:"required"`
	Description       string           `json:"description"`
	HourlyRateCents   int64            `json:"hourly_rate_cents" binding:"required"`
	Capacity          int              `json:"capacity"`
	SquareFeet        int              `json:"square_feet"`
	EntryInstructions string           `json:"entry_instructions"`
	Active            *bool            `json:"active"`
}

func validSpaceType(t models.SpaceType) bool {
	switch t {
	case models.SpaceMats, models.SpaceTurf, models.SpaceCage, models.SpaceStudio, models.SpaceOther:
		return true
	}
	return false
}

// CreateSpace handles POST /owner/spaces.
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	g, err := h.Gyms.GetByOwner(c, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no gym registered for this account"})
		return
	}

	var input spaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if !validSpaceType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of mats, turf, cage, studio, other"})
		return
	}
	if input.HourlyRateCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate_cents must be positive"})
		return
	}

	now := time.Now()
	s := models.Space{
		ID:                uuid.NewString(),
		GymID:             g.ID,
		Name:              input.Name,
		Type:              input.Type,
		Description:       input.Description,
		HourlyRateCents:   input.HourlyRateCents,
		Capacity:          input.Capacity,
		SquareFeet:        input.SquareFeet,
		EntryInstructions: input.EntryInstructions,
		Active:            input.Active == nil || *input.Active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := h.Spaces.Create(c, &s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create space"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

// UpdateSpace handles PUT /owner/spaces/:id. Deactivation lives here via
// the active flag; existing confirmed bookings are untouched.
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	s, ok := h.ownedSpace(c)
	if !ok {
		return
	}

	var input spaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if !validSpaceType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of mats, turf, cage, studio, other"})
		return
	}
	if input.HourlyRateCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate_cents must be positive"})
		return
	}

	s.Name = input.Name
	s.Type = input.Type
	s.Description = input.Description
	s.HourlyRateCents = input.HourlyRateCents
	s.Capacity = input.Capacity
	s.SquareFeet = input.SquareFeet
	s.EntryInstructions = input.EntryInstructions
	if input.Active != nil {
		s.Active = *input.Active
	}
	s.UpdatedAt = time.Now()

	if err := h.Spaces.Update(c, s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update space"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListMySpaces handles GET /owner/spaces.
func (h *SpaceHandler) ListMySpaces(c *gin.Context) {
	g, err := h.Gyms.GetByOwner(c, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no gym registered for this account"})
		return
	}
	spaces, err := h.Spaces.ListByGym(c, g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list spaces"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

// BrowseSpaces handles GET /spaces: the public renter-facing listing of
// active spaces.
func (h *SpaceHandler) BrowseSpaces(c *gin.Context) {
	spaces, err := h.Spaces.ListActive(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list spaces"})
		return
	}
	if city := c.Query("city"); city != "" {
		filtered := spaces[:0]
		for _, s := range spaces {
			g, err := h.Gyms.GetByID(c, s.GymID)
			if err == nil && g.City == city {
				filtered = append(filtered, s)
			}
		}
		spaces = filtered
	}
	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

// GetSpace handles GET /spaces/:id: the public detail view with gym info
// and photos.
func (h *SpaceHandler) GetSpace(c *gin.Context) {
	sw, err := h.Spaces.GetWithGym(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, spaceRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		return
	}
	if !sw.Space.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
		return
	}

	photos, err := h.Spaces.ListPhotos(c, sw.Space.ID)
	if err != nil {
		photos = nil
	}
	c.JSON(http.StatusOK, gin.H{
		"space": sw.Space,
		"gym": gin.H{
			"id":                  sw.Gym.ID,
			"name":                sw.Gym.Name,
			"slug":                sw.Gym.Slug,
			"address":             sw.Gym.Address,
			"city":                sw.Gym.City,
			"timezone":            sw.Gym.Timezone,
			"description":         sw.Gym.Description,
			"cancellation_policy": sw.Gym.CancellationPolicy,
		},
		"photos": photos,
	})
}

func (h *SpaceHandler) ownedSpace(c *gin.Context) (*models.Space, bool) {
	return ownedSpace(c, h.Spaces, h.Gyms)
}

// ownedSpace loads the space from the path and verifies the caller owns
// its gym.
func ownedSpace(c *gin.Context, spaces spaceRepo.SpaceRepository, gyms gymRepo.GymRepository) (*models.Space, bool) {
	s, err := spaces.GetByID(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, spaceRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		return nil, false
	}
	g, err := gyms.GetByID(c, s.GymID)
	if err != nil || g.OwnerID != c.GetString("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your space"})
		return nil, false
	}
	return s, true
}
