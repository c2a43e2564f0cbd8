package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"hourgym/database/repository/booking"
	"hourgym/database/repository/gym"
	"hourgym/database/repository/space"
	"hourgym/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GymHandler exposes the owner-side gym surface.
type GymHandler struct {
	Gyms     gymRepo.GymRepository
	Spaces   spaceRepo.SpaceRepository
	Bookings bookingRepo.BookingRepository
}

func NewGymHandler(gyms gymRepo.GymRepository, spaces spaceRepo.SpaceRepository, bookings bookingRepo.BookingRepository) *GymHandler {
	return &GymHandler{Gyms: gyms, Spaces: spaces, Bookings: bookings}
}

type gymInput struct {
	Name               string                    `json:"name" binding:"required"`
	Address            string                    `json:"address"`
	City               string                    `json:"city" binding:"required"`
	Timezone           string                    `json:"timezone"`
	Description        string                    `json:"description"`
	CancellationPolicy models.CancellationPolicy `json:"cancellation_policy"`
	ContactName        string                    `json:"contact_name"`
	ContactPhone       string                    `json:"contact_phone"`
	StripeAccountID    string                    `json:"stripe_account_id"`
}

func validPolicy(p models.CancellationPolicy) bool {
	switch p {
	case models.PolicyFlexible, models.PolicyModerate, models.PolicyStrict:
		return true
	}
	return false
}

// CreateGym handles POST /owner/gym. One gym per owner.
func (h *GymHandler) CreateGym(c *gin.Context) {
	ownerID := c.GetString("userID")

	if _, err := h.Gyms.GetByOwner(c, ownerID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "you already have a gym"})
		return
	} else if !errors.Is(err, gymRepo.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	var input gymInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.CancellationPolicy == "" {
		input.CancellationPolicy = models.PolicyModerate
	}
	if !validPolicy(input.CancellationPolicy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation_policy must be flexible, moderate or strict"})
		return
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timezone must be a valid IANA name"})
			return
		}
	}

	now := time.Now()
	g := models.Gym{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Name:               input.Name,
		Slug:               slugify(input.Name),
		Address:            input.Address,
		City:               input.City,
		Timezone:           input.Timezone,
		Description:        input.Description,
		CancellationPolicy: input.CancellationPolicy,
		ContactName:        input.ContactName,
		ContactPhone:       input.ContactPhone,
		StripeAccountID:    input.StripeAccountID,
		StripeOnboarded:    input.StripeAccountID != "",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := h.Gyms.Create(c, &g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create gym"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// UpdateGym handles PUT /owner/gym.
func (h *GymHandler) UpdateGym(c *gin.Context) {
	g, ok := h.myGym(c)
	if !ok {
		return
	}

	var input gymInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.CancellationPolicy != "" && !validPolicy(input.CancellationPolicy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation_policy must be flexible, moderate or strict"})
		return
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timezone must be a valid IANA name"})
			return
		}
		g.Timezone = input.Timezone
	}

	g.Name = input.Name
	g.Slug = slugify(input.Name)
	g.Address = input.Address
	g.City = input.City
	g.Description = input.Description
	g.ContactName = input.ContactName
	g.ContactPhone = input.ContactPhone
	if input.CancellationPolicy != "" {
		g.CancellationPolicy = input.CancellationPolicy
	}
	if input.StripeAccountID != "" {
		g.StripeAccountID = input.StripeAccountID
		g.StripeOnboarded = true
	}
	g.UpdatedAt = time.Now()

	if err := h.Gyms.Update(c, g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update gym"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetMyGym handles GET /owner/gym.
func (h *GymHandler) GetMyGym(c *gin.Context) {
	g, ok := h.myGym(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, g)
}

// Earnings handles GET /owner/earnings: confirmed-booking totals across
// the gym's spaces.
func (h *GymHandler) Earnings(c *gin.Context) {
	g, ok := h.myGym(c)
	if !ok {
		return
	}
	spaces, err := h.Spaces.ListByGym(c, g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list spaces"})
		return
	}
	ids := make([]string, 0, len(spaces))
	for _, s := range spaces {
		ids = append(ids, s.ID)
	}

	summary := &models.EarningsSummary{}
	if len(ids) > 0 {
		summary, err = h.Bookings.EarningsForSpaces(c, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate earnings"})
			return
		}
	}
	c.JSON(http.StatusOK, summary)
}

// UpcomingBookings handles GET /owner/bookings: confirmed bookings for
// the gym's spaces that have not yet ended.
func (h *GymHandler) UpcomingBookings(c *gin.Context) {
	g, ok := h.myGym(c)
	if !ok {
		return
	}
	spaces, err := h.Spaces.ListByGym(c, g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list spaces"})
		return
	}

	now := time.Now()
	out := make([]gin.H, 0)
	for _, s := range spaces {
		bookings, err := h.Bookings.ListConfirmedBySpace(c, s.ID, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
			return
		}
		for _, b := range bookings {
			v := bookingView(b, now)
			v["space_name"] = s.Name
			v["renter_name"] = b.RenterName
			out = append(out, v)
		}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func (h *GymHandler) myGym(c *gin.Context) (*models.Gym, bool) {
	g, err := h.Gyms.GetByOwner(c, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, gymRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no gym registered for this account"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		return nil, false
	}
	return g, true
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
