package handlers

import (
	"net/http"
	"time"

	"hourgym/database/repository/gym"
	"hourgym/database/repository/schedule"
	"hourgym/database/repository/space"
	"hourgym/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AvailabilityHandler exposes the owner-side schedule surface: weekly
// templates and date overrides for a space.
type AvailabilityHandler struct {
	Schedule scheduleRepo.ScheduleRepository
	Spaces   spaceRepo.SpaceRepository
	Gyms     gymRepo.GymRepository
}

func NewAvailabilityHandler(schedule scheduleRepo.ScheduleRepository, spaces spaceRepo.SpaceRepository, gyms gymRepo.GymRepository) *AvailabilityHandler {
	return &AvailabilityHandler{Schedule: schedule, Spaces: spaces, Gyms: gyms}
}

// validClock accepts zero-padded 24h "HH:MM".
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// CreateTemplate handles POST /owner/spaces/:id/templates.
func (h *AvailabilityHandler) CreateTemplate(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}

	var input struct {
		DayOfWeek int    `json:"day_of_week"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be 0 (Sunday) through 6 (Saturday)"})
		return
	}
	if !validClock(input.StartTime) || !validClock(input.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "times must be 24h HH:MM"})
		return
	}
	// Zero-padded HH:MM compares correctly as strings.
	if input.StartTime >= input.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
		return
	}

	t := models.AvailabilityTemplate{
		ID:        uuid.NewString(),
		SpaceID:   s.ID,
		DayOfWeek: time.Weekday(input.DayOfWeek),
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: time.Now(),
	}
	if err := h.Schedule.CreateTemplate(c, &t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create template"})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTemplates handles GET /owner/spaces/:id/templates.
func (h *AvailabilityHandler) ListTemplates(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}
	templates, err := h.Schedule.ListTemplates(c, s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// DeleteTemplate handles DELETE /owner/spaces/:id/templates/:templateID.
func (h *AvailabilityHandler) DeleteTemplate(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}
	if err := h.Schedule.DeleteTemplate(c, s.ID, c.Param("templateID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CreateOverride handles POST /owner/spaces/:id/overrides. A blocked
// override with no window closes the whole day; a window blocks only
// that portion.
func (h *AvailabilityHandler) CreateOverride(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}

	var input struct {
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be 2006-01-02"})
		return
	}
	partial := input.StartTime != "" || input.EndTime != ""
	if partial {
		if !validClock(input.StartTime) || !validClock(input.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "partial overrides need both start_time and end_time as 24h HH:MM"})
			return
		}
		if input.StartTime >= input.EndTime {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
			return
		}
	}

	o := models.AvailabilityOverride{
		ID:        uuid.NewString(),
		SpaceID:   s.ID,
		Date:      input.Date,
		Blocked:   true,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Reason:    input.Reason,
		CreatedAt: time.Now(),
	}
	if err := h.Schedule.CreateOverride(c, &o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create override"})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// ListOverrides handles GET /owner/spaces/:id/overrides?date=2006-01-02.
func (h *AvailabilityHandler) ListOverrides(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	overrides, err := h.Schedule.ListOverrides(c, s.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

// DeleteOverride handles DELETE /owner/spaces/:id/overrides/:overrideID.
func (h *AvailabilityHandler) DeleteOverride(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}
	if err := h.Schedule.DeleteOverride(c, s.ID, c.Param("overrideID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "override not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
