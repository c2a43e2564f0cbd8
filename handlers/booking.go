package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"hourgym/models"
	"hourgym/services/booking"
	"hourgym/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// slotsCacheTTL keeps slot responses hot without letting a freshly paid
// booking show as available for long.
const slotsCacheTTL = 60 * time.Second

// BookingHandler exposes the booking flow: slot lookup, quote, checkout,
// reads and cancellation.
type BookingHandler struct {
	Svc   booking.BookingService
	Cache *redis.Client
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc, Cache: utils.GetCacheClient()}
}

// GetSlots handles GET /spaces/:id/slots?date=2006-01-02.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	spaceID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required (format 2006-01-02)", "")
		return
	}

	cacheKey := "slots:" + spaceID + ":" + date
	ctx := context.Background()
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	slots, err := h.Svc.GetAvailableSlots(c, spaceID, date)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}

	body, err := json.Marshal(gin.H{"slots": slots})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to encode slots", "")
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, cacheKey, body, slotsCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache slots", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Quote handles GET /spaces/:id/quote?start_at=...&end_at=... with
// RFC3339 timestamps.
func (h *BookingHandler) Quote(c *gin.Context) {
	startAt, err := time.Parse(time.RFC3339, c.Query("start_at"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_at", err.Error())
		return
	}
	endAt, err := time.Parse(time.RFC3339, c.Query("end_at"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_at", err.Error())
		return
	}

	pricing, err := h.Svc.QuotePrice(c, c.Param("id"), startAt, endAt)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, pricing)
}

// BeginCheckout handles POST /bookings/checkout.
func (h *BookingHandler) BeginCheckout(c *gin.Context) {
	var input struct {
		SpaceID        string    `json:"space_id" binding:"required"`
		StartAt        time.Time `json:"start_at" binding:"required"`
		EndAt          time.Time `json:"end_at" binding:"required"`
		Email          string    `json:"email"`
		WaiverAccepted bool      `json:"waiver_accepted"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sess, err := h.Svc.BeginCheckout(c, booking.CheckoutRequest{
		SpaceID:        input.SpaceID,
		RenterID:       c.GetString("userID"),
		RenterEmail:    input.Email,
		StartAt:        input.StartAt,
		EndAt:          input.EndAt,
		WaiverAccepted: input.WaiverAccepted,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
		"expires_at":   sess.ExpiresAt,
	})
}

// ListMyBookings handles GET /bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.Svc.ListRenterBookings(c, c.GetString("userID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	now := time.Now()
	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingView(b, now))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Svc.GetBooking(c, c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingView(*b, time.Now()))
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.Svc.Cancel(c, c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingView(*b, time.Now()))
}

// bookingView renders a booking with its derived status.
func bookingView(b models.Booking, now time.Time) gin.H {
	return gin.H{
		"id":            b.ID,
		"space_id":      b.SpaceID,
		"start_at":      b.StartAt,
		"end_at":        b.EndAt,
		"status":        b.EffectiveStatus(now),
		"total_amount":  b.TotalAmount,
		"currency":      b.Currency,
		"refund_amount": b.RefundAmount,
		"cancelled_at":  b.CancelledAt,
		"created_at":    b.CreatedAt,
	}
}

// respondBookingError maps engine errors to HTTP responses.
func respondBookingError(c *gin.Context, err error) {
	var durErr *booking.DurationError
	var conflictErr *booking.ConflictError

	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrSpaceUnavailable):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, booking.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, booking.ErrPastBooking),
		errors.Is(err, booking.ErrWaiverRequired),
		errors.Is(err, booking.ErrOwnSpace),
		errors.Is(err, booking.ErrPayoutsNotReady),
		errors.Is(err, booking.ErrBookingEnded),
		errors.As(err, &durErr):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	default:
		utils.GetLogger().Error("booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "something went wrong", "")
	}
}
