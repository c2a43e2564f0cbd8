package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hourgym/config"
	"hourgym/services/booking"
	"hourgym/services/payment"
	"hourgym/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// WebhookHandler receives Stripe events. This is where bookings are
// born: checkout.session.completed is the only confirmation path.
type WebhookHandler struct {
	Svc booking.BookingService
}

func NewWebhookHandler(svc booking.BookingService) *WebhookHandler {
	return &WebhookHandler{Svc: svc}
}

// HandleStripeEvent handles POST /webhooks/stripe.
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			logger.Error("failed to decode checkout session", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
			return
		}

		cc, err := payment.ParseCompletedCheckout(&sess)
		if err != nil {
			// Bad metadata will not improve on redelivery; acknowledge and log.
			logger.Error("unusable checkout session metadata",
				zap.String("sessionID", sess.ID), zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		if _, err := h.Svc.ConfirmFromCheckout(c, cc); err != nil {
			if errors.Is(err, booking.ErrSlotTaken) {
				// Handled terminally (refunded); a retry would double-refund.
				logger.Warn("checkout completed for a taken slot",
					zap.String("sessionID", sess.ID))
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			// Transient failure: non-2xx makes Stripe redeliver.
			logger.Error("failed to confirm booking from checkout",
				zap.String("sessionID", sess.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
			return
		}

	case "checkout.session.expired":
		// Nothing to release: no booking exists before completion.
		logger.Info("checkout session expired", zap.String("eventID", event.ID))

	default:
		logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
