package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hourgym/services/booking"
	"hourgym/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondBookingError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "unknown booking is a 404",
			err:        booking.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    booking.ErrNotFound.Error(),
		},
		{
			name:       "unavailable space is a 404",
			err:        booking.ErrSpaceUnavailable,
			wantStatus: http.StatusNotFound,
			wantMsg:    booking.ErrSpaceUnavailable.Error(),
		},
		{
			name:       "someone else's booking is a 403",
			err:        booking.ErrUnauthorized,
			wantStatus: http.StatusForbidden,
			wantMsg:    booking.ErrUnauthorized.Error(),
		},
		{
			name:       "slot taken is a 409",
			err:        booking.ErrSlotTaken,
			wantStatus: http.StatusConflict,
			wantMsg:    booking.ErrSlotTaken.Error(),
		},
		{
			name:       "overlap conflict is a 409",
			err:        &booking.ConflictError{BookingID: "b1"},
			wantStatus: http.StatusConflict,
			wantMsg:    "this time slot conflicts with another booking",
		},
		{
			name:       "double cancel is a 409",
			err:        booking.ErrAlreadyCancelled,
			wantStatus: http.StatusConflict,
			wantMsg:    booking.ErrAlreadyCancelled.Error(),
		},
		{
			name:       "waiver missing is a 400",
			err:        booking.ErrWaiverRequired,
			wantStatus: http.StatusBadRequest,
			wantMsg:    booking.ErrWaiverRequired.Error(),
		},
		{
			name:       "duration bound is a 400",
			err:        &booking.DurationError{Hours: 6, LimitHours: 4, TooLong: true},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "maximum booking duration is 4 hours",
		},
		{
			name:       "unexpected errors are a generic 500",
			err:        errors.New("mongo: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/bookings/b1", nil)

			respondBookingError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body utils.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}
