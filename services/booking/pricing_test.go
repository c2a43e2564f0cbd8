package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dt(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestCalculatePrice(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name        string
		rateCents   int64
		start       time.Time
		end         time.Time
		wantHours   float64
		wantSub     int64
		wantFee     int64
		wantPayout  int64
	}{
		{
			name:       "one hour at $50",
			rateCents:  5000,
			start:      dt(2026, time.March, 2, 10, 0),
			end:        dt(2026, time.March, 2, 11, 0),
			wantHours:  1,
			wantSub:    5000,
			wantFee:    750,
			wantPayout: 4250,
		},
		{
			name:       "two hours at $50",
			rateCents:  5000,
			start:      dt(2026, time.March, 2, 10, 0),
			end:        dt(2026, time.March, 2, 12, 0),
			wantHours:  2,
			wantSub:    10000,
			wantFee:    1500,
			wantPayout: 8500,
		},
		{
			name:       "three hours at $45",
			rateCents:  4500,
			start:      dt(2026, time.March, 2, 9, 0),
			end:        dt(2026, time.March, 2, 12, 0),
			wantHours:  3,
			wantSub:    13500,
			wantFee:    2025,
			wantPayout: 11475,
		},
		{
			name:       "fee rounds up on odd rate",
			rateCents:  3333,
			start:      dt(2026, time.March, 2, 10, 0),
			end:        dt(2026, time.March, 2, 11, 0),
			wantHours:  1,
			wantSub:    3333,
			wantFee:    500, // 499.95 rounds to 500
			wantPayout: 2833,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePrice(tt.rateCents, tt.start, tt.end, rules)
			assert.Equal(t, tt.wantHours, got.Hours)
			assert.Equal(t, tt.wantSub, got.Subtotal)
			assert.Equal(t, tt.wantFee, got.PlatformFee)
			assert.Equal(t, tt.wantPayout, got.OwnerPayout)
			assert.Equal(t, tt.wantSub, got.Total)
		})
	}
}

// The payout is derived by subtraction, so the money always adds up
// exactly regardless of how the fee rounds.
func TestCalculatePriceNoRoundingDrift(t *testing.T) {
	rules := DefaultRules()
	start := dt(2026, time.March, 2, 10, 0)

	for _, rate := range []int64{1, 99, 2500, 3333, 4999, 5001, 9999} {
		for hours := 1; hours <= 4; hours++ {
			end := start.Add(time.Duration(hours) * time.Hour)
			got := CalculatePrice(rate, start, end, rules)
			assert.Equal(t, got.Subtotal, got.PlatformFee+got.OwnerPayout,
				"rate=%d hours=%d", rate, hours)
		}
	}
}
