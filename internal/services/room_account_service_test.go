package services_test

import (
	"testing"
	"time"

	"hotel-backend/internal/models"
	"hotel-backend/internal/services"
	"hotel-backend/internal/timeutil"
)

func TestSelectOrderBucket(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2026, time.July, 5, hour, min, 0, 0, timeutil.HotelTZ)
	}

	tests := []struct {
		name   string
		covers int
		now    time.Time
		want   string
	}{
		{"no covers is a bar sale at lunch", 0, at(12, 0), models.BucketBar},
		{"no covers is a bar sale at night", 0, at(21, 0), models.BucketBar},
		{"covers before cutoff go to lunch", 2, at(12, 30), models.BucketLunch},
		{"covers at 18:29 still lunch", 4, at(18, 29), models.BucketLunch},
		{"covers at 18:30 go to dinner", 4, at(18, 30), models.BucketDinner},
		{"late evening is dinner", 2, at(22, 0), models.BucketDinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.SelectOrderBucket(tt.covers, tt.now); got != tt.want {
				t.Errorf("SelectOrderBucket(%d, %v) = %q, want %q", tt.covers, tt.now, got, tt.want)
			}
		})
	}
}
