package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
)

func TestNormalizeLegacyBuckets(t *testing.T) {
	a := &models.RoomAccount{
		Services: models.ServiceBuckets{
			"pranzo": {"01/07/2026": "25.00"},
			"cena":   {"01/07/2026": "40.00"},
		},
	}

	a.Normalize()

	if _, ok := a.Services["pranzo"]; ok {
		t.Error("pranzo bucket should be folded into lunch")
	}
	if got := a.Services[models.BucketLunch]["01/07/2026"]; got != "25.00" {
		t.Errorf("lunch amount = %q, want 25.00", got)
	}
	if got := a.Services[models.BucketDinner]["01/07/2026"]; got != "40.00" {
		t.Errorf("dinner amount = %q, want 40.00", got)
	}
	if a.SchemaVersion != models.CurrentAccountSchemaVersion {
		t.Errorf("schemaVersion = %d, want %d", a.SchemaVersion, models.CurrentAccountSchemaVersion)
	}
}

func TestNormalizeCanonicalWinsOnCollision(t *testing.T) {
	a := &models.RoomAccount{
		Services: models.ServiceBuckets{
			"pranzo":           {"01/07/2026": "10.00", "02/07/2026": "15.00"},
			models.BucketLunch: {"01/07/2026": "30.00"},
		},
	}

	a.Normalize()

	// The canonical entry stays; legacy fills only missing dates.
	if got := a.Services[models.BucketLunch]["01/07/2026"]; got != "30.00" {
		t.Errorf("colliding date = %q, want canonical 30.00", got)
	}
	if got := a.Services[models.BucketLunch]["02/07/2026"]; got != "15.00" {
		t.Errorf("migrated date = %q, want 15.00", got)
	}
}

func TestAddToBucketIsAdditive(t *testing.T) {
	a := &models.RoomAccount{Services: models.ServiceBuckets{}}

	a.AddToBucket(models.BucketDinner, "01/07/2026", decimal.NewFromFloat(42.50))
	a.AddToBucket(models.BucketDinner, "01/07/2026", decimal.NewFromFloat(17.50))

	if got := a.Services[models.BucketDinner]["01/07/2026"]; got != "60.00" {
		t.Errorf("dinner amount = %q, want 60.00", got)
	}
}

func TestAddToBucketReplacesGarbage(t *testing.T) {
	a := &models.RoomAccount{
		Services: models.ServiceBuckets{
			models.BucketBar: {"01/07/2026": "not a number"},
		},
	}

	a.AddToBucket(models.BucketBar, "01/07/2026", decimal.NewFromInt(12))

	if got := a.Services[models.BucketBar]["01/07/2026"]; got != "12.00" {
		t.Errorf("bar amount = %q, want 12.00", got)
	}
}

func TestClearServices(t *testing.T) {
	a := &models.RoomAccount{
		Services: models.ServiceBuckets{
			models.BucketRoom: {"01/07/2026": "74.00"},
			models.BucketBar:  {"01/07/2026": "8.00"},
		},
		MinibarNotes:   map[string]string{"01/07/2026": "2x water"},
		Extras:         "10",
		Transfer:       "20",
		AdvancePayment: "50",
	}

	a.ClearServices()

	for _, bucket := range models.BucketOrder {
		if len(a.Services[bucket]) != 0 {
			t.Errorf("bucket %s not cleared", bucket)
		}
	}
	if a.Extras != "0" || a.Transfer != "0" || a.AdvancePayment != "0" {
		t.Error("adjustment fields not zeroed")
	}
	if len(a.MinibarNotes) != 0 {
		t.Error("minibar notes not cleared")
	}
	if !a.Calculations.Subtotal.IsZero() {
		t.Error("calculations not reset")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"74.00", "74"},
		{"  12,  ", "0"}, // garbage
		{"", "0"},
		{"-5.50", "-5.5"},
		{"abc", "0"},
	}

	for _, tt := range tests {
		if got := models.ParseAmount(tt.in); got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
