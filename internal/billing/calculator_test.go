package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"hotel-backend/internal/billing"
	"hotel-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name           string
		services       models.ServiceBuckets
		adults         int
		nights         int
		extras         string
		transfer       string
		advancePayment string
		want           models.AccountTotals
	}{
		{
			name: "two night stay with advance",
			services: models.ServiceBuckets{
				models.BucketRoom: {"01/07/2026": "74.00", "02/07/2026": "74.00"},
			},
			adults:         2,
			nights:         2,
			advancePayment: "50",
			want: models.AccountTotals{
				RoomTotal:     dec("148"),
				ServicesTotal: dec("0"),
				TransferTotal: dec("0"),
				Subtotal:      dec("148"),
				FinalTotal:    dec("98"),
				CityTax:       dec("8"),
			},
		},
		{
			name: "services and transfer buckets split",
			services: models.ServiceBuckets{
				models.BucketRoom:     {"01/07/2026": "100"},
				models.BucketLunch:    {"01/07/2026": "35.50"},
				models.BucketBar:      {"01/07/2026": "12"},
				models.BucketTransfer: {"01/07/2026": "40"},
			},
			adults:   1,
			nights:   1,
			extras:   "10",
			transfer: "20",
			want: models.AccountTotals{
				RoomTotal:     dec("100"),
				ServicesTotal: dec("57.50"),
				TransferTotal: dec("60"),
				Subtotal:      dec("217.50"),
				FinalTotal:    dec("217.50"),
				CityTax:       dec("2"),
			},
		},
		{
			name: "garbage amounts count as zero",
			services: models.ServiceBuckets{
				models.BucketRoom:  {"01/07/2026": "abc", "02/07/2026": "50"},
				models.BucketLunch: {"01/07/2026": ""},
			},
			adults: 2,
			nights: 0,
			want: models.AccountTotals{
				RoomTotal:     dec("50"),
				ServicesTotal: dec("0"),
				TransferTotal: dec("0"),
				Subtotal:      dec("50"),
				FinalTotal:    dec("50"),
				CityTax:       dec("0"),
			},
		},
		{
			name:     "empty account is all zero",
			services: models.ServiceBuckets{},
			want: models.AccountTotals{
				RoomTotal:     dec("0"),
				ServicesTotal: dec("0"),
				TransferTotal: dec("0"),
				Subtotal:      dec("0"),
				FinalTotal:    dec("0"),
				CityTax:       dec("0"),
			},
		},
		{
			name: "advance larger than subtotal goes negative",
			services: models.ServiceBuckets{
				models.BucketRoom: {"01/07/2026": "80"},
			},
			adults:         2,
			nights:         1,
			advancePayment: "100",
			want: models.AccountTotals{
				RoomTotal:     dec("80"),
				ServicesTotal: dec("0"),
				TransferTotal: dec("0"),
				Subtotal:      dec("80"),
				FinalTotal:    dec("-20"),
				CityTax:       dec("4"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.CalculateTotals(tt.services, tt.adults, tt.nights, tt.extras, tt.transfer, tt.advancePayment)

			checks := []struct {
				field string
				got   decimal.Decimal
				want  decimal.Decimal
			}{
				{"roomTotal", got.RoomTotal, tt.want.RoomTotal},
				{"servicesTotal", got.ServicesTotal, tt.want.ServicesTotal},
				{"transferTotal", got.TransferTotal, tt.want.TransferTotal},
				{"subtotal", got.Subtotal, tt.want.Subtotal},
				{"finalTotal", got.FinalTotal, tt.want.FinalTotal},
				{"cityTax", got.CityTax, tt.want.CityTax},
			}
			for _, c := range checks {
				if !c.got.Equal(c.want) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestCalculateAccountStoresSnapshot(t *testing.T) {
	a := &models.RoomAccount{
		Adults: 2,
		Nights: 3,
		Services: models.ServiceBuckets{
			models.BucketRoom: {"01/07/2026": "90"},
		},
	}

	billing.CalculateAccount(a)

	if !a.Calculations.RoomTotal.Equal(dec("90")) {
		t.Errorf("roomTotal = %s, want 90", a.Calculations.RoomTotal)
	}
	if !a.Calculations.CityTax.Equal(dec("12")) {
		t.Errorf("cityTax = %s, want 12", a.Calculations.CityTax)
	}
}
