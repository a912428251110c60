package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
)

func soldLine(id, name string, qty int, unitPrice string) models.OrderLine {
	p := decimal.RequireFromString(unitPrice)
	return models.OrderLine{
		ProductID:   id,
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   p,
		TotalPrice:  p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestMergeOrderItemsAccumulatesSamePrice(t *testing.T) {
	var rec models.DailyRevenueRecord
	now := time.Now()

	rec.MergeOrderItems(3, []models.OrderLine{soldLine("p1", "Margherita", 2, "10")}, now)
	rec.MergeOrderItems(7, []models.OrderLine{soldLine("p1", "Margherita", 3, "10")}, now.Add(time.Hour))

	if len(rec.SoldItems) != 1 {
		t.Fatalf("entries = %d, want 1", len(rec.SoldItems))
	}
	e := rec.SoldItems[0]
	if e.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", e.Quantity)
	}
	if want := decimal.RequireFromString("50"); !e.Revenue.Equal(want) {
		t.Errorf("revenue = %s, want %s", e.Revenue, want)
	}
	if e.TableNumber != 7 {
		t.Errorf("tableNumber = %d, want most recent contributor 7", e.TableNumber)
	}
	if !rec.TotalRevenue.Equal(decimal.RequireFromString("50")) {
		t.Errorf("totalRevenue = %s, want 50", rec.TotalRevenue)
	}
}

func TestMergeOrderItemsDifferentPriceOpensNewEntry(t *testing.T) {
	var rec models.DailyRevenueRecord
	now := time.Now()

	rec.MergeOrderItems(1, []models.OrderLine{soldLine("p1", "Margherita", 1, "10")}, now)
	rec.MergeOrderItems(1, []models.OrderLine{soldLine("p1", "Margherita", 1, "12")}, now)

	if len(rec.SoldItems) != 2 {
		t.Fatalf("entries = %d, want 2 (price change keeps history)", len(rec.SoldItems))
	}
	if !rec.TotalRevenue.Equal(decimal.RequireFromString("22")) {
		t.Errorf("totalRevenue = %s, want 22", rec.TotalRevenue)
	}
}

func TestMergeOrderItemsGroupsDuplicateLines(t *testing.T) {
	var rec models.DailyRevenueRecord

	// The same product appearing twice in one incoming order is merged
	// before touching the record.
	rec.MergeOrderItems(2, []models.OrderLine{
		soldLine("p1", "Caffe", 1, "1.50"),
		soldLine("p2", "Cornetto", 1, "2.00"),
		soldLine("p1", "Caffe", 2, "1.50"),
	}, time.Now())

	if len(rec.SoldItems) != 2 {
		t.Fatalf("entries = %d, want 2", len(rec.SoldItems))
	}
	if rec.SoldItems[0].Quantity != 3 {
		t.Errorf("caffe quantity = %d, want 3", rec.SoldItems[0].Quantity)
	}
	if !rec.TotalRevenue.Equal(decimal.RequireFromString("6.5")) {
		t.Errorf("totalRevenue = %s, want 6.5", rec.TotalRevenue)
	}
}

func TestMergeOrderItemsResumsTotal(t *testing.T) {
	rec := models.DailyRevenueRecord{
		// A drifted stored total must be corrected by the next merge.
		TotalRevenue: decimal.RequireFromString("999"),
		SoldItems: []models.SoldItemEntry{{
			ProductID: "p1",
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("10"),
			Revenue:   decimal.RequireFromString("10"),
		}},
	}

	rec.MergeOrderItems(4, []models.OrderLine{soldLine("p2", "Tiramisu", 1, "6")}, time.Now())

	if !rec.TotalRevenue.Equal(decimal.RequireFromString("16")) {
		t.Errorf("totalRevenue = %s, want re-summed 16", rec.TotalRevenue)
	}
}
