package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
)

func line(id, name string, qty int, unitPrice string) models.OrderLine {
	p, _ := decimal.NewFromString(unitPrice)
	return models.OrderLine{
		ProductID:   id,
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   p,
	}
}

func TestAddItemAccumulatesSameProduct(t *testing.T) {
	var tbl models.RestaurantTable

	tbl.AddItem(line("p1", "Margherita", 2, "8.50"))
	tbl.AddItem(line("p1", "Margherita", 3, "8.50"))

	if len(tbl.OrderItems) != 1 {
		t.Fatalf("lines = %d, want 1", len(tbl.OrderItems))
	}
	if tbl.OrderItems[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", tbl.OrderItems[0].Quantity)
	}
	if want := decimal.RequireFromString("42.5"); !tbl.OrderTotal.Equal(want) {
		t.Errorf("orderTotal = %s, want %s", tbl.OrderTotal, want)
	}
	if tbl.Status != models.TableStatusOccupied {
		t.Errorf("status = %q, want occupied", tbl.Status)
	}
}

func TestAddItemDistinctProductsKeepLines(t *testing.T) {
	var tbl models.RestaurantTable

	tbl.AddItem(line("p1", "Margherita", 1, "8.50"))
	tbl.AddItem(line("p2", "Acqua", 2, "2.00"))

	if len(tbl.OrderItems) != 2 {
		t.Fatalf("lines = %d, want 2", len(tbl.OrderItems))
	}
	if want := decimal.RequireFromString("12.5"); !tbl.OrderTotal.Equal(want) {
		t.Errorf("orderTotal = %s, want %s", tbl.OrderTotal, want)
	}
}

func TestUpdateQuantity(t *testing.T) {
	var tbl models.RestaurantTable
	tbl.AddItem(line("p1", "Margherita", 2, "8.50"))

	if !tbl.UpdateQuantity("p1", 4) {
		t.Fatal("UpdateQuantity returned false for existing line")
	}
	if want := decimal.RequireFromString("34"); !tbl.OrderTotal.Equal(want) {
		t.Errorf("orderTotal = %s, want %s", tbl.OrderTotal, want)
	}

	if tbl.UpdateQuantity("missing", 1) {
		t.Error("UpdateQuantity returned true for unknown product")
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	var tbl models.RestaurantTable
	tbl.AddItem(line("p1", "Margherita", 2, "8.50"))

	if !tbl.UpdateQuantity("p1", 0) {
		t.Fatal("UpdateQuantity(0) returned false")
	}
	if len(tbl.OrderItems) != 0 {
		t.Errorf("lines = %d, want 0", len(tbl.OrderItems))
	}
	if tbl.Status != models.TableStatusAvailable {
		t.Errorf("status = %q, want available", tbl.Status)
	}
	if !tbl.OrderTotal.IsZero() {
		t.Errorf("orderTotal = %s, want 0", tbl.OrderTotal)
	}
}

func TestRemoveItem(t *testing.T) {
	var tbl models.RestaurantTable
	tbl.AddItem(line("p1", "Margherita", 1, "8.50"))
	tbl.AddItem(line("p2", "Acqua", 1, "2.00"))

	if !tbl.RemoveItem("p1") {
		t.Fatal("RemoveItem returned false for existing line")
	}
	if len(tbl.OrderItems) != 1 || tbl.OrderItems[0].ProductID != "p2" {
		t.Errorf("unexpected remaining lines: %+v", tbl.OrderItems)
	}
	if tbl.RemoveItem("p1") {
		t.Error("RemoveItem returned true for already removed line")
	}
}

func TestResetClearsEverything(t *testing.T) {
	tbl := models.RestaurantTable{AssignedRoom: 12}
	tbl.AddItem(line("p1", "Margherita", 2, "8.50"))

	tbl.Reset()

	if len(tbl.OrderItems) != 0 || !tbl.OrderTotal.IsZero() {
		t.Error("order not cleared")
	}
	if tbl.Status != models.TableStatusAvailable {
		t.Errorf("status = %q, want available", tbl.Status)
	}
	if tbl.AssignedRoom != 0 {
		t.Errorf("assignedRoom = %d, want 0", tbl.AssignedRoom)
	}
}
