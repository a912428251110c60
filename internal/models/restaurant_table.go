package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

// Table action discriminators carried in the request body.
const (
	ActionAddItem        = "add_item"
	ActionUpdateQuantity = "update_quantity"
	ActionRemoveItem     = "remove_item"
	ActionAssignRoom     = "assign_room"
)

// OrderLine is one product entry in a table's current order. A table holds
// at most one line per product: adding the same product again accumulates
// its quantity.
type OrderLine struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	CategoryName string          `json:"categoryName"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	AddedAt      time.Time       `json:"addedAt"`
}

// RestaurantTable owns the current order of one physical table.
type RestaurantTable struct {
	TableNumber  int             `json:"tableNumber"`
	AssignedRoom int             `json:"assignedRoom"` // 0 = unassigned
	OrderItems   []OrderLine     `json:"orderItems"`
	OrderTotal   decimal.Decimal `json:"orderTotal"`
	Status       string          `json:"status"`
	Version      int             `json:"version"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// AddItem merges item into the order. An existing line with the same product
// identity absorbs the quantity instead of duplicating.
func (t *RestaurantTable) AddItem(item OrderLine) {
	for i := range t.OrderItems {
		if t.OrderItems[i].ProductID == item.ProductID {
			t.OrderItems[i].Quantity += item.Quantity
			t.OrderItems[i].TotalPrice = t.OrderItems[i].UnitPrice.Mul(decimal.NewFromInt(int64(t.OrderItems[i].Quantity)))
			t.recompute()
			return
		}
	}
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	t.OrderItems = append(t.OrderItems, item)
	t.recompute()
}

// UpdateQuantity sets the line's quantity; zero removes the line. Returns
// false when no line matches the product.
func (t *RestaurantTable) UpdateQuantity(productID string, quantity int) bool {
	if quantity == 0 {
		return t.RemoveItem(productID)
	}
	for i := range t.OrderItems {
		if t.OrderItems[i].ProductID == productID {
			t.OrderItems[i].Quantity = quantity
			t.OrderItems[i].TotalPrice = t.OrderItems[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			t.recompute()
			return true
		}
	}
	return false
}

// RemoveItem deletes the matching line. Returns false when absent.
func (t *RestaurantTable) RemoveItem(productID string) bool {
	for i := range t.OrderItems {
		if t.OrderItems[i].ProductID == productID {
			t.OrderItems = append(t.OrderItems[:i], t.OrderItems[i+1:]...)
			t.recompute()
			return true
		}
	}
	return false
}

// Reset clears the table after its order has been archived.
func (t *RestaurantTable) Reset() {
	t.OrderItems = []OrderLine{}
	t.OrderTotal = decimal.Zero
	t.Status = TableStatusAvailable
	t.AssignedRoom = 0
}

// recompute keeps the two invariants: orderTotal equals the sum of line
// totals, and the table is occupied iff it has items.
func (t *RestaurantTable) recompute() {
	total := decimal.Zero
	for i := range t.OrderItems {
		total = total.Add(t.OrderItems[i].TotalPrice)
	}
	t.OrderTotal = total
	if len(t.OrderItems) > 0 {
		t.Status = TableStatusOccupied
	} else {
		t.Status = TableStatusAvailable
	}
}

// TableActionRequest is the body-level discriminated request for table
// mutations. TableNumber is required in the POST body; PUT and DELETE take
// it from the path instead.
type TableActionRequest struct {
	Action      string          `json:"action" validate:"required,oneof=add_item update_quantity remove_item assign_room"`
	TableNumber int             `json:"tableNumber" validate:"gte=0"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"categoryName"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	RoomNumber  int             `json:"roomNumber" validate:"gte=0"`
}

// CloseOrderResult reports the outcome of closing one table.
type CloseOrderResult struct {
	TableNumber   int             `json:"tableNumber"`
	DateKey       string          `json:"dateKey"`
	OperationID   string          `json:"operationId"`
	ArchivedTotal decimal.Decimal `json:"archivedTotal"`
	ItemsArchived int             `json:"itemsArchived"`
}
