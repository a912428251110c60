package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SoldItemEntry is one aggregated sale inside a daily revenue record, keyed
// by (productId, unitPrice): repeated sales of the same product at the same
// price accumulate here, a different price opens a new entry.
type SoldItemEntry struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	CategoryName string          `json:"categoryName"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Revenue      decimal.Decimal `json:"revenue"`
	LastSaleAt   time.Time       `json:"lastSaleAt"`
	TableNumber  int             `json:"tableNumber"` // table of the most recent contribution
}

// DailyRevenueRecord is the durable per-day aggregate all closed table
// orders are folded into. Once an order is archived the table is cleared,
// so this record is the permanent trace of the sale.
type DailyRevenueRecord struct {
	DateKey      string          `json:"dateKey"`     // DD_MM_YYYY
	DisplayName  string          `json:"displayName"` // DD/MM/YYYY
	SoldItems    []SoldItemEntry `json:"soldItems"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Closed       bool            `json:"closed"`
	ClosedAt     *time.Time      `json:"closedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// MergeOrderItems folds a table's order lines into the record. Incoming
// lines are grouped by (productId, productName, unitPrice) first, then each
// group either accumulates onto an existing entry with the same product and
// price or appends a new one. The record total is re-summed from soldItems
// afterwards so it can never drift from the entries.
func (r *DailyRevenueRecord) MergeOrderItems(tableNumber int, items []OrderLine, at time.Time) {
	for _, c := range groupOrderItems(items) {
		merged := false
		for i := range r.SoldItems {
			e := &r.SoldItems[i]
			if e.ProductID == c.ProductID && e.UnitPrice.Equal(c.UnitPrice) {
				e.Quantity += c.Quantity
				e.Revenue = e.Revenue.Add(c.Revenue)
				e.LastSaleAt = at
				e.TableNumber = tableNumber
				merged = true
				break
			}
		}
		if !merged {
			c.LastSaleAt = at
			c.TableNumber = tableNumber
			r.SoldItems = append(r.SoldItems, c)
		}
	}
	r.TotalRevenue = r.sumSoldItems()
}

func (r *DailyRevenueRecord) sumSoldItems() decimal.Decimal {
	total := decimal.Zero
	for i := range r.SoldItems {
		total = total.Add(r.SoldItems[i].Revenue)
	}
	return total
}

// groupOrderItems collapses order lines sharing (productId, productName,
// unitPrice) into candidate sold-item entries, summing quantity and revenue.
// Order of first appearance is preserved.
func groupOrderItems(items []OrderLine) []SoldItemEntry {
	type key struct {
		productID   string
		productName string
		unitPrice   string
	}
	index := map[key]int{}
	var out []SoldItemEntry
	for _, item := range items {
		k := key{item.ProductID, item.ProductName, item.UnitPrice.String()}
		if i, ok := index[k]; ok {
			out[i].Quantity += item.Quantity
			out[i].Revenue = out[i].Revenue.Add(item.TotalPrice)
			continue
		}
		index[k] = len(out)
		out = append(out, SoldItemEntry{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			CategoryName: item.CategoryName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Revenue:      item.TotalPrice,
		})
	}
	return out
}

// ArchiveRequest is the body for POST /daily-revenue: an explicit
// archive of order items into a date's record.
type ArchiveRequest struct {
	DateKey     string      `json:"dateKey" validate:"required"`
	TableNumber int         `json:"tableNumber" validate:"required,gt=0"`
	OrderItems  []OrderLine `json:"orderItems" validate:"required,min=1"`
}

// CloseDaySummary is the result of POST /restaurant/close-day.
type CloseDaySummary struct {
	DateKey        string          `json:"dateKey"`
	OperationID    string          `json:"operationId"`
	TablesFreed    int             `json:"tablesFreed"`
	TablesReset    int             `json:"tablesReset"`
	OrdersArchived int             `json:"ordersArchived"`
	Failed         []int           `json:"failedTables,omitempty"`
	TotalArchived  decimal.Decimal `json:"totalArchived"`
	ClosedAt       time.Time       `json:"closedAt"`
}
