package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room account lifecycle states. At most one account per room number may be
// active; checkout and clear soft-close the account instead of deleting it.
const (
	AccountStatusActive     = "active"
	AccountStatusCheckedOut = "checked_out"
	AccountStatusCancelled  = "cancelled"
)

// Canonical service bucket names. Accounts written by the first schema
// generation used the Italian meal names for lunch and dinner; Normalize
// folds those onto this set at load time so nothing downstream has to know
// both spellings.
const (
	BucketRoom      = "camera"
	BucketBreakfast = "colazione"
	BucketLunch     = "lunch"
	BucketDinner    = "dinner"
	BucketMinibar   = "minibar"
	BucketBar       = "bar"
	BucketTransfer  = "transfer"
	BucketCustom1   = "custom1"
	BucketCustom2   = "custom2"
)

// CurrentAccountSchemaVersion is written on every save. Version 1 documents
// carry legacy bucket names and are normalized on load.
const CurrentAccountSchemaVersion = 2

// legacyBucketNames maps first-generation bucket names to canonical ones.
var legacyBucketNames = map[string]string{
	"pranzo": BucketLunch,
	"cena":   BucketDinner,
}

// BucketOrder is the presentation order for statements and receipts.
var BucketOrder = []string{
	BucketRoom, BucketBreakfast, BucketLunch, BucketDinner,
	BucketMinibar, BucketBar, BucketTransfer, BucketCustom1, BucketCustom2,
}

var bucketDisplayNames = map[string]string{
	BucketRoom:      "Room",
	BucketBreakfast: "Breakfast",
	BucketLunch:     "Lunch",
	BucketDinner:    "Dinner",
	BucketMinibar:   "Minibar",
	BucketBar:       "Bar",
	BucketTransfer:  "Transfer",
	BucketCustom1:   "Extra 1",
	BucketCustom2:   "Extra 2",
}

// BucketDisplayName returns the guest-facing label for a bucket.
func BucketDisplayName(bucket string) string {
	if name, ok := bucketDisplayNames[bucket]; ok {
		return name
	}
	return bucket
}

// ServiceBuckets maps a bucket name to its per-date amounts. Amounts are
// kept as strings exactly as entered; anything non-numeric counts as zero.
type ServiceBuckets map[string]map[string]string

// AccountTotals is the derived calculations snapshot stored on the account.
type AccountTotals struct {
	RoomTotal     decimal.Decimal `json:"roomTotal"`
	ServicesTotal decimal.Decimal `json:"servicesTotal"`
	TransferTotal decimal.Decimal `json:"transferTotal"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	FinalTotal    decimal.Decimal `json:"finalTotal"`
	CityTax       decimal.Decimal `json:"cityTax"`
}

// RoomAccount is the billing ledger for one occupied room.
type RoomAccount struct {
	ID             string            `json:"id"`
	RoomNumber     int               `json:"roomNumber"`
	GuestName      string            `json:"guestName"`
	Adults         int               `json:"adults"`
	Children       int               `json:"children"`
	CheckIn        string            `json:"checkIn"`  // DD/MM/YYYY
	CheckOut       string            `json:"checkOut"` // DD/MM/YYYY
	Nights         int               `json:"nights"`
	SchemaVersion  int               `json:"schemaVersion"`
	Services       ServiceBuckets    `json:"services"`
	MinibarNotes   map[string]string `json:"minibarNotes,omitempty"` // date -> free text
	Extras         string            `json:"extras"`
	Transfer       string            `json:"transfer"`
	AdvancePayment string            `json:"advancePayment"`
	Notes          string            `json:"notes"`
	Calculations   AccountTotals     `json:"calculations"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Normalize migrates legacy bucket names onto the canonical set and makes
// sure the services map exists. Amounts under a legacy name merge into the
// canonical bucket date by date; on a date collision the canonical entry
// wins, matching the old fallback-chain behavior which read the new name
// first.
func (a *RoomAccount) Normalize() {
	if a.Services == nil {
		a.Services = ServiceBuckets{}
	}
	for legacy, canonical := range legacyBucketNames {
		dates, ok := a.Services[legacy]
		if !ok {
			continue
		}
		dst := a.Services[canonical]
		if dst == nil {
			dst = map[string]string{}
			a.Services[canonical] = dst
		}
		for date, amount := range dates {
			if _, exists := dst[date]; !exists {
				dst[date] = amount
			}
		}
		delete(a.Services, legacy)
	}
	a.SchemaVersion = CurrentAccountSchemaVersion
}

// Bucket returns the named bucket, creating it if absent.
func (a *RoomAccount) Bucket(name string) map[string]string {
	if a.Services == nil {
		a.Services = ServiceBuckets{}
	}
	b, ok := a.Services[name]
	if !ok {
		b = map[string]string{}
		a.Services[name] = b
	}
	return b
}

// AddToBucket adds amount to the bucket's entry for date. The update is
// additive: two orders routed to the same room, date and bucket accumulate.
func (a *RoomAccount) AddToBucket(bucket, date string, amount decimal.Decimal) {
	b := a.Bucket(bucket)
	existing := ParseAmount(b[date])
	b[date] = existing.Add(amount).StringFixed(2)
}

// ClearServices zeroes every bucket, every adjustment field and the derived
// calculations. The account row itself survives (explicit clear, not delete).
func (a *RoomAccount) ClearServices() {
	a.Services = ServiceBuckets{}
	a.MinibarNotes = nil
	a.Extras = "0"
	a.Transfer = "0"
	a.AdvancePayment = "0"
	a.Calculations = AccountTotals{}
}

// ParseAmount converts a raw amount string to a decimal, treating missing or
// non-numeric input as zero. Shared by the calculator and the routing path so
// both coerce identically.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CreateRoomAccountRequest is the body for POST /room-accounts.
type CreateRoomAccountRequest struct {
	RoomNumber     int               `json:"roomNumber" validate:"required,gt=0"`
	GuestName      string            `json:"guestName"`
	Adults         int               `json:"adults" validate:"gte=0"`
	Children       int               `json:"children" validate:"gte=0"`
	CheckIn        string            `json:"checkIn"`
	CheckOut       string            `json:"checkOut"`
	Nights         int               `json:"nights" validate:"gte=0"`
	Services       ServiceBuckets    `json:"services"`
	MinibarNotes   map[string]string `json:"minibarNotes"`
	Extras         string            `json:"extras"`
	Transfer       string            `json:"transfer"`
	AdvancePayment string            `json:"advancePayment"`
	Notes          string            `json:"notes"`
}

// UpdateRoomAccountRequest is the body for PUT /room-accounts/{room}
// and for the save-sync beacon. Nil fields mean "leave unchanged"; the
// client sends full snapshots, so in practice every field is present.
type UpdateRoomAccountRequest struct {
	GuestName      *string           `json:"guestName"`
	Adults         *int              `json:"adults"`
	Children       *int              `json:"children"`
	CheckIn        *string           `json:"checkIn"`
	CheckOut       *string           `json:"checkOut"`
	Nights         *int              `json:"nights"`
	Services       ServiceBuckets    `json:"services"`
	MinibarNotes   map[string]string `json:"minibarNotes"`
	Extras         *string           `json:"extras"`
	Transfer       *string           `json:"transfer"`
	AdvancePayment *string           `json:"advancePayment"`
	Notes          *string           `json:"notes"`
}

// SaveSyncRequest is the beacon payload: a room number plus a full snapshot.
type SaveSyncRequest struct {
	RoomNumber int                      `json:"roomNumber" validate:"required,gt=0"`
	Account    UpdateRoomAccountRequest `json:"account"`
}

// AsUpdateRequest converts an account snapshot into a full-field patch, the
// shape the save endpoints take.
func (a *RoomAccount) AsUpdateRequest() UpdateRoomAccountRequest {
	return UpdateRoomAccountRequest{
		GuestName:      &a.GuestName,
		Adults:         &a.Adults,
		Children:       &a.Children,
		CheckIn:        &a.CheckIn,
		CheckOut:       &a.CheckOut,
		Nights:         &a.Nights,
		Services:       a.Services,
		MinibarNotes:   a.MinibarNotes,
		Extras:         &a.Extras,
		Transfer:       &a.Transfer,
		AdvancePayment: &a.AdvancePayment,
		Notes:          &a.Notes,
	}
}

// AssignOrderRequest is the body for POST /room-accounts/{room}/assign-order.
type AssignOrderRequest struct {
	TableNumber   int             `json:"tableNumber" validate:"required,gt=0"`
	OrderTotal    decimal.Decimal `json:"orderTotal"`
	Covers        int             `json:"covers" validate:"gte=0"`
	OperationDate string          `json:"operationDate"` // DD/MM/YYYY, defaults to today
}

// AssignOrderResult reports where the order value landed.
type AssignOrderResult struct {
	RoomNumber int             `json:"roomNumber"`
	Bucket     string          `json:"bucket"`
	Date       string          `json:"date"`
	NewAmount  decimal.Decimal `json:"newAmount"`
	Totals     AccountTotals   `json:"totals"`
}
