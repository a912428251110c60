package models

import "github.com/shopspring/decimal"

// AdvanceOrderResponse is returned when a payment order is opened for a
// room advance. AmountCents is in gateway units.
type AdvanceOrderResponse struct {
	OrderID     string `json:"orderId"`
	RoomNumber  int    `json:"roomNumber"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	KeyID       string `json:"keyId"`
}

// CreateAdvanceRequest opens a payment order.
type CreateAdvanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ConfirmAdvanceRequest carries the gateway callback fields plus the euro
// amount to credit as advance once the signature checks out.
type ConfirmAdvanceRequest struct {
	OrderID   string          `json:"orderId" validate:"required"`
	PaymentID string          `json:"paymentId" validate:"required"`
	Signature string          `json:"signature" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}
