package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/models"
	"hotel-backend/internal/timeutil"
)

// PaymentService collects advance payments against a room account through
// Razorpay. A confirmed payment is recorded on the account's advance field,
// which the billing calculator subtracts from the final total.
type PaymentService struct {
	keyID     string
	keySecret string
	accounts  *RoomAccountService
}

func NewPaymentService(keyID, keySecret string, accounts *RoomAccountService) *PaymentService {
	return &PaymentService{keyID: keyID, keySecret: keySecret, accounts: accounts}
}

// Enabled reports whether payment credentials are configured.
func (s *PaymentService) Enabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CreateAdvanceOrder opens a payment order for an advance against the
// room's account. Amount is in euro; the gateway wants cents.
func (s *PaymentService) CreateAdvanceOrder(ctx context.Context, roomNumber int, amount decimal.Decimal) (*models.AdvanceOrderResponse, error) {
	if !s.Enabled() {
		return nil, apperr.InvalidState("online payments are not configured")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.Validation("advance amount must be positive")
	}

	account, err := s.accounts.GetByRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	client := razorpay.NewClient(s.keyID, s.keySecret)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	orderData := map[string]interface{}{
		"amount":   amountCents,
		"currency": "EUR",
		"receipt":  fmt.Sprintf("room_%d_%d", roomNumber, timeutil.Now().Unix()),
		"notes": map[string]interface{}{
			"room_number": roomNumber,
			"guest_name":  account.GuestName,
			"account_id":  account.ID,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, apperr.Storage(err, "failed to create payment order for room %d", roomNumber)
	}

	orderID, _ := order["id"].(string)
	log.Printf("[Payments] Advance order %s for room %d, %s EUR", orderID, roomNumber, amount.StringFixed(2))
	return &models.AdvanceOrderResponse{
		OrderID:     orderID,
		RoomNumber:  roomNumber,
		AmountCents: amountCents,
		Currency:    "EUR",
		KeyID:       s.keyID,
	}, nil
}

// ConfirmAdvance verifies the gateway signature and adds the paid amount to
// the account's advance payment field. Totals are recomputed by the update
// path.
func (s *PaymentService) ConfirmAdvance(ctx context.Context, roomNumber int, req *models.ConfirmAdvanceRequest) (*models.RoomAccount, error) {
	if !s.verifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, apperr.Validation("invalid payment signature")
	}

	account, err := s.accounts.GetByRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	current := models.ParseAmount(account.AdvancePayment)
	updated := current.Add(req.Amount).StringFixed(2)
	patch := &models.UpdateRoomAccountRequest{AdvancePayment: &updated}
	result, err := s.accounts.Update(ctx, roomNumber, patch, "api")
	if err != nil {
		return nil, err
	}
	log.Printf("[Payments] Confirmed advance %s EUR on room %d (order %s)",
		req.Amount.StringFixed(2), roomNumber, req.OrderID)
	return result, nil
}

func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
