package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"hotel-backend/internal/models"
	"hotel-backend/internal/timeutil"
)

// ReceiptService renders bills for guests: a plain-text pre-bill for the
// restaurant thermal printer and a PDF statement for the room account at
// checkout.
type ReceiptService struct {
	HotelName   string
	PrinterAddr string
	Tables      *TableOrderService
	Accounts    *RoomAccountService
}

func NewReceiptService(hotelName, printerAddr string, tables *TableOrderService, accounts *RoomAccountService) *ReceiptService {
	return &ReceiptService{HotelName: hotelName, PrinterAddr: printerAddr, Tables: tables, Accounts: accounts}
}

// ReceiptPayload is what the printer transport consumes: the rendered text
// plus the destination it should be sent to.
type ReceiptPayload struct {
	Payload     string `json:"payload"`
	Destination string `json:"destination"`
}

// TableReceipt renders the pre-bill and pairs it with the configured
// printer address. Sending it is the transport's job, not ours.
func (s *ReceiptService) TableReceipt(ctx context.Context, tableNumber int) (*ReceiptPayload, error) {
	text, err := s.TablePreBill(ctx, tableNumber)
	if err != nil {
		return nil, err
	}
	return &ReceiptPayload{Payload: text, Destination: s.PrinterAddr}, nil
}

const receiptWidth = 42 // characters across a 80mm thermal roll

func receiptLine(left, right string) string {
	pad := receiptWidth - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}

// TablePreBill renders the table's current order as printer-ready text.
func (s *ReceiptService) TablePreBill(ctx context.Context, tableNumber int) (string, error) {
	t, err := s.Tables.Get(ctx, tableNumber)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"
	b.WriteString(centerText(s.HotelName) + "\n")
	b.WriteString(centerText(fmt.Sprintf("Tavolo %d", tableNumber)) + "\n")
	b.WriteString(centerText(timeutil.Now().Format("02/01/2006 15:04")) + "\n")
	b.WriteString(rule)

	for _, line := range t.OrderItems {
		b.WriteString(receiptLine(
			fmt.Sprintf("%dx %s", line.Quantity, line.ProductName),
			line.TotalPrice.StringFixed(2),
		))
	}

	b.WriteString(rule)
	b.WriteString(receiptLine("TOTALE EUR", t.OrderTotal.StringFixed(2)))
	if t.AssignedRoom > 0 {
		b.WriteString(receiptLine("Camera", fmt.Sprintf("%d", t.AssignedRoom)))
	}
	b.WriteString(rule)
	return b.String(), nil
}

func centerText(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// AccountStatementPDF renders the room account as a checkout statement.
func (s *ReceiptService) AccountStatementPDF(ctx context.Context, roomNumber int) ([]byte, error) {
	account, err := s.Accounts.GetByRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.HotelName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Statement generated: %s", timeutil.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Guest box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Guest", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", account.GuestName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Room: %d", account.RoomNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Stay: %s - %s", account.CheckIn, account.CheckOut), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Guests: %d adults, %d children", account.Adults, account.Children), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Service charges
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Charges", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Service", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, bucket := range models.BucketOrder {
		entries := account.Services[bucket]
		for _, date := range sortedDates(entries) {
			amount := models.ParseAmount(entries[date])
			if amount.IsZero() {
				continue
			}
			pdf.CellFormat(60, 6, models.BucketDisplayName(bucket), "1", 0, "L", false, 0, "")
			pdf.CellFormat(65, 6, date, "1", 0, "C", false, 0, "")
			pdf.CellFormat(65, 6, amount.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(5)

	// Totals
	totals := account.Calculations
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Totals", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(125, 7, "Room", "1", 0, "L", false, 0, "")
	pdf.CellFormat(65, 7, totals.RoomTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(125, 7, "Services", "1", 0, "L", false, 0, "")
	pdf.CellFormat(65, 7, totals.ServicesTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(125, 7, "Transfer", "1", 0, "L", false, 0, "")
	pdf.CellFormat(65, 7, totals.TransferTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(125, 7, "Advance paid", "1", 0, "L", false, 0, "")
	pdf.CellFormat(65, 7, "-"+models.ParseAmount(account.AdvancePayment).StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(125, 10, "BALANCE DUE (EUR)", "1", 0, "L", true, 0, "")
	pdf.CellFormat(65, 10, totals.FinalTotal.StringFixed(2), "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.Ln(3)
	pdf.CellFormat(190, 6, fmt.Sprintf("City tax (paid separately): EUR %s", totals.CityTax.StringFixed(2)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedDates(entries map[string]string) []string {
	dates := make([]string, 0, len(entries))
	for d := range entries {
		dates = append(dates, d)
	}
	// Display dates sort correctly once flipped to year-month-day.
	flip := func(d string) string {
		parts := strings.Split(d, "/")
		if len(parts) != 3 {
			return d
		}
		return parts[2] + parts[1] + parts[0]
	}
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && flip(dates[j]) < flip(dates[j-1]); j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
	return dates
}
