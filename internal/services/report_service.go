package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
	"hotel-backend/internal/timeutil"
)

// ReportService renders daily revenue records as printable PDF and CSV
// exports.
type ReportService struct {
	Revenue *RevenueService
}

func NewReportService(revenue *RevenueService) *ReportService {
	return &ReportService{Revenue: revenue}
}

// sortedItems returns the record's sold items ordered by revenue, highest
// first, with name as tiebreaker so exports are stable.
func sortedItems(record *models.DailyRevenueRecord) []models.SoldItemEntry {
	items := make([]models.SoldItemEntry, len(record.SoldItems))
	copy(items, record.SoldItems)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Revenue.Equal(items[j].Revenue) {
			return items[i].Revenue.GreaterThan(items[j].Revenue)
		}
		return items[i].ProductName < items[j].ProductName
	})
	return items
}

// GenerateDailyRevenuePDF renders one day's sales as a PDF.
func (s *ReportService) GenerateDailyRevenuePDF(ctx context.Context, dateKey string) ([]byte, error) {
	record, err := s.Revenue.Get(ctx, dateKey)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Restaurant - Daily Revenue Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, fmt.Sprintf("Date: %s", record.DisplayName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")

	status := "OPEN"
	if record.Closed {
		status = "CLOSED"
	}
	totalQty := 0
	for _, it := range record.SoldItems {
		totalQty += it.Quantity
	}
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Items Sold: %d", totalQty), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Revenue: EUR %s", record.TotalRevenue.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Day Status: %s", status), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Sold items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Sold Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(75, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Revenue", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, it := range sortedItems(record) {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		name := it.ProductName
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		category := it.CategoryName
		if len(category) > 20 {
			category = category[:17] + "..."
		}
		pdf.CellFormat(75, 6, name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 6, category, "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, it.UnitPrice.StringFixed(2), "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 6, it.Revenue.StringFixed(2), "1", 1, "R", true, 0, "")
	}

	// Total row
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(160, 8, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, record.TotalRevenue.StringFixed(2), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDailyRevenueCSV renders one day's sales as CSV.
func (s *ReportService) GenerateDailyRevenueCSV(ctx context.Context, dateKey string) ([]byte, error) {
	record, err := s.Revenue.Get(ctx, dateKey)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Daily Revenue Report", record.DisplayName})
	w.Write([]string{""})
	w.Write([]string{"Total Revenue", record.TotalRevenue.StringFixed(2)})
	status := "OPEN"
	if record.Closed {
		status = "CLOSED"
	}
	w.Write([]string{"Day Status", status})
	w.Write([]string{""})

	w.Write([]string{"#", "Product", "Category", "Qty", "Unit Price", "Revenue", "Last Sale", "Table"})
	for i, it := range sortedItems(record) {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			it.ProductName,
			it.CategoryName,
			fmt.Sprintf("%d", it.Quantity),
			it.UnitPrice.StringFixed(2),
			it.Revenue.StringFixed(2),
			timeutil.ToLocal(it.LastSaleAt).Format("15:04"),
			fmt.Sprintf("%d", it.TableNumber),
		})
	}

	w.Flush()
	return buf.Bytes(), nil
}

// GenerateRangeCSV renders the most recent days as one CSV, a row per day.
func (s *ReportService) GenerateRangeCSV(ctx context.Context, limit int) ([]byte, error) {
	records, err := s.Revenue.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Date", "Items Sold", "Revenue", "Status"})

	total := decimal.Zero
	for _, r := range records {
		qty := 0
		for _, it := range r.SoldItems {
			qty += it.Quantity
		}
		status := "OPEN"
		if r.Closed {
			status = "CLOSED"
		}
		w.Write([]string{r.DisplayName, fmt.Sprintf("%d", qty), r.TotalRevenue.StringFixed(2), status})
		total = total.Add(r.TotalRevenue)
	}
	w.Write([]string{""})
	w.Write([]string{"TOTAL", "", total.StringFixed(2), ""})

	w.Flush()
	return buf.Bytes(), nil
}
