package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const (
	billsSheet    = "Bills"
	paymentsSheet = "Payments"
	exportDate    = "02.01.2006"
)

// ExportContentType is the MIME type of the workbook written by ExportService
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService writes bills to an xlsx workbook
type ExportService struct {
	bills *BillService
}

// NewExportService creates a new export service
func NewExportService(bills *BillService) *ExportService {
	return &ExportService{bills: bills}
}

// ExportFileName names the workbook for a download
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("bills_%s.xlsx", now.Format("20060102_150405"))
}

// WriteBills writes every bill dated in the range as a workbook with one
// sheet of bills and one of payments. Nil bounds are open.
func (s *ExportService) WriteBills(ctx context.Context, start, end *time.Time, w io.Writer) error {
	bills, err := s.bills.ListBillsForRange(ctx, start, end)
	if err != nil {
		return err
	}

	f, err := BuildBillsWorkbook(bills)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// BuildBillsWorkbook lays out bills and their payments
func BuildBillsWorkbook(bills []entity.Bill) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", billsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(paymentsSheet); err != nil {
		return nil, err
	}

	headers := []string{"Bill No", "Date", "Customer", "Phone", "Items", "Weight (g)", "Total", "Paid", "Due"}
	if err := writeHeader(f, billsSheet, headers); err != nil {
		return nil, err
	}
	if err := writeHeader(f, paymentsSheet, []string{"Bill No", "Date", "Mode", "Reference", "Amount"}); err != nil {
		return nil, err
	}

	var total, paid, due float64
	paymentRow := 2
	for i, bill := range bills {
		row := i + 2

		customer, phone := "", ""
		if bill.Customer != nil {
			customer = bill.Customer.Name
			phone = strings.Join(bill.Customer.Phones, ", ")
		}

		names := make([]string, 0, len(bill.Items))
		var grams float64
		for _, item := range bill.Items {
			names = append(names, item.Name)
			grams += item.WeightGrams
		}

		values := []interface{}{
			bill.ID,
			bill.BillDate.Format(exportDate),
			customer,
			phone,
			strings.Join(names, ", "),
			grams,
			bill.TotalAmount,
			bill.TotalPaid,
			bill.BalanceDue,
		}
		if err := writeRow(f, billsSheet, row, values); err != nil {
			return nil, err
		}

		total += bill.TotalAmount
		paid += bill.TotalPaid
		due += bill.BalanceDue

		for _, p := range bill.Payments {
			err := writeRow(f, paymentsSheet, paymentRow, []interface{}{
				bill.ID, p.Date.Format(exportDate), p.Mode.String(), p.ReferenceID, p.Amount,
			})
			if err != nil {
				return nil, err
			}
			paymentRow++
		}
	}

	totalsRow := len(bills) + 2
	err := writeRow(f, billsSheet, totalsRow, []interface{}{"TOTAL", "", "", "", "", "", round2(total), round2(paid), round2(due)})
	if err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
