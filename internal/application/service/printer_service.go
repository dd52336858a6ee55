package service

import (
	"context"
	"fmt"
	"log"

	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	bills       *BillService
	settings    *SettingsService
	printerType string
	width       int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	bills *BillService,
	settings *SettingsService,
	printerType string,
	width int,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		bills:       bills,
		settings:    settings,
		printerType: printerType,
		width:       width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// BuildReceipt composes the receipt for a bill. Line totals are recomputed
// from the rows and paid is derived as total minus due.
func BuildReceipt(bill *entity.Bill, shop *entity.ShopSettings) *entity.Receipt {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			Tagline:   shop.Tagline,
			StoreName: shop.Name,
			Address:   shop.Address,
			Phone:     shop.Phone,
		},
		BillNo:   bill.ID,
		Date:     bill.BillDate.Format("02/01/2006"),
		Currency: shop.Currency,
		Total:    bill.TotalAmount,
		Paid:     billing.PaidFromDue(bill.TotalAmount, bill.BalanceDue),
		Due:      bill.BalanceDue,
		Items:    make([]entity.ReceiptItem, 0, len(bill.Items)),
		Payments: make([]entity.ReceiptPayment, 0, len(bill.Payments)),
	}

	if bill.Customer != nil {
		receipt.Customer = bill.Customer.Name
		receipt.Phone = bill.Customer.PrimaryPhone()
	}

	for _, item := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:        item.Name,
			WeightGrams: item.WeightGrams,
			Making:      item.MakingCharge,
			Discount:    item.Discount,
			Total:       billing.LineTotal(item),
		})
	}

	for _, p := range bill.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Date:   p.Date.Format("02/01/2006"),
			Mode:   p.Mode.String(),
			Amount: p.Amount,
		})
	}

	return receipt
}

// PrintBillReceipt fetches a bill and prints its receipt.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, billID string) (*entity.Receipt, error) {
	bill, err := s.bills.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	shop, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(bill, shop)

	data := FormatReceipt(receipt, s.width)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (bill %s): %v", bill.ID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	money := func(v float64) string { return fmt.Sprintf("%s%.2f", r.Currency, v) }

	doc.SetAlign(printer.AlignCenter)
	if r.Header.Tagline != "" {
		doc.Text(r.Header.Tagline)
	}
	doc.SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Wrap(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill No:", r.BillNo).
		KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Phone != "" {
		doc.KeyValue("Phone:", r.Phone)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.WeightLine(item.Name, item.WeightGrams, fmt.Sprintf("%.2f", item.Total))
		if item.Making > 0 {
			doc.TextF("  making %.2f", item.Making)
		}
		if item.Discount > 0 {
			doc.TextF("  less %.2f", item.Discount)
		}
	}

	if len(r.Payments) > 0 {
		doc.Separator('-')
		for _, p := range r.Payments {
			doc.KeyValue(p.Date+" "+p.Mode, fmt.Sprintf("%.2f", p.Amount))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false).
		KeyValue("Paid:", money(r.Paid))
	if r.Due != 0 {
		doc.SetBold(true).
			KeyValue("Due:", money(r.Due)).
			SetBold(false)
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
