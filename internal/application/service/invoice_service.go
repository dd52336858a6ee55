package service

import (
	"context"
	"io"
	"log"
	"math"
	"strings"

	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/invoice"
)

// InvoiceOptions are the print toggles chosen on the bills screen
type InvoiceOptions struct {
	ShowRate     bool
	ShowDiscount bool
	AutoPrint    bool
	Copies       int
}

// InvoiceService renders bills as printable HTML pages.
type InvoiceService struct {
	bills    *BillService
	settings *SettingsService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(bills *BillService, settings *SettingsService) *InvoiceService {
	return &InvoiceService{bills: bills, settings: settings}
}

// BuildInvoiceView maps a bill onto the invoice layout. Stored totals are
// shown as-is; a row sum that disagrees with the stored total is only logged.
func BuildInvoiceView(bill *entity.Bill, shop *entity.ShopSettings, opts InvoiceOptions) *invoice.View {
	copies := opts.Copies
	if copies < 1 {
		copies = 1
	}

	v := &invoice.View{
		Shop: invoice.Shop{
			Tagline:  shop.Tagline,
			Name:     shop.Name,
			Details:  shop.ContactLine(),
			Currency: shop.Currency,
		},
		BillID:       bill.ID,
		Date:         bill.BillDate.Format("02/01/2006"),
		Total:        bill.TotalAmount,
		Paid:         billing.PaidFromDue(bill.TotalAmount, bill.BalanceDue),
		Due:          bill.BalanceDue,
		InWords:      invoice.AmountInWords(bill.TotalAmount),
		ShowRate:     opts.ShowRate,
		ShowDiscount: opts.ShowDiscount,
		AutoPrint:    opts.AutoPrint,
		Copies:       copies,
		Lines:        make([]invoice.Line, 0, len(bill.Items)),
		Payments:     make([]invoice.PaymentLine, 0, len(bill.Payments)),
	}

	if bill.Customer != nil {
		v.CustomerName = bill.Customer.Name
		v.CustomerPhone = strings.Join(bill.Customer.Phones, ", ")
		v.CustomerAddress = bill.Customer.Address
	}

	for i, item := range bill.Items {
		v.Lines = append(v.Lines, invoice.Line{
			SNo:        i + 1,
			Name:       item.Name,
			WeightG:    item.WeightGrams,
			RatePer10g: item.RatePer10g,
			Making:     item.MakingCharge,
			Price:      billing.GrossPrice(item),
			Discount:   item.Discount,
			Final:      billing.LineTotal(item),
		})
	}
	if rowSum := billing.Compute(bill.Items, nil).TotalAmount; math.Abs(rowSum-bill.TotalAmount) >= 0.01 {
		log.Printf("Invoice %s: item rows sum to %.2f but stored total is %.2f", bill.ID, rowSum, bill.TotalAmount)
	}

	for _, p := range bill.Payments {
		v.Payments = append(v.Payments, invoice.PaymentLine{
			Amount:    p.Amount,
			Date:      p.Date.Format("02/01/2006"),
			Mode:      p.Mode.String(),
			Reference: p.ReferenceID,
		})
	}

	return v
}

// RenderBill writes the invoice page for billID to w
func (s *InvoiceService) RenderBill(ctx context.Context, billID string, opts InvoiceOptions, w io.Writer) error {
	bill, err := s.bills.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	shop, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	return invoice.Render(w, BuildInvoiceView(bill, shop, opts))
}
