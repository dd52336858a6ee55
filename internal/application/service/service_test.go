package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/alankar-api/internal/config"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/infrastructure/kvstore"
	"github.com/sangkips/alankar-api/internal/infrastructure/repository/kv"
	"github.com/sangkips/alankar-api/pkg/printer"
)

var testShop = config.ShopConfig{
	Name:     "KHATRI ALANKAR",
	Tagline:  "ॐ नमः शिवाय",
	Address:  "Raja Bagicha, Rafiganj - 824125",
	Phone:    "+91 9934799534",
	Email:    "info@khatrialankar.com",
	Currency: "₹",
}

type fixture struct {
	customers *CustomerService
	bills     *BillService
	dashboard *DashboardService
	settings  *SettingsService
	printing  *PrinterService
	invoices  *InvoiceService
	exports   *ExportService
	paper     *printer.BufferPrinter
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	return newFixtureOn(t, now, kvstore.NewMemoryStore())
}

func newFixtureOn(t *testing.T, now time.Time, store kvstore.Store) *fixture {
	t.Helper()
	db := kv.Open(store, "test")
	customerRepo := kv.NewCustomerRepository(db)
	billRepo := kv.NewBillRepository(db)

	bills := NewBillService(billRepo, customerRepo, "KA-")
	bills.now = func() time.Time { return now }
	dashboard := NewDashboardService(customerRepo, billRepo, kv.NewAnalyticsRepository(db))
	dashboard.now = func() time.Time { return now }
	settings := NewSettingsService(kv.NewSettingsRepository(db), testShop)
	paper := printer.NewBufferPrinter()

	return &fixture{
		customers: NewCustomerService(customerRepo),
		bills:     bills,
		dashboard: dashboard,
		settings:  settings,
		printing:  NewPrinterService(paper, bills, settings, printer.TypeUSB, printer.Width58mm),
		invoices:  NewInvoiceService(bills, settings),
		exports:   NewExportService(bills),
		paper:     paper,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) customer(t *testing.T, name string, phones ...string) *entity.Customer {
	t.Helper()
	c, err := f.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: name, Phones: phones})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// ringBill is 10g at 5000 per 10g with 200 making and 100 off, paid 2000 in cash
func ringBill(c *entity.Customer, on time.Time) *CreateBillInput {
	return &CreateBillInput{
		CustomerID: c.ID,
		BillDate:   &on,
		Items: []BillItemInput{
			{Name: "Ring", WeightGrams: 10, RatePer10g: 5000, MakingCharge: 200, Discount: 100},
		},
		Payments: []PaymentInput{
			{Amount: 2000, Mode: "CASH", Date: &on},
		},
	}
}
