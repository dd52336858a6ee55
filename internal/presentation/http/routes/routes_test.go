package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/config"
	"github.com/sangkips/alankar-api/internal/infrastructure/kvstore"
	"github.com/sangkips/alankar-api/internal/infrastructure/repository/kv"
	"github.com/sangkips/alankar-api/internal/presentation/http/handler"
	"github.com/sangkips/alankar-api/internal/presentation/http/middleware"
	"github.com/sangkips/alankar-api/pkg/printer"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  []map[string]string    `json:"errors"`
	Meta    map[string]interface{} `json:"meta"`
}

type testServer struct {
	router *gin.Engine
	paper  *printer.BufferPrinter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "alankar-api"},
		Shop: config.ShopConfig{
			Name:     "KHATRI ALANKAR",
			Tagline:  "ॐ नमः शिवाय",
			Address:  "Raja Bagicha, Rafiganj - 824125",
			Phone:    "+91 9934799534",
			Currency: "₹",
		},
	}

	db := kv.Open(kvstore.NewMemoryStore(), "test")
	customerRepo := kv.NewCustomerRepository(db)
	billRepo := kv.NewBillRepository(db)

	customers := service.NewCustomerService(customerRepo)
	bills := service.NewBillService(billRepo, customerRepo, "KA-")
	dashboard := service.NewDashboardService(customerRepo, billRepo, kv.NewAnalyticsRepository(db))
	settings := service.NewSettingsService(kv.NewSettingsRepository(db), cfg.Shop)
	paper := printer.NewBufferPrinter()

	h := &Handlers{
		Customer:  handler.NewCustomerHandler(customers),
		Bill:      handler.NewBillHandler(bills, service.NewExportService(bills)),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Settings:  handler.NewSettingsHandler(settings),
		Printer:   handler.NewPrinterHandler(service.NewPrinterService(paper, bills, settings, printer.TypeUSB, printer.Width58mm)),
		Invoice:   handler.NewInvoiceHandler(service.NewInvoiceService(bills, settings)),
	}

	limiter := middleware.NewClientRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(limiter.Stop)

	router := Setup(h, &Deps{
		Cfg:             cfg,
		IdempotencyRepo: kv.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})
	return &testServer{router: router, paper: paper}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ClientIDHeader, "test-console")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v; body %s", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v; body %s", err, rec.Body.String())
		}
	}
	return env
}

type billJSON struct {
	ID          string  `json:"id"`
	CustomerID  string  `json:"customer_id"`
	TotalAmount float64 `json:"total_amount"`
	TotalPaid   float64 `json:"total_paid"`
	BalanceDue  float64 `json:"balance_due"`
	Items       []struct {
		Name       string  `json:"name"`
		TotalPrice float64 `json:"total_price"`
	} `json:"items"`
	Payments []struct {
		Amount      float64 `json:"amount"`
		Mode        string  `json:"mode"`
		ReferenceID string  `json:"reference_id"`
	} `json:"payments"`
}

func (s *testServer) createCustomer(t *testing.T, name string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/customers", map[string]interface{}{
		"name":    name,
		"phone":   "9800000001, 9800000002",
		"address": "Rafiganj",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: status %d body %s", rec.Code, rec.Body.String())
	}
	var customer struct {
		ID    string   `json:"id"`
		Phone []string `json:"phone"`
	}
	decode(t, rec, &customer)
	if len(customer.Phone) != 2 {
		t.Fatalf("phones = %v, want 2 entries", customer.Phone)
	}
	return customer.ID
}

func ringBill(customerID string) map[string]interface{} {
	return map[string]interface{}{
		"customer_id": customerID,
		"bill_date":   "2024-01-10",
		"items": []map[string]interface{}{
			{"name": "Ring", "weight_grams": 10, "rate_per_10g": 5000, "making_charge": 200, "discount": 100},
			{"name": "", "weight_grams": 0, "rate_per_10g": 0},
		},
		"payments": []map[string]interface{}{
			{"amount": 2000, "mode": "cash"},
			{"amount": 0, "mode": "ONLINE"},
		},
	}
}

func (s *testServer) createBill(t *testing.T, customerID string) billJSON {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/bills", ringBill(customerID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bill: status %d body %s", rec.Code, rec.Body.String())
	}
	var bill billJSON
	decode(t, rec, &bill)
	return bill
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createCustomer(t, "Sita Devi")

	rec := s.do(t, http.MethodGet, "/api/v1/customers?query=sita&limit=50", nil, nil)
	var page struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		Pagination struct {
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, rec, &page)
	if len(page.Items) != 1 || page.Pagination.Total != 1 || page.Pagination.Limit != 50 {
		t.Fatalf("search page = %+v", page)
	}

	rec = s.do(t, http.MethodPatch, "/api/v1/customers/"+id, map[string]string{"name": "Sita Kumari"}, nil)
	var updated struct {
		Name  string   `json:"name"`
		Phone []string `json:"phone"`
	}
	decode(t, rec, &updated)
	if rec.Code != http.StatusOK || updated.Name != "Sita Kumari" || len(updated.Phone) != 2 {
		t.Fatalf("update: %d %+v", rec.Code, updated)
	}

	s.createBill(t, id)

	rec = s.do(t, http.MethodGet, "/api/v1/customers/"+id+"/delete-warning", nil, nil)
	var warning struct {
		Warning string `json:"warning"`
	}
	decode(t, rec, &warning)
	if warning.Warning != service.DeleteWarningWithDues {
		t.Fatalf("warning = %q", warning.Warning)
	}

	rec = s.do(t, http.MethodDelete, "/api/v1/customers/"+id, nil, nil)
	var result service.DeleteCustomerResult
	decode(t, rec, &result)
	if rec.Code != http.StatusOK || result.BillsDeleted != 1 {
		t.Fatalf("delete: %d %+v", rec.Code, result)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/customers/"+id, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestCustomerValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"missing name", http.MethodPost, "/api/v1/customers", map[string]string{"address": "x"}, http.StatusUnprocessableEntity},
		{"malformed json", http.MethodPost, "/api/v1/customers", "{", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/v1/customers/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/v1/customers/7f1c1a4e-5f7e-4c1b-9d55-6a6d2b0c9e11", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
			env := decode(t, rec, nil)
			if env.Success {
				t.Fatal("expected success=false")
			}
		})
	}
}

func TestBillLifecycle(t *testing.T) {
	s := newTestServer(t)
	customerID := s.createCustomer(t, "Ram Prasad")

	bill := s.createBill(t, customerID)
	if !strings.HasPrefix(bill.ID, "KA-") {
		t.Fatalf("bill id = %q", bill.ID)
	}
	if bill.TotalAmount != 5100 || bill.TotalPaid != 2000 || bill.BalanceDue != 3100 {
		t.Fatalf("totals = %v/%v/%v, want 5100/2000/3100", bill.TotalAmount, bill.TotalPaid, bill.BalanceDue)
	}
	if len(bill.Items) != 1 || len(bill.Payments) != 1 {
		t.Fatalf("blank rows kept: %d items, %d payments", len(bill.Items), len(bill.Payments))
	}
	if bill.Payments[0].Mode != "CASH" {
		t.Fatalf("mode = %q", bill.Payments[0].Mode)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/bills/"+bill.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}

	rec = s.do(t, http.MethodPatch, "/api/v1/bills/"+bill.ID, map[string]interface{}{
		"payments": []map[string]interface{}{
			{"amount": 2000, "mode": "CASH"},
			{"amount": 3100, "mode": "ONLINE", "reference_id": "UPI-77"},
		},
	}, nil)
	var updated billJSON
	decode(t, rec, &updated)
	if rec.Code != http.StatusOK || updated.BalanceDue != 0 || updated.TotalPaid != 5100 || len(updated.Items) != 1 {
		t.Fatalf("update: %d %+v", rec.Code, updated)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/bills/getBills", map[string]interface{}{"search": strings.ToLower(bill.ID)}, nil)
	var page struct {
		Items []billJSON `json:"items"`
	}
	decode(t, rec, &page)
	if len(page.Items) != 1 || page.Items[0].ID != bill.ID {
		t.Fatalf("search by id = %+v", page.Items)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/bills/getBills", nil, nil)
	decode(t, rec, &page)
	if rec.Code != http.StatusOK || len(page.Items) != 1 {
		t.Fatalf("empty search: %d %d items", rec.Code, len(page.Items))
	}

	rec = s.do(t, http.MethodDelete, "/api/v1/bills/"+bill.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/v1/bills/"+bill.ID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestBillValidation(t *testing.T) {
	s := newTestServer(t)
	customerID := s.createCustomer(t, "Meena")

	negative := ringBill(customerID)
	negative["items"] = []map[string]interface{}{{"name": "Chain", "weight_grams": -1, "rate_per_10g": 100}}

	tests := []struct {
		name      string
		body      interface{}
		headers   map[string]string
		want      int
		wantField string
	}{
		{"no customer", ringBill(""), nil, http.StatusUnprocessableEntity, "customer_id"},
		{"negative weight", negative, nil, http.StatusUnprocessableEntity, "items[0].weight_grams"},
		{"unknown payment mode", map[string]interface{}{
			"customer_id": customerID,
			"payments":    []map[string]interface{}{{"amount": 10, "mode": "CHEQUE"}},
		}, nil, http.StatusBadRequest, ""},
		{"unknown schema", ringBill(customerID), map[string]string{"X-Schema-Version": "v9"}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/bills", tt.body, tt.headers)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.wantField == "" {
				return
			}
			env := decode(t, rec, nil)
			if len(env.Errors) == 0 || env.Errors[0]["field"] != tt.wantField {
				t.Fatalf("errors = %v, want field %s", env.Errors, tt.wantField)
			}
		})
	}
}

func TestBillLegacyShape(t *testing.T) {
	s := newTestServer(t)
	customerID := s.createCustomer(t, "Gita")

	body := `{
		"customerId": "` + customerID + `",
		"billDate": "2024-02-01T00:00:00.000Z",
		"items": [{"name": "Bangle", "weightInGrams": "10", "ratePer10g": 5000, "makingCharge": 200, "discount": 100}],
		"payments": [{"amountPaid": 2000, "paymentMode": "CASH", "paymentDate": "2024-02-01"}]
	}`
	rec := s.do(t, http.MethodPost, "/api/v1/bills", body, map[string]string{"X-Schema-Version": "v1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create v1: %d %s", rec.Code, rec.Body.String())
	}
	var bill struct {
		ID          string  `json:"_id"`
		TotalAmount float64 `json:"totalAmount"`
		BalanceDues float64 `json:"balanceDues"`
		Items       []struct {
			WeightInGrams float64 `json:"weightInGrams"`
		} `json:"items"`
	}
	decode(t, rec, &bill)
	if bill.ID == "" || bill.TotalAmount != 5100 || bill.BalanceDues != 3100 || bill.Items[0].WeightInGrams != 10 {
		t.Fatalf("v1 bill = %+v", bill)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/bills/"+bill.ID, nil, map[string]string{"X-Schema-Version": "v2"})
	var local struct {
		ID       string `json:"id"`
		Payments []struct {
			Amount float64 `json:"amount"`
			Mode   string  `json:"mode"`
		} `json:"payments"`
	}
	decode(t, rec, &local)
	if local.ID != bill.ID || len(local.Payments) != 1 || local.Payments[0].Amount != 2000 {
		t.Fatalf("v2 bill = %+v", local)
	}
}

func TestBillCreateIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	customerID := s.createCustomer(t, "Kiran")
	headers := map[string]string{middleware.IdempotencyKeyHeader: "save-1"}

	first := s.do(t, http.MethodPost, "/api/v1/bills", ringBill(customerID), headers)
	second := s.do(t, http.MethodPost, "/api/v1/bills", ringBill(customerID), headers)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("status %d then %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("second request was not replayed")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("replayed body differs")
	}

	rec := s.do(t, http.MethodPost, "/api/v1/bills/getBills", map[string]string{"customerId": customerID}, nil)
	var page struct {
		Items []billJSON `json:"items"`
	}
	decode(t, rec, &page)
	if len(page.Items) != 1 {
		t.Fatalf("bills stored = %d, want 1", len(page.Items))
	}
}

func TestPreviewTotals(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/bills/totals", map[string]interface{}{
		"items":    []map[string]interface{}{{"name": "Ring", "weight_grams": 10, "rate_per_10g": 5000, "making_charge": 200, "discount": 100}},
		"payments": []map[string]interface{}{{"amount": 2000, "mode": "CASH"}},
	}, nil)
	var preview struct {
		Totals struct {
			TotalAmount float64 `json:"total_amount"`
			BalanceDue  float64 `json:"balance_due"`
		} `json:"totals"`
	}
	decode(t, rec, &preview)
	if rec.Code != http.StatusOK || preview.Totals.TotalAmount != 5100 || preview.Totals.BalanceDue != 3100 {
		t.Fatalf("preview: %d %+v", rec.Code, preview)
	}
}

func TestPrintInvoice(t *testing.T) {
	s := newTestServer(t)
	bill := s.createBill(t, s.createCustomer(t, "Asha"))

	rec := s.do(t, http.MethodGet, "/print/bills/"+bill.ID+"?show_rate=true&copies=2", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("print: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	page := rec.Body.String()
	for _, want := range []string{"KHATRI ALANKAR", "Asha", "window.print()", "Rate"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(page, `class="bill-container"`); n != 2 {
		t.Errorf("copies rendered = %d, want 2", n)
	}

	rec = s.do(t, http.MethodGet, "/print/bills/"+bill.ID+"?auto_print=false", nil, nil)
	if strings.Contains(rec.Body.String(), "window.print()") {
		t.Error("auto print disabled but script rendered")
	}

	rec = s.do(t, http.MethodGet, "/print/bills/KA-NOPE00", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown bill: %d", rec.Code)
	}
}

func TestPrinterReceipt(t *testing.T) {
	s := newTestServer(t)
	bill := s.createBill(t, s.createCustomer(t, "Uma"))

	rec := s.do(t, http.MethodPost, "/api/v1/printer/bills/"+bill.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("print receipt: %d %s", rec.Code, rec.Body.String())
	}
	if len(s.paper.Jobs()) != 1 {
		t.Fatalf("jobs = %d, want 1", len(s.paper.Jobs()))
	}

	rec = s.do(t, http.MethodGet, "/api/v1/printer/status", nil, nil)
	var status service.PrinterStatus
	decode(t, rec, &status)
	if !status.Configured || !status.Connected {
		t.Fatalf("status = %+v", status)
	}
}

func TestExportBills(t *testing.T) {
	s := newTestServer(t)
	s.createBill(t, s.createCustomer(t, "Lata"))

	rec := s.do(t, http.MethodGet, "/api/v1/bills/export?start_date=2024-01-01&end_date=2024-12-31", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != service.ExportContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/bills/export?start_date=01-01-2024", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: %d", rec.Code)
	}
}

func TestDashboardAndSettings(t *testing.T) {
	s := newTestServer(t)
	s.createBill(t, s.createCustomer(t, "Nisha"))

	rec := s.do(t, http.MethodGet, "/api/v1/dashboard", nil, nil)
	var stats service.DashboardStats
	decode(t, rec, &stats)
	if rec.Code != http.StatusOK || stats.TotalBills != 1 || stats.UnpaidDues != 3100 || len(stats.MonthlyData) != 6 {
		t.Fatalf("dashboard: %d %+v", rec.Code, stats)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/bills/summary?days=3", nil, nil)
	var summary service.BillSummary
	decode(t, rec, &summary)
	if rec.Code != http.StatusOK || len(summary.DailyRevenue) != 3 || summary.TotalDues != 3100 {
		t.Fatalf("summary: %d %+v", rec.Code, summary)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/settings", map[string]string{"phone": "+91 9000000000"}, nil)
	var settings struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	decode(t, rec, &settings)
	if rec.Code != http.StatusOK || settings.Name != "KHATRI ALANKAR" || settings.Phone != "+91 9000000000" {
		t.Fatalf("settings: %d %+v", rec.Code, settings)
	}
}
