package adapter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/enum"
)

func TestParseSchemaVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    SchemaVersion
		wantErr bool
	}{
		{"", Canonical, false},
		{"canonical", Canonical, false},
		{" V1 ", V1, false},
		{"v2", V2, false},
		{"v3", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSchemaVersion(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSchemaVersion(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDecodeBillShapesAgree(t *testing.T) {
	customerID := uuid.NewString()
	bodies := map[SchemaVersion]string{
		Canonical: `{
			"customer_id": "` + customerID + `",
			"bill_date": "2024-01-10",
			"items": [{"name": "Ring", "weight_grams": 10, "rate_per_10g": 5000, "making_charge": 200, "discount": 100}],
			"payments": [{"amount": 2000, "mode": "CASH", "date": "2024-01-10"}],
			"total_amount": 5100
		}`,
		V1: `{
			"customerId": "` + customerID + `",
			"billDate": "2024-01-10T00:00:00.000Z",
			"items": [{"name": "Ring", "weightInGrams": "10", "ratePer10g": 5000, "makingCharge": 200, "makingChargeType": "FIXED", "discount": 100, "totalPrice": 5100}],
			"payments": [{"amountPaid": 2000, "paymentMode": "CASH", "paymentDate": "2024-01-10T00:00:00.000Z"}],
			"totalAmount": 5100,
			"balanceDues": 3100
		}`,
		V2: `{
			"customerId": "` + customerID + `",
			"date": "2024-01-10",
			"items": [{"id": "row-1", "name": "Ring", "weight": 10, "rate": 5000, "makingCharge": 200, "discount": 100}],
			"payments": [{"id": "pay-1", "amount": 2000, "mode": "cash", "date": "2024-01-10"}],
			"totalAmount": 5100
		}`,
	}

	for v, body := range bodies {
		t.Run(string(v), func(t *testing.T) {
			req, err := DecodeBill(v, []byte(body))
			if err != nil {
				t.Fatal(err)
			}
			if req.CustomerID != customerID {
				t.Errorf("customer id %q", req.CustomerID)
			}
			if req.BillDate == nil || req.BillDate.Format("2006-01-02") != "2024-01-10" {
				t.Errorf("bill date %v", req.BillDate)
			}
			if len(req.Items) != 1 || req.Items[0].WeightGrams != 10 || req.Items[0].RatePer10g != 5000 ||
				req.Items[0].MakingCharge != 200 || req.Items[0].Discount != 100 {
				t.Errorf("items %+v", req.Items)
			}
			if len(req.Payments) != 1 || req.Payments[0].Amount != 2000 || req.Payments[0].Mode != enum.PaymentModeCash {
				t.Errorf("payments %+v", req.Payments)
			}
			if req.TotalAmount == nil || *req.TotalAmount != 5100 {
				t.Errorf("total %v", req.TotalAmount)
			}
		})
	}
}

func TestDecodeBillKeepsAbsentRows(t *testing.T) {
	for _, v := range []SchemaVersion{Canonical, V1, V2} {
		req, err := DecodeBill(v, []byte(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		if req.Items != nil || req.Payments != nil {
			t.Errorf("%s: absent arrays should stay nil", v)
		}
	}
}

func TestDecodeBillCoercesBadNumbers(t *testing.T) {
	req, err := DecodeBill(V2, []byte(`{"items": [{"name": "Chain", "weight": "abc", "rate": null, "discount": ""}]}`))
	if err != nil {
		t.Fatal(err)
	}
	it := req.Items[0]
	if it.WeightGrams != 0 || it.RatePer10g != 0 || it.Discount != 0 {
		t.Fatalf("invalid numbers should read as zero, got %+v", it)
	}
}

func sampleBill() *entity.Bill {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	customer := &entity.Customer{ID: uuid.New(), Name: "Asha Devi", Phones: []string{"9876500001"}, TotalBills: 1, TotalDues: 3100}
	return &entity.Bill{
		ID:         "KA-7F3XYZ",
		CustomerID: customer.ID,
		BillDate:   day,
		Items: []entity.BillItem{
			{ID: "row-1", Name: "Ring", WeightGrams: 10, RatePer10g: 5000, MakingCharge: 200, MakingChargeType: enum.MakingChargeFixed, Discount: 100, TotalPrice: 5100},
		},
		Payments: []entity.Payment{
			{ID: "pay-1", Amount: 2000, Mode: enum.PaymentModeCash, Date: day},
		},
		TotalAmount: 5100,
		TotalPaid:   2000,
		BalanceDue:  3100,
		Customer:    customer,
	}
}

func encode(t *testing.T, v SchemaVersion) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(EncodeBill(v, sampleBill()))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestEncodeBillV1(t *testing.T) {
	out := encode(t, V1)
	if out["_id"] != "KA-7F3XYZ" || out["balanceDues"] != 3100.0 || out["totalAmount"] != 5100.0 {
		t.Fatalf("unexpected v1 bill %v", out)
	}
	item := out["items"].([]interface{})[0].(map[string]interface{})
	if item["weightInGrams"] != 10.0 || item["ratePer10g"] != 5000.0 {
		t.Errorf("unexpected v1 item %v", item)
	}
	pay := out["payments"].([]interface{})[0].(map[string]interface{})
	if pay["amountPaid"] != 2000.0 || pay["paymentMode"] != "CASH" {
		t.Errorf("unexpected v1 payment %v", pay)
	}
	customer := out["customer"].(map[string]interface{})
	if customer["name"] != "Asha Devi" || customer["totalDues"] != 3100.0 {
		t.Errorf("unexpected v1 customer %v", customer)
	}
}

func TestEncodeBillV2RoundTrips(t *testing.T) {
	raw, err := json.Marshal(EncodeBill(V2, sampleBill()))
	if err != nil {
		t.Fatal(err)
	}
	req, err := DecodeBill(V2, raw)
	if err != nil {
		t.Fatal(err)
	}
	if req.BillDate.Format("2006-01-02") != "2024-01-10" || req.Items[0].ID != "row-1" || req.Payments[0].Amount != 2000 {
		t.Fatalf("v2 output should decode back, got %+v", req)
	}
	if req.TotalPaid == nil || *req.TotalPaid != 2000 {
		t.Errorf("total paid %v", req.TotalPaid)
	}
}

func TestEncodeBillCanonicalIsTheEntity(t *testing.T) {
	bill := sampleBill()
	if got := EncodeBill(Canonical, bill); got != bill {
		t.Fatal("canonical encoding should pass the entity through")
	}
}
