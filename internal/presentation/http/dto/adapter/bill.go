package adapter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/enum"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
)

type v1Customer struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Phone      []string `json:"phone"`
	Address    string   `json:"address"`
	TotalBills int64    `json:"totalBills"`
	TotalDues  float64  `json:"totalDues"`
}

type v1Item struct {
	ID               string                `json:"_id,omitempty"`
	Name             string                `json:"name"`
	WeightInGrams    request.Number        `json:"weightInGrams"`
	RatePer10g       request.Number        `json:"ratePer10g"`
	MakingCharge     request.Number        `json:"makingCharge"`
	MakingChargeType enum.MakingChargeType `json:"makingChargeType"`
	Discount         request.Number        `json:"discount"`
	TotalPrice       request.Number        `json:"totalPrice"`
}

type v1Payment struct {
	ID          string           `json:"_id,omitempty"`
	AmountPaid  request.Number   `json:"amountPaid"`
	PaymentMode enum.PaymentMode `json:"paymentMode"`
	PaymentDate *time.Time       `json:"paymentDate,omitempty"`
	ReferenceID string           `json:"referenceId,omitempty"`
}

type v1Bill struct {
	ID          string          `json:"_id,omitempty"`
	CustomerID  string          `json:"customerId"`
	BillDate    *time.Time      `json:"billDate,omitempty"`
	Items       []v1Item        `json:"items"`
	Payments    []v1Payment     `json:"payments"`
	TotalAmount *request.Number `json:"totalAmount,omitempty"`
	BalanceDues *request.Number `json:"balanceDues,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	Customer    *v1Customer     `json:"customer,omitempty"`
}

// v1 dates arrive as timestamps or calendar dates
type v1BillIn struct {
	v1Bill
	BillDate *request.Date  `json:"billDate"`
	Payments []v1PaymentIn  `json:"payments"`
}

type v1PaymentIn struct {
	v1Payment
	PaymentDate *request.Date `json:"paymentDate"`
}

type v2Item struct {
	ID               string                `json:"id,omitempty"`
	Name             string                `json:"name"`
	Weight           request.Number        `json:"weight"`
	Rate             request.Number        `json:"rate"`
	MakingCharge     request.Number        `json:"makingCharge"`
	MakingChargeType enum.MakingChargeType `json:"makingChargeType,omitempty"`
	Discount         request.Number        `json:"discount"`
	TotalPrice       request.Number        `json:"totalPrice"`
}

type v2Payment struct {
	ID          string           `json:"id,omitempty"`
	Amount      request.Number   `json:"amount"`
	Mode        enum.PaymentMode `json:"mode"`
	Date        *request.Date    `json:"date,omitempty"`
	ReferenceID string           `json:"referenceId,omitempty"`
}

type v2Bill struct {
	ID          string          `json:"id,omitempty"`
	CustomerID  string          `json:"customerId"`
	Date        *request.Date   `json:"date,omitempty"`
	Items       []v2Item        `json:"items"`
	Payments    []v2Payment     `json:"payments"`
	TotalAmount *request.Number `json:"totalAmount,omitempty"`
	TotalPaid   *request.Number `json:"totalPaid,omitempty"`
	BalanceDue  *request.Number `json:"balanceDue,omitempty"`
}

func numberPtr(n *request.Number) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func num(f float64) *request.Number {
	n := request.Number(f)
	return &n
}

// DecodeBill parses a bill body in the given shape into the canonical request
func DecodeBill(v SchemaVersion, body []byte) (*request.BillRequest, error) {
	switch v {
	case V1:
		return decodeV1(body)
	case V2:
		return decodeV2(body)
	default:
		var req request.BillRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}
}

func decodeV1(body []byte) (*request.BillRequest, error) {
	var in v1BillIn
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("invalid v1 bill: %w", err)
	}

	req := &request.BillRequest{
		CustomerID:  in.CustomerID,
		BillDate:    in.BillDate,
		TotalAmount: numberPtr(in.TotalAmount),
		BalanceDue:  numberPtr(in.BalanceDues),
	}
	if in.Items != nil {
		req.Items = make([]request.BillItemRequest, 0, len(in.Items))
		for _, it := range in.Items {
			req.Items = append(req.Items, request.BillItemRequest{
				ID:               it.ID,
				Name:             it.Name,
				WeightGrams:      float64(it.WeightInGrams),
				RatePer10g:       float64(it.RatePer10g),
				MakingCharge:     float64(it.MakingCharge),
				MakingChargeType: it.MakingChargeType,
				Discount:         float64(it.Discount),
			})
		}
	}
	if in.Payments != nil {
		req.Payments = make([]request.PaymentRequest, 0, len(in.Payments))
		for _, p := range in.Payments {
			req.Payments = append(req.Payments, request.PaymentRequest{
				ID:          p.ID,
				Amount:      float64(p.AmountPaid),
				Mode:        p.PaymentMode,
				Date:        p.PaymentDate,
				ReferenceID: p.ReferenceID,
			})
		}
	}
	return req, nil
}

func decodeV2(body []byte) (*request.BillRequest, error) {
	var in v2Bill
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("invalid v2 bill: %w", err)
	}

	req := &request.BillRequest{
		CustomerID:  in.CustomerID,
		BillDate:    in.Date,
		TotalAmount: numberPtr(in.TotalAmount),
		TotalPaid:   numberPtr(in.TotalPaid),
		BalanceDue:  numberPtr(in.BalanceDue),
	}
	if in.Items != nil {
		req.Items = make([]request.BillItemRequest, 0, len(in.Items))
		for _, it := range in.Items {
			req.Items = append(req.Items, request.BillItemRequest{
				ID:               it.ID,
				Name:             it.Name,
				WeightGrams:      float64(it.Weight),
				RatePer10g:       float64(it.Rate),
				MakingCharge:     float64(it.MakingCharge),
				MakingChargeType: it.MakingChargeType,
				Discount:         float64(it.Discount),
			})
		}
	}
	if in.Payments != nil {
		req.Payments = make([]request.PaymentRequest, 0, len(in.Payments))
		for _, p := range in.Payments {
			req.Payments = append(req.Payments, request.PaymentRequest{
				ID:          p.ID,
				Amount:      float64(p.Amount),
				Mode:        p.Mode,
				Date:        p.Date,
				ReferenceID: p.ReferenceID,
			})
		}
	}
	return req, nil
}

// EncodeBill renders a bill in the given shape
func EncodeBill(v SchemaVersion, bill *entity.Bill) interface{} {
	switch v {
	case V1:
		return encodeV1(bill)
	case V2:
		return encodeV2(bill)
	default:
		return bill
	}
}

// EncodeBills renders a page of bills in the given shape
func EncodeBills(v SchemaVersion, bills []entity.Bill) []interface{} {
	out := make([]interface{}, 0, len(bills))
	for i := range bills {
		out = append(out, EncodeBill(v, &bills[i]))
	}
	return out
}

func encodeV1(bill *entity.Bill) *v1Bill {
	billDate, created, updated := bill.BillDate, bill.CreatedAt, bill.UpdatedAt
	out := &v1Bill{
		ID:          bill.ID,
		CustomerID:  bill.CustomerID.String(),
		BillDate:    &billDate,
		TotalAmount: num(bill.TotalAmount),
		BalanceDues: num(bill.BalanceDue),
		CreatedAt:   &created,
		UpdatedAt:   &updated,
		Items:       make([]v1Item, 0, len(bill.Items)),
		Payments:    make([]v1Payment, 0, len(bill.Payments)),
	}
	for _, it := range bill.Items {
		out.Items = append(out.Items, v1Item{
			ID:               it.ID,
			Name:             it.Name,
			WeightInGrams:    request.Number(it.WeightGrams),
			RatePer10g:       request.Number(it.RatePer10g),
			MakingCharge:     request.Number(it.MakingCharge),
			MakingChargeType: it.MakingChargeType,
			Discount:         request.Number(it.Discount),
			TotalPrice:       request.Number(it.TotalPrice),
		})
	}
	for _, p := range bill.Payments {
		paid := p.Date
		out.Payments = append(out.Payments, v1Payment{
			ID:          p.ID,
			AmountPaid:  request.Number(p.Amount),
			PaymentMode: p.Mode,
			PaymentDate: &paid,
			ReferenceID: p.ReferenceID,
		})
	}
	if c := bill.Customer; c != nil {
		out.Customer = &v1Customer{
			ID:         c.ID.String(),
			Name:       c.Name,
			Phone:      append([]string{}, c.Phones...),
			Address:    c.Address,
			TotalBills: c.TotalBills,
			TotalDues:  c.TotalDues,
		}
	}
	return out
}

func encodeV2(bill *entity.Bill) *v2Bill {
	out := &v2Bill{
		ID:          bill.ID,
		CustomerID:  bill.CustomerID.String(),
		Date:        request.NewDate(bill.BillDate),
		TotalAmount: num(bill.TotalAmount),
		TotalPaid:   num(bill.TotalPaid),
		BalanceDue:  num(bill.BalanceDue),
		Items:       make([]v2Item, 0, len(bill.Items)),
		Payments:    make([]v2Payment, 0, len(bill.Payments)),
	}
	for _, it := range bill.Items {
		out.Items = append(out.Items, v2Item{
			ID:               it.ID,
			Name:             it.Name,
			Weight:           request.Number(it.WeightGrams),
			Rate:             request.Number(it.RatePer10g),
			MakingCharge:     request.Number(it.MakingCharge),
			MakingChargeType: it.MakingChargeType,
			Discount:         request.Number(it.Discount),
			TotalPrice:       request.Number(it.TotalPrice),
		})
	}
	for _, p := range bill.Payments {
		out.Payments = append(out.Payments, v2Payment{
			ID:          p.ID,
			Amount:      request.Number(p.Amount),
			Mode:        p.Mode,
			Date:        request.NewDate(p.Date),
			ReferenceID: p.ReferenceID,
		})
	}
	return out
}
