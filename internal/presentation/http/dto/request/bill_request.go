package request

import "github.com/sangkips/alankar-api/internal/domain/enum"

// BillItemRequest represents one item row
type BillItemRequest struct {
	ID               string                `json:"id"`
	Name             string                `json:"name" binding:"max=255"`
	WeightGrams      float64               `json:"weight_grams" binding:"min=0"`
	RatePer10g       float64               `json:"rate_per_10g" binding:"min=0"`
	MakingCharge     float64               `json:"making_charge" binding:"min=0"`
	MakingChargeType enum.MakingChargeType `json:"making_charge_type"`
	Discount         float64               `json:"discount" binding:"min=0"`
}

// PaymentRequest represents one payment row
type PaymentRequest struct {
	ID          string           `json:"id"`
	Amount      float64          `json:"amount"`
	Mode        enum.PaymentMode `json:"mode"`
	Date        *Date            `json:"date"`
	ReferenceID string           `json:"reference_id" binding:"max=100"`
}

// BillRequest is the canonical bill payload for create and update. On update
// a missing items or payments array keeps the stored rows. Totals are optional
// and only compared against the server's own computation.
type BillRequest struct {
	CustomerID  string            `json:"customer_id"`
	BillDate    *Date             `json:"bill_date"`
	Items       []BillItemRequest `json:"items" binding:"omitempty,dive"`
	Payments    []PaymentRequest  `json:"payments" binding:"omitempty,dive"`
	TotalAmount *float64          `json:"total_amount,omitempty"`
	TotalPaid   *float64          `json:"total_paid,omitempty"`
	BalanceDue  *float64          `json:"balance_due,omitempty"`
}

// BillSearchRequest is the body of POST /bills/getBills
type BillSearchRequest struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Search     string `json:"search"`
	BillID     string `json:"billId"`
	CustomerID string `json:"customerId"`
	StartDate  *Date  `json:"startDate"`
	EndDate    *Date  `json:"endDate"`
}

// TotalsPreviewRequest carries rows being edited, priced without saving
type TotalsPreviewRequest struct {
	Items    []BillItemRequest `json:"items"`
	Payments []PaymentRequest  `json:"payments"`
}

// ExportRequest represents export query parameters. Dates are YYYY-MM-DD.
type ExportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// SummaryRequest represents summary query parameters
type SummaryRequest struct {
	Days int `form:"days"`
}
