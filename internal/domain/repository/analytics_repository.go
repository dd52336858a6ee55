package repository

import (
	"context"

	"github.com/google/uuid"
)

// BillTotalsResult sums the cached totals over every bill
type BillTotalsResult struct {
	Billed    float64 `json:"billed"`
	Paid      float64 `json:"paid"`
	Due       float64 `json:"due"`
	BillCount int64   `json:"bill_count"`
}

// TopDebtorResult represents a customer's outstanding balance
type TopDebtorResult struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	TotalDue     float64   `json:"total_due"`
	BillCount    int64     `json:"bill_count"`
}

// AnalyticsRepository defines interface for aggregation queries over bills
type AnalyticsRepository interface {
	// GetBillTotals returns store-wide billed, paid and due amounts
	GetBillTotals(ctx context.Context) (BillTotalsResult, error)

	// GetTopDebtors returns customers with the largest outstanding dues, largest first
	GetTopDebtors(ctx context.Context, limit int) ([]TopDebtorResult, error)
}
