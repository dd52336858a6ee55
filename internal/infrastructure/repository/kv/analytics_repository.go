package kv

import (
	"context"
	"sort"

	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type analyticsRepository struct {
	db *DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetBillTotals(ctx context.Context) (domainRepo.BillTotalsResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var result domainRepo.BillTotalsResult
	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return result, err
	}

	var billed, paid, due decimal.Decimal
	for _, b := range bills {
		billed = billed.Add(decimal.NewFromFloat(b.TotalAmount))
		paid = paid.Add(decimal.NewFromFloat(b.TotalPaid))
		due = due.Add(decimal.NewFromFloat(b.BalanceDue))
	}
	result.Billed = billing.Round2(billed).InexactFloat64()
	result.Paid = billing.Round2(paid).InexactFloat64()
	result.Due = billing.Round2(due).InexactFloat64()
	result.BillCount = int64(len(bills))
	return result, nil
}

func (r *analyticsRepository) GetTopDebtors(ctx context.Context, limit int) ([]domainRepo.TopDebtorResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return nil, err
	}
	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return nil, err
	}

	fillAggregates(customers, bills)

	results := make([]domainRepo.TopDebtorResult, 0)
	for _, c := range customers {
		if c.TotalDues <= 0 {
			continue
		}
		results = append(results, domainRepo.TopDebtorResult{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			TotalDue:     c.TotalDues,
			BillCount:    c.TotalBills,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalDue > results[j].TotalDue
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
