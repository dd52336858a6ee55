package repository

import (
	"context"

	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetBillTotals(ctx context.Context) (domainRepo.BillTotalsResult, error) {
	var result domainRepo.BillTotalsResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) as billed,
			COALESCE(SUM(total_paid), 0) as paid,
			COALESCE(SUM(balance_due), 0) as due,
			COUNT(id) as bill_count
		FROM bills
		WHERE deleted_at IS NULL
	`).Scan(&result).Error

	return result, err
}

func (r *analyticsRepository) GetTopDebtors(ctx context.Context, limit int) ([]domainRepo.TopDebtorResult, error) {
	var results []domainRepo.TopDebtorResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(b.balance_due), 0) as total_due,
			COUNT(b.id) as bill_count
		FROM bills b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.deleted_at IS NULL AND c.deleted_at IS NULL
		GROUP BY c.id, c.name
		HAVING SUM(b.balance_due) > 0
		ORDER BY total_due DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
