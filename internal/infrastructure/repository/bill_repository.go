package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"gorm.io/gorm"
)

var billSearchColumns = []string{"bills.id", "customers.name", "customers.phones::text", "customers.address"}

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Bill{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Bill{}, "id = ?", id).Error
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Joins("JOIN customers ON customers.id = bills.customer_id")

	if params.BillID != "" {
		query = query.Where("bills.id = ?", params.BillID)
	} else {
		query = query.Scopes(ILikeAnyScope(params.Search, billSearchColumns...))
	}

	if params.CustomerID != nil {
		query = query.Where("bills.customer_id = ?", *params.CustomerID)
	}

	query = query.Scopes(DateRangeScope("bills.bill_date", params.StartDate, params.EndDate))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.PaginationParams.Validate()
	err := query.Offset(params.PaginationParams.Offset()).Limit(params.PaginationParams.Limit).
		Preload("Customer").
		Order("bills.bill_date DESC, bills.created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListForRange(ctx context.Context, start, end *time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(DateRangeScope("bill_date", start, end)).
		Preload("Customer").
		Order("bill_date ASC, created_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Count(&total).Error
	return total, err
}
