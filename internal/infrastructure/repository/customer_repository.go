package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/pkg/pagination"
	"gorm.io/gorm"
)

var customerSearchColumns = []string{"customers.name", "customers.phones::text", "customers.address"}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

// withAggregates selects customers together with their bill count and outstanding dues
func (r *customerRepository) withAggregates(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Select("customers.*, COUNT(bills.id) AS total_bills, COALESCE(SUM(bills.balance_due), 0) AS total_dues").
		Joins("LEFT JOIN bills ON bills.customer_id = customers.id AND bills.deleted_at IS NULL").
		Group("customers.id")
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.withAggregates(ctx).Where("customers.id = ?", id).Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("customer_id = ?", id).Delete(&entity.Bill{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		return tx.Delete(&entity.Customer{}, "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(ILikeAnyScope(search, customerSearchColumns...))
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := r.withAggregates(ctx).
		Scopes(ILikeAnyScope(search, customerSearchColumns...)).
		Offset(params.Offset()).Limit(params.Limit).
		Order("customers.name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&total).Error
	return total, err
}
