package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations.
// Reads fill the TotalBills and TotalDues aggregates.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete removes the customer together with every bill they own as one unit
	// and returns how many bills went. On error nothing is removed.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	// List returns customers matching search on name, phone or address
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	Count(ctx context.Context) (int64, error)
}
