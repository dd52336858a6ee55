package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/pagination"
)

// BillFilterParams narrows a bill listing. BillID, when set, is an exact match
// and Search is ignored. The date range applies to the bill date, both bounds
// inclusive.
type BillFilterParams struct {
	pagination.PaginationParams
	Search     string
	BillID     string
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// BillRepository defines the interface for bill data operations.
// Reads embed the owning customer.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id string) error
	// List returns bills newest first
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// ListForRange returns every bill dated inside the range, oldest first. Nil bounds are open.
	ListForRange(ctx context.Context, start, end *time.Time) ([]entity.Bill, error)
	Count(ctx context.Context) (int64, error)
}
