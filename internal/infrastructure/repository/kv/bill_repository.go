package kv

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
)

type billRepository struct {
	db *DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// attachCustomers embeds each bill's owner
func (r *billRepository) attachCustomers(ctx context.Context, bills []entity.Bill) error {
	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*entity.Customer, len(customers))
	for i := range customers {
		byID[customers[i].ID] = &customers[i]
	}
	for i := range bills {
		bills[i].Customer = byID[bills[i].CustomerID]
	}
	return nil
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func billMatches(b *entity.Bill, term string) bool {
	if containsFold(b.ID, term) {
		return true
	}
	return b.Customer != nil && customerMatches(b.Customer, term)
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return err
	}

	now := r.db.now()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	bills = append(bills, storedBill(*bill))
	return save(ctx, r.db, billsCollection, bills)
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		if bills[i].ID == id {
			found := bills[i : i+1]
			if err := r.attachCustomers(ctx, found); err != nil {
				return nil, err
			}
			return &found[0], nil
		}
	}
	return nil, nil
}

func (r *billRepository) Exists(ctx context.Context, id string) (bool, error) {
	bill, err := r.GetByID(ctx, id)
	return bill != nil, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return err
	}
	for i := range bills {
		if bills[i].ID == bill.ID {
			bill.CreatedAt = bills[i].CreatedAt
			bill.UpdatedAt = r.db.now()
			bills[i] = storedBill(*bill)
			return save(ctx, r.db, billsCollection, bills)
		}
	}
	return nil
}

func (r *billRepository) Delete(ctx context.Context, id string) error {
	_, err := r.deleteWhere(ctx, func(b *entity.Bill) bool { return b.ID == id })
	return err
}

func (r *billRepository) deleteWhere(ctx context.Context, match func(*entity.Bill) bool) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return 0, err
	}
	kept := bills[:0]
	var removed int64
	for i := range bills {
		if match(&bills[i]) {
			removed++
			continue
		}
		kept = append(kept, bills[i])
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, save(ctx, r.db, billsCollection, kept)
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachCustomers(ctx, bills); err != nil {
		return nil, 0, err
	}

	search := strings.TrimSpace(params.Search)
	matched := make([]entity.Bill, 0, len(bills))
	for i := range bills {
		b := &bills[i]
		if params.BillID != "" {
			if b.ID != params.BillID {
				continue
			}
		} else if search != "" && !billMatches(b, search) {
			continue
		}
		if params.CustomerID != nil && b.CustomerID != *params.CustomerID {
			continue
		}
		if !inRange(b.BillDate, params.StartDate, params.EndDate) {
			continue
		}
		matched = append(matched, *b)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].BillDate.Equal(matched[j].BillDate) {
			return matched[i].BillDate.After(matched[j].BillDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	params.PaginationParams.Validate()
	start, end := params.PaginationParams.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *billRepository) ListForRange(ctx context.Context, start, end *time.Time) ([]entity.Bill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return nil, err
	}

	matched := make([]entity.Bill, 0, len(bills))
	for _, b := range bills {
		if inRange(b.BillDate, start, end) {
			matched = append(matched, b)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].BillDate.Before(matched[j].BillDate)
	})

	if err := r.attachCustomers(ctx, matched); err != nil {
		return nil, err
	}
	return matched, nil
}

func (r *billRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	return int64(len(bills)), err
}
