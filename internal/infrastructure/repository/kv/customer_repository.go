package kv

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

type customerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

// fillAggregates sets bill count and outstanding dues from the bill collection
func fillAggregates(customers []entity.Customer, bills []entity.Bill) {
	counts := make(map[uuid.UUID]int64, len(customers))
	dues := make(map[uuid.UUID]decimal.Decimal, len(customers))
	for _, b := range bills {
		counts[b.CustomerID]++
		dues[b.CustomerID] = dues[b.CustomerID].Add(decimal.NewFromFloat(b.BalanceDue))
	}
	for i := range customers {
		customers[i].TotalBills = counts[customers[i].ID]
		customers[i].TotalDues = billing.Round2(dues[customers[i].ID]).InexactFloat64()
	}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return err
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	now := r.db.now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	customers = append(customers, storedCustomer(*customer))
	return save(ctx, r.db, customersCollection, customers)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].ID != id {
			continue
		}
		bills, err := load[entity.Bill](ctx, r.db, billsCollection)
		if err != nil {
			return nil, err
		}
		found := customers[i : i+1]
		fillAggregates(found, bills)
		return &found[0], nil
	}
	return nil, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return err
	}
	for i := range customers {
		if customers[i].ID == customer.ID {
			customer.CreatedAt = customers[i].CreatedAt
			customer.UpdatedAt = r.db.now()
			customers[i] = storedCustomer(*customer)
			return save(ctx, r.db, customersCollection, customers)
		}
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return 0, err
	}
	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return 0, err
	}

	keptCustomers := make([]entity.Customer, 0, len(customers))
	for _, c := range customers {
		if c.ID != id {
			keptCustomers = append(keptCustomers, c)
		}
	}
	keptBills := make([]entity.Bill, 0, len(bills))
	for _, b := range bills {
		if b.CustomerID != id {
			keptBills = append(keptBills, b)
		}
	}
	removed := int64(len(bills) - len(keptBills))

	if err := save(ctx, r.db, customersCollection, keptCustomers); err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}
	if err := save(ctx, r.db, billsCollection, keptBills); err != nil {
		if rbErr := save(ctx, r.db, customersCollection, customers); rbErr != nil {
			log.Printf("Failed to restore customers after bill delete error: %v", rbErr)
		}
		return 0, err
	}
	return removed, nil
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	if err != nil {
		return nil, 0, err
	}

	search = strings.TrimSpace(search)
	matched := make([]entity.Customer, 0, len(customers))
	for i := range customers {
		if search == "" || customerMatches(&customers[i], search) {
			matched = append(matched, customers[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
	})

	params.Validate()
	start, end := params.Window(len(matched))
	page := matched[start:end]

	bills, err := load[entity.Bill](ctx, r.db, billsCollection)
	if err != nil {
		return nil, 0, err
	}
	fillAggregates(page, bills)

	return page, int64(len(matched)), nil
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	customers, err := load[entity.Customer](ctx, r.db, customersCollection)
	return int64(len(customers)), err
}
