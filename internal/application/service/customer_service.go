package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/pkg/apperror"
	"github.com/sangkips/alankar-api/pkg/pagination"
)

// Confirmation prompts shown before a customer is removed
const (
	DeleteWarningWithDues = "This customer has pending dues. Deleting will remove all associated data. Are you sure you want to proceed?"
	DeleteWarning         = "Are you sure you want to delete this customer? This will also delete all their bills."
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Phones  []string
	Address string
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phones  []string
	Address *string
}

// DeleteCustomerResult reports what a delete removed
type DeleteCustomerResult struct {
	Warning      string `json:"warning"`
	BillsDeleted int64  `json:"bills_deleted"`
}

// NormalizePhones splits comma separated entries, trims them and drops blanks and repeats
func NormalizePhones(phones []string) []string {
	out := make([]string, 0, len(phones))
	seen := make(map[string]bool, len(phones))
	for _, entry := range phones {
		for _, p := range strings.Split(entry, ",") {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Customer name is required."},
		})
	}
	return nil
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if err := validateCustomerName(input.Name); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:    strings.TrimSpace(input.Name),
		Phones:  NormalizePhones(input.Phones),
		Address: strings.TrimSpace(input.Address),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search on name, phone or address
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.Limit, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer updates a customer. Nil fields are left unchanged; a nil
// Phones slice keeps the stored numbers.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		if err := validateCustomerName(*input.Name); err != nil {
			return nil, err
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phones != nil {
		customer.Phones = NormalizePhones(input.Phones)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeletionWarning returns the confirmation prompt for removing the customer.
// The prompt is advisory; deletion proceeds the same way either way.
func DeletionWarning(customer *entity.Customer) string {
	if customer.HasDues() {
		return DeleteWarningWithDues
	}
	return DeleteWarning
}

// GetDeletionWarning loads the customer and returns its confirmation prompt
func (s *CustomerService) GetDeletionWarning(ctx context.Context, id uuid.UUID) (string, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return "", err
	}
	return DeletionWarning(customer), nil
}

// DeleteCustomer deletes a customer together with all of their bills
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) (*DeleteCustomerResult, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		log.Printf("Failed to delete customer %s: %v", id, err)
		return nil, err
	}

	if customer.HasDues() {
		log.Printf("Deleted customer %s with outstanding dues %.2f and %d bills", customer.ID, customer.TotalDues, removed)
	}

	return &DeleteCustomerResult{
		Warning:      DeletionWarning(customer),
		BillsDeleted: removed,
	}, nil
}
