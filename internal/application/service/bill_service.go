package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/enum"
	"github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/pkg/apperror"
	"github.com/sangkips/alankar-api/pkg/pagination"
	"github.com/sangkips/alankar-api/pkg/utils"
)

const (
	billIDTokenLength   = 6
	billIDMaxAttempts   = 5
	defaultBillIDPrefix = "KA-"
)

// BillService handles bill-related operations
type BillService struct {
	billRepo     repository.BillRepository
	customerRepo repository.CustomerRepository
	idPrefix     string
	now          func() time.Time
}

// NewBillService creates a new bill service. Bill ids are idPrefix followed
// by a random upper-case token.
func NewBillService(billRepo repository.BillRepository, customerRepo repository.CustomerRepository, idPrefix string) *BillService {
	if idPrefix == "" {
		idPrefix = defaultBillIDPrefix
	}
	return &BillService{
		billRepo:     billRepo,
		customerRepo: customerRepo,
		idPrefix:     strings.ToUpper(idPrefix),
		now:          time.Now,
	}
}

// BillItemInput represents a line as submitted
type BillItemInput struct {
	ID               string
	Name             string
	WeightGrams      float64
	RatePer10g       float64
	MakingCharge     float64
	MakingChargeType enum.MakingChargeType
	Discount         float64
}

// PaymentInput represents a payment as submitted
type PaymentInput struct {
	ID          string
	Amount      float64
	Mode        enum.PaymentMode
	Date        *time.Time
	ReferenceID string
}

// CreateBillInput represents the create bill input. ClientTotals, when sent,
// are only compared against the recomputed totals.
type CreateBillInput struct {
	CustomerID   uuid.UUID
	BillDate     *time.Time
	Items        []BillItemInput
	Payments     []PaymentInput
	ClientTotals *billing.Totals
}

// UpdateBillInput represents the update bill input. Nil slices keep the stored rows.
type UpdateBillInput struct {
	ID           string
	CustomerID   *uuid.UUID
	BillDate     *time.Time
	Items        []BillItemInput
	Payments     []PaymentInput
	ClientTotals *billing.Totals
}

// BillSearchInput represents a bill list query
type BillSearchInput struct {
	Pagination pagination.PaginationParams
	Search     string
	BillID     string
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TotalsPreview is the live pricing of rows that have not been saved
type TotalsPreview struct {
	Items  []entity.BillItem `json:"items"`
	Totals billing.Totals    `json:"totals"`
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return dateOnly(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// IsBillID reports whether a search term should be treated as an exact bill id
func (s *BillService) IsBillID(term string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(term)), s.idPrefix)
}

func (s *BillService) newBillID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < billIDMaxAttempts; attempt++ {
		id := utils.GenerateReferenceNo(s.idPrefix, billIDTokenLength)

		exists, err := s.billRepo.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		log.Printf("Bill id %s already taken, retrying", id)
	}
	return "", apperror.NewConflictError("Could not allocate a unique bill id")
}

func (s *BillService) requireCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	if id == uuid.Nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "customer_id", Message: "Please select a customer."},
		})
	}
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

func toItems(inputs []BillItemInput) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		mct := in.MakingChargeType
		if mct == "" {
			mct = enum.MakingChargeFixed
		}
		items = append(items, entity.BillItem{
			ID:               id,
			Name:             strings.TrimSpace(in.Name),
			WeightGrams:      in.WeightGrams,
			RatePer10g:       in.RatePer10g,
			MakingCharge:     in.MakingCharge,
			MakingChargeType: mct,
			Discount:         in.Discount,
		})
	}
	return items
}

func (s *BillService) toPayments(inputs []PaymentInput, fallback time.Time) ([]entity.Payment, error) {
	payments := make([]entity.Payment, 0, len(inputs))
	for i, in := range inputs {
		mode := in.Mode
		if mode == "" {
			mode = enum.PaymentModeCash
		}
		if !mode.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: fmt.Sprintf("payments[%d].mode", i), Message: "Unknown payment mode"},
			})
		}

		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		date := fallback
		if in.Date != nil && !in.Date.IsZero() {
			date = dateOnly(*in.Date)
		}
		ref := strings.TrimSpace(in.ReferenceID)
		if mode == enum.PaymentModeCash {
			ref = ""
		}

		payments = append(payments, entity.Payment{
			ID:          id,
			Amount:      in.Amount,
			Mode:        mode,
			Date:        date,
			ReferenceID: ref,
		})
	}
	return payments, nil
}

// price filters the bill's rows, refreshes its totals and rejects negative lines
func (s *BillService) price(bill *entity.Bill, client *billing.Totals) error {
	totals := billing.Apply(bill)

	var fieldErrors []apperror.FieldError
	for i, item := range bill.Items {
		if item.TotalPrice < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].discount", i),
				Message: fmt.Sprintf("Discount on %s exceeds its price", item.Name),
			})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	if client != nil && *client != totals {
		log.Printf("Bill %s: client totals %+v differ from computed %+v, keeping computed", bill.ID, *client, totals)
	}
	return nil
}

// CreateBill validates, prices and stores a new bill
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	customer, err := s.requireCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	billDate := today
	if input.BillDate != nil && !input.BillDate.IsZero() {
		billDate = dateOnly(*input.BillDate)
	}

	payments, err := s.toPayments(input.Payments, today)
	if err != nil {
		return nil, err
	}

	id, err := s.newBillID(ctx)
	if err != nil {
		return nil, err
	}

	bill := &entity.Bill{
		ID:         id,
		CustomerID: customer.ID,
		BillDate:   billDate,
		Items:      toItems(input.Items),
		Payments:   payments,
	}
	if err := s.price(bill, input.ClientTotals); err != nil {
		return nil, err
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	bill.Customer = customer
	log.Printf("Bill %s created for customer %s: total %.2f, due %.2f", bill.ID, customer.ID, bill.TotalAmount, bill.BalanceDue)
	return bill, nil
}

// GetBill retrieves a bill by ID, with its customer embedded
func (s *BillService) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, strings.ToUpper(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// UpdateBill replaces the submitted parts of a bill and reprices it
func (s *BillService) UpdateBill(ctx context.Context, input *UpdateBillInput) (*entity.Bill, error) {
	bill, err := s.GetBill(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CustomerID != nil && *input.CustomerID != bill.CustomerID {
		customer, err := s.requireCustomer(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		bill.CustomerID = customer.ID
		bill.Customer = customer
	}
	if input.BillDate != nil && !input.BillDate.IsZero() {
		bill.BillDate = dateOnly(*input.BillDate)
	}
	if input.Items != nil {
		bill.Items = toItems(input.Items)
	}
	if input.Payments != nil {
		payments, err := s.toPayments(input.Payments, dateOnly(s.now()))
		if err != nil {
			return nil, err
		}
		bill.Payments = payments
	}

	if err := s.price(bill, input.ClientTotals); err != nil {
		return nil, err
	}

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	if bill.Customer == nil {
		bill.Customer, _ = s.customerRepo.GetByID(ctx, bill.CustomerID)
	}
	return bill, nil
}

// DeleteBill deletes a bill
func (s *BillService) DeleteBill(ctx context.Context, id string) error {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return err
	}
	return s.billRepo.Delete(ctx, bill.ID)
}

// ResolveFilter turns a search input into repository filters. A search term
// starting with the bill id prefix becomes an exact id match. The date range
// only applies when both bounds are set.
func (s *BillService) ResolveFilter(input *BillSearchInput) (*repository.BillFilterParams, error) {
	params := &repository.BillFilterParams{
		PaginationParams: input.Pagination,
		CustomerID:       input.CustomerID,
	}

	search := strings.TrimSpace(input.Search)
	switch {
	case strings.TrimSpace(input.BillID) != "":
		params.BillID = strings.ToUpper(strings.TrimSpace(input.BillID))
	case s.IsBillID(search):
		params.BillID = strings.ToUpper(search)
	default:
		params.Search = search
	}

	if input.StartDate != nil && input.EndDate != nil {
		start := dateOnly(*input.StartDate)
		end := endOfDay(*input.EndDate)
		if start.After(end) {
			return nil, apperror.NewBadRequestError("Start date must not be after end date")
		}
		params.StartDate = &start
		params.EndDate = &end
	}

	return params, nil
}

// SearchBills lists bills matching the input, newest first
func (s *BillService) SearchBills(ctx context.Context, input *BillSearchInput) (*pagination.PaginatedResult[entity.Bill], error) {
	params, err := s.ResolveFilter(input)
	if err != nil {
		return nil, err
	}

	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.PaginationParams.Page, params.PaginationParams.Limit, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// ListBillsForRange returns every bill dated inside the range, oldest first
func (s *BillService) ListBillsForRange(ctx context.Context, start, end *time.Time) ([]entity.Bill, error) {
	var from, to *time.Time
	if start != nil {
		d := dateOnly(*start)
		from = &d
	}
	if end != nil {
		d := endOfDay(*end)
		to = &d
	}
	return s.billRepo.ListForRange(ctx, from, to)
}

// PreviewTotals prices rows as they are typed, without filtering or storing them
func (s *BillService) PreviewTotals(items []BillItemInput, payments []PaymentInput) *TotalsPreview {
	priced := toItems(items)
	for i := range priced {
		priced[i].TotalPrice = billing.LineTotal(priced[i])
	}

	paid := make([]entity.Payment, 0, len(payments))
	for _, p := range payments {
		paid = append(paid, entity.Payment{Amount: p.Amount})
	}

	return &TotalsPreview{
		Items:  priced,
		Totals: billing.Compute(priced, paid),
	}
}
