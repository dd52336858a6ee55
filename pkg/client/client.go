// Package client talks to the billing API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/pagination"
)

// CustomerSearchLimit is the page size used by customer lookups while typing
const CustomerSearchLimit = 50

const defaultTimeout = 15 * time.Second

// Client is a billing API client. The zero value is not usable; use New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientID sets the X-Client-ID header sent with every request
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FieldError is a single field failure reported by the API
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

// CustomerInput is the body for creating a customer
type CustomerInput struct {
	Name    string   `json:"name"`
	Phone   []string `json:"phone,omitempty"`
	Address string   `json:"address,omitempty"`
}

// ItemInput is one item row sent with a bill
type ItemInput struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	WeightGrams  float64 `json:"weight_grams"`
	RatePer10g   float64 `json:"rate_per_10g"`
	MakingCharge float64 `json:"making_charge"`
	Discount     float64 `json:"discount"`
}

// PaymentInput is one payment row sent with a bill
type PaymentInput struct {
	ID          string     `json:"id,omitempty"`
	Amount      float64    `json:"amount"`
	Mode        string     `json:"mode"`
	Date        *time.Time `json:"date,omitempty"`
	ReferenceID string     `json:"reference_id,omitempty"`
}

// BillInput is the body for creating or updating a bill
type BillInput struct {
	CustomerID  string         `json:"customer_id"`
	BillDate    *time.Time     `json:"bill_date,omitempty"`
	Items       []ItemInput    `json:"items"`
	Payments    []PaymentInput `json:"payments"`
	TotalAmount *float64       `json:"total_amount,omitempty"`
	TotalPaid   *float64       `json:"total_paid,omitempty"`
	BalanceDue  *float64       `json:"balance_due,omitempty"`
}

// BillQuery filters a bill search
type BillQuery struct {
	Page       int        `json:"page,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Search     string     `json:"search,omitempty"`
	BillID     string     `json:"billId,omitempty"`
	CustomerID string     `json:"customerId,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// SearchCustomers returns the first page of customers matching term
func (c *Client) SearchCustomers(ctx context.Context, term string) ([]entity.Customer, error) {
	q := url.Values{}
	q.Set("query", term)
	q.Set("limit", strconv.Itoa(CustomerSearchLimit))

	var page pagination.PaginatedResult[entity.Customer]
	if err := c.do(ctx, http.MethodGet, "/customers?"+q.Encode(), nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CreateCustomer adds a customer
func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", in, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateBill saves a new bill. A non-empty idempotencyKey makes retries safe.
func (c *Client) CreateBill(ctx context.Context, in BillInput, idempotencyKey string) (*entity.Bill, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	var bill entity.Bill
	if err := c.do(ctx, http.MethodPost, "/bills", in, headers, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// UpdateBill replaces the rows of an existing bill
func (c *Client) UpdateBill(ctx context.Context, id string, in BillInput) (*entity.Bill, error) {
	var bill entity.Bill
	if err := c.do(ctx, http.MethodPatch, "/bills/"+url.PathEscape(id), in, nil, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// GetBill loads one bill
func (c *Client) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	var bill entity.Bill
	if err := c.do(ctx, http.MethodGet, "/bills/"+url.PathEscape(id), nil, nil, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// SearchBills returns a page of bills
func (c *Client) SearchBills(ctx context.Context, q BillQuery) (*pagination.PaginatedResult[entity.Bill], error) {
	var page pagination.PaginatedResult[entity.Bill]
	if err := c.do(ctx, http.MethodPost, "/bills/getBills", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Fields: env.Errors}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
