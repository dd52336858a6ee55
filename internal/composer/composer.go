// Package composer drives the bill form: customer lookup, item and payment
// rows, live totals and the final create-or-update call.
package composer

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/internal/domain/enum"
	"github.com/sangkips/alankar-api/pkg/client"
	"github.com/sangkips/alankar-api/pkg/latest"
)

// Timings of the transient feedback shown after a submit
const (
	NoticeDuration = 1500 * time.Millisecond
	RedirectDelay  = 1200 * time.Millisecond
)

// Messages shown to the user
const (
	MsgSelectCustomer = "Please select a customer."
	MsgBillAdded      = "Bill added successfully!"
	MsgBillAddFailed  = "Error adding bill. Please try again."
	MsgBillUpdated    = "Bill updated successfully!"
	MsgBillUpdateFail = "Error updating bill. Please try again."
)

var (
	// ErrNoCustomer is returned by Submit when no customer has been selected
	ErrNoCustomer = errors.New("composer: no customer selected")
	// ErrUnknownRow is returned when a row id does not exist
	ErrUnknownRow = errors.New("composer: unknown row")
	// ErrSubmitted is returned when the form is changed after a successful submit
	ErrSubmitted = errors.New("composer: bill already submitted")
)

// Backend is what the composer needs from the billing API. *client.Client satisfies it.
type Backend interface {
	SearchCustomers(ctx context.Context, term string) ([]entity.Customer, error)
	CreateCustomer(ctx context.Context, in client.CustomerInput) (*entity.Customer, error)
	CreateBill(ctx context.Context, in client.BillInput, idempotencyKey string) (*entity.Bill, error)
	UpdateBill(ctx context.Context, id string, in client.BillInput) (*entity.Bill, error)
}

var _ Backend = (*client.Client)(nil)

// State is the lifecycle position of the form
type State int

const (
	StateNew State = iota
	StateEditing
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateEditing:
		return "editing"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// NoticeKind tells success and error notices apart
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message that disappears at Expires
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time
}

// ItemField names an editable item column
type ItemField int

const (
	ItemName ItemField = iota
	ItemWeight
	ItemRate
	ItemMaking
	ItemDiscount
)

// PaymentField names an editable payment column
type PaymentField int

const (
	PaymentAmount PaymentField = iota
	PaymentMode
	PaymentDate
	PaymentReference
)

// Option configures a Composer
type Option func(*Composer)

// WithSearchDelay sets the quiet period of the customer search
func WithSearchDelay(d time.Duration) Option {
	return func(c *Composer) { c.searchDelay = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// Composer holds one bill form. It is safe for concurrent use; the debounced
// search completes on its own goroutine.
type Composer struct {
	mu sync.Mutex

	backend     Backend
	now         func() time.Time
	searchDelay time.Duration
	debouncer   *latest.Debouncer
	searches    latest.Sequencer

	state          State
	billID         string
	idempotencyKey string
	customer       *entity.Customer
	billDate       time.Time
	items          []entity.BillItem
	payments       []entity.Payment

	searchTerm string
	results    []entity.Customer

	notice     *Notice
	redirectAt time.Time
}

// New opens an empty form with one blank item row and one blank payment row
func New(backend Backend, opts ...Option) *Composer {
	c := &Composer{
		backend:        backend,
		now:            time.Now,
		idempotencyKey: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debouncer = latest.NewDebouncer(c.searchDelay)
	c.billDate = dateOnly(c.now())
	c.items = []entity.BillItem{blankItem()}
	c.payments = []entity.Payment{c.blankPayment()}
	return c
}

// Edit opens the form pre-populated from an existing bill
func Edit(backend Backend, bill *entity.Bill, opts ...Option) *Composer {
	c := New(backend, opts...)
	c.state = StateEditing
	c.billID = bill.ID
	c.customer = bill.Customer
	if c.customer == nil {
		c.customer = &entity.Customer{ID: bill.CustomerID}
	}
	if !bill.BillDate.IsZero() {
		c.billDate = dateOnly(bill.BillDate)
	}

	c.items = make([]entity.BillItem, 0, len(bill.Items))
	for _, it := range bill.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		c.items = append(c.items, it)
	}
	c.payments = make([]entity.Payment, 0, len(bill.Payments))
	for _, p := range bill.Payments {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		c.payments = append(c.payments, p)
	}
	return c
}

// Close stops any pending search
func (c *Composer) Close() {
	c.debouncer.Stop()
	c.searches.Invalidate()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func blankItem() entity.BillItem {
	return entity.BillItem{ID: uuid.NewString(), MakingChargeType: enum.MakingChargeFixed}
}

func (c *Composer) blankPayment() entity.Payment {
	return entity.Payment{ID: uuid.NewString(), Mode: enum.PaymentModeCash, Date: dateOnly(c.now())}
}

// number parses user input, treating anything unparsable or non-finite as zero
func number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// State returns where the form is in its lifecycle
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BillID returns the identity of the bill, empty until one is known
func (c *Composer) BillID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.billID
}

// Customer returns the selected customer or nil
func (c *Composer) Customer() *entity.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customer
}

// SelectCustomer locks the customer field to cu
func (c *Composer) SelectCustomer(cu entity.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = &cu
}

// ClearCustomer unlocks the customer field
func (c *Composer) ClearCustomer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = nil
}

// SetBillDate changes the bill date
func (c *Composer) SetBillDate(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.billDate = dateOnly(t)
}

// Items returns a copy of the item rows in order
func (c *Composer) Items() []entity.BillItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.BillItem(nil), c.items...)
}

// Payments returns a copy of the payment rows in order
func (c *Composer) Payments() []entity.Payment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Payment(nil), c.payments...)
}

// AddItem appends a blank item row and returns its id
func (c *Composer) AddItem() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitted {
		return "", ErrSubmitted
	}
	item := blankItem()
	c.items = append(c.items, item)
	return item.ID, nil
}

// SetItemField writes raw input into one column of an item row
func (c *Composer) SetItemField(id string, field ItemField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitted {
		return ErrSubmitted
	}
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		item := &c.items[i]
		switch field {
		case ItemName:
			item.Name = value
		case ItemWeight:
			item.WeightGrams = number(value)
		case ItemRate:
			item.RatePer10g = number(value)
		case ItemMaking:
			item.MakingCharge = number(value)
		case ItemDiscount:
			item.Discount = number(value)
		}
		return nil
	}
	return ErrUnknownRow
}

// RemoveItem deletes an item row by id
func (c *Composer) RemoveItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitted {
		return ErrSubmitted
	}

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrUnknownRow
}

// AddPayment appends a blank cash payment dated today and returns its id
func (c *Composer) AddPayment() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitted {
		return "", ErrSubmitted
	}
	p := c.blankPayment()
	c.payments = append(c.payments, p)
	return p.ID, nil
}

// SetPaymentField writes raw input into one column of a payment row. An
// unknown mode falls back to cash and cash payments carry no reference.
func (c *Composer) SetPaymentField(id string, field PaymentField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitted {
		return ErrSubmitted
	}
	for i := range c.payments {
		if c.payments[i].ID != id {
			continue
		}
		p := &c.payments[i]
		switch field {
		case PaymentAmount:
			p.Amount = number(value)
		case PaymentMode:
			mode, err := enum.ParsePaymentMode(value)
			if err != nil {
				mode = enum.PaymentModeCash
			}
			p.Mode = mode
			if !mode.RequiresReference() {
				p.ReferenceID = ""
			}
		case PaymentDate:
			if t, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err == nil {
				p.Date = t
			}
		case PaymentReference:
			if p.Mode.RequiresReference() {
				p.ReferenceID = value
			}
		}
		return nil
	}
	return ErrUnknownRow
}

// ReferenceEditable reports whether the reference input of a payment is enabled
func (c *Composer) ReferenceEditable(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.payments {
		if p.ID == id {
			return p.Mode.RequiresReference()
		}
	}
	return false
}

// RemovePayment deletes a payment row by id
func (c *Composer) RemovePayment(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitted {
		return ErrSubmitted
	}

	for i := range c.payments {
		if c.payments[i].ID == id {
			c.payments = append(c.payments[:i], c.payments[i+1:]...)
			return nil
		}
	}
	return ErrUnknownRow
}

// Totals prices every row as currently typed, for live display
func (c *Composer) Totals() billing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return billing.Compute(c.items, c.payments)
}

// LineTotal prices one item row as currently typed
func (c *Composer) LineTotal(id string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return billing.LineTotal(it), nil
		}
	}
	return 0, ErrUnknownRow
}
