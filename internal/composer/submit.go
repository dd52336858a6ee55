package composer

import (
	"context"
	"log"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/client"
)

// Submit validates the form and saves it. Without a customer it fails before
// any call is made and keeps every row. Incomplete items and empty payments are
// dropped from the request but stay on the form.
func (c *Composer) Submit(ctx context.Context) (*entity.Bill, error) {
	c.mu.Lock()
	if c.state == StateSubmitted {
		c.mu.Unlock()
		return nil, ErrSubmitted
	}
	if c.customer == nil {
		c.setNotice(NoticeError, MsgSelectCustomer)
		c.mu.Unlock()
		return nil, ErrNoCustomer
	}
	in := c.buildInput()
	billID, key := c.billID, c.idempotencyKey
	c.mu.Unlock()

	var (
		saved *entity.Bill
		err   error
	)
	if billID == "" {
		saved, err = c.backend.CreateBill(ctx, in, key)
	} else {
		saved, err = c.backend.UpdateBill(ctx, billID, in)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Printf("Saving bill %q failed: %v", billID, err)
		if billID == "" {
			c.setNotice(NoticeError, MsgBillAddFailed)
		} else {
			c.setNotice(NoticeError, MsgBillUpdateFail)
		}
		return nil, err
	}

	if billID == "" {
		c.setNotice(NoticeSuccess, MsgBillAdded)
	} else {
		c.setNotice(NoticeSuccess, MsgBillUpdated)
	}
	c.billID = saved.ID
	c.state = StateSubmitted
	c.redirectAt = c.now().Add(RedirectDelay)
	return saved, nil
}

// buildInput filters the rows and attaches the totals they add up to. c.mu must be held.
func (c *Composer) buildInput() client.BillInput {
	items := billing.CleanItems(c.items)
	payments := billing.CleanPayments(c.payments)
	totals := billing.Compute(items, payments)

	billDate := c.billDate
	in := client.BillInput{
		CustomerID:  c.customer.ID.String(),
		BillDate:    &billDate,
		Items:       make([]client.ItemInput, 0, len(items)),
		Payments:    make([]client.PaymentInput, 0, len(payments)),
		TotalAmount: &totals.TotalAmount,
		TotalPaid:   &totals.TotalPaid,
		BalanceDue:  &totals.BalanceDue,
	}
	for _, it := range items {
		in.Items = append(in.Items, client.ItemInput{
			ID:           it.ID,
			Name:         it.Name,
			WeightGrams:  it.WeightGrams,
			RatePer10g:   it.RatePer10g,
			MakingCharge: it.MakingCharge,
			Discount:     it.Discount,
		})
	}
	for _, p := range payments {
		date := p.Date
		in.Payments = append(in.Payments, client.PaymentInput{
			ID:          p.ID,
			Amount:      p.Amount,
			Mode:        p.Mode.String(),
			Date:        &date,
			ReferenceID: p.ReferenceID,
		})
	}
	return in
}

// setNotice replaces the current notice. c.mu must be held.
func (c *Composer) setNotice(kind NoticeKind, msg string) {
	c.notice = &Notice{Kind: kind, Message: msg, Expires: c.now().Add(NoticeDuration)}
}

// Notice returns the current notice, or nil once it has expired
func (c *Composer) Notice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil || !c.now().Before(c.notice.Expires) {
		return nil
	}
	n := *c.notice
	return &n
}

// DismissNotice hides the current notice early
func (c *Composer) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// ShouldRedirect reports whether the form has been saved and the redirect
// delay has passed
func (c *Composer) ShouldRedirect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSubmitted && !c.now().Before(c.redirectAt)
}

// RedirectIn returns how long remains before the redirect
func (c *Composer) RedirectIn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSubmitted {
		return 0
	}
	if d := c.redirectAt.Sub(c.now()); d > 0 {
		return d
	}
	return 0
}
