// Package billing prices bill lines and derives a bill's cached totals.
package billing

import (
	"strings"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Totals are the three cached amounts carried by every bill
type Totals struct {
	TotalAmount float64 `json:"total_amount"`
	TotalPaid   float64 `json:"total_paid"`
	BalanceDue  float64 `json:"balance_due"`
}

// Round2 rounds to the cent, halves going up: floor(x*100 + 0.5) / 100.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

func grossAmount(item entity.BillItem) decimal.Decimal {
	weight := decimal.NewFromFloat(item.WeightGrams)
	rate := decimal.NewFromFloat(item.RatePer10g)

	return weight.Mul(rate).Div(ten).Add(decimal.NewFromFloat(item.MakingCharge))
}

func lineAmount(item entity.BillItem) decimal.Decimal {
	return grossAmount(item).Sub(decimal.NewFromFloat(item.Discount))
}

// GrossPrice prices a single item before its discount
func GrossPrice(item entity.BillItem) float64 {
	return Round2(grossAmount(item)).InexactFloat64()
}

// LineTotal prices a single item: weight x rate / 10 + making charge - discount.
// The making charge is always taken as a fixed amount regardless of its type.
func LineTotal(item entity.BillItem) float64 {
	return Round2(lineAmount(item)).InexactFloat64()
}

// Compute derives the bill totals from its items and payments. Sums are taken
// before rounding; each output is rounded independently.
func Compute(items []entity.BillItem, payments []entity.Payment) Totals {
	amount := decimal.Zero
	for _, item := range items {
		amount = amount.Add(lineAmount(item))
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(decimal.NewFromFloat(p.Amount))
	}

	return Totals{
		TotalAmount: Round2(amount).InexactFloat64(),
		TotalPaid:   Round2(paid).InexactFloat64(),
		BalanceDue:  Round2(amount.Sub(paid)).InexactFloat64(),
	}
}

// IsComplete reports whether an item row is fit to be stored
func IsComplete(item entity.BillItem) bool {
	return strings.TrimSpace(item.Name) != "" && item.WeightGrams > 0 && item.RatePer10g > 0
}

// CleanItems drops incomplete rows, keeping the order of the rest
func CleanItems(items []entity.BillItem) []entity.BillItem {
	out := make([]entity.BillItem, 0, len(items))
	for _, item := range items {
		if IsComplete(item) {
			out = append(out, item)
		}
	}
	return out
}

// CleanPayments drops payments with a non-positive amount
func CleanPayments(payments []entity.Payment) []entity.Payment {
	out := make([]entity.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Amount > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Apply filters the bill's rows, prices every line and refreshes the cached totals.
func Apply(bill *entity.Bill) Totals {
	items := CleanItems(bill.Items)
	for i := range items {
		items[i].TotalPrice = LineTotal(items[i])
	}
	payments := CleanPayments(bill.Payments)

	totals := Compute(items, payments)
	bill.Items = items
	bill.Payments = payments
	bill.TotalAmount = totals.TotalAmount
	bill.TotalPaid = totals.TotalPaid
	bill.BalanceDue = totals.BalanceDue
	return totals
}

// Matches reports whether a bill's cached totals agree with its rows
func Matches(bill *entity.Bill) bool {
	t := Compute(bill.Items, bill.Payments)
	return t.TotalAmount == bill.TotalAmount &&
		t.TotalPaid == bill.TotalPaid &&
		t.BalanceDue == bill.BalanceDue
}

// PaidFromDue derives the paid amount as total minus balance due, the way
// the printed summary shows it.
func PaidFromDue(totalAmount, balanceDue float64) float64 {
	return Round2(decimal.NewFromFloat(totalAmount).Sub(decimal.NewFromFloat(balanceDue))).InexactFloat64()
}
