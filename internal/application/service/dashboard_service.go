package service

import (
	"context"
	"time"

	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	chartMonths        = 6
	topDebtorsLimit    = 5
	defaultSummaryDays = 7
	maxSummaryDays     = 90
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	customerRepo  repository.CustomerRepository
	billRepo      repository.BillRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customerRepo repository.CustomerRepository,
	billRepo repository.BillRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardService {
	return &DashboardService{
		customerRepo:  customerRepo,
		billRepo:      billRepo,
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers int64                        `json:"total_customers"`
	TotalBills     int64                        `json:"total_bills"`
	TotalBilled    float64                      `json:"total_billed"`
	TotalRevenue   float64                      `json:"total_revenue"`
	UnpaidDues     float64                      `json:"unpaid_dues"`
	MonthlyData    []MonthlyRevenuePoint        `json:"monthly_data"`
	TopDebtors     []repository.TopDebtorResult `json:"top_debtors"`
}

// MonthlyRevenuePoint is one bar of the monthly chart
type MonthlyRevenuePoint struct {
	Month     string  `json:"month"`
	Billed    float64 `json:"billed"`
	Collected float64 `json:"collected"`
}

// BillSummary is the pre-aggregated dashboard payload
type BillSummary struct {
	TotalCustomers int64             `json:"total_customers"`
	TotalBills     int64             `json:"total_bills"`
	TotalPaid      float64           `json:"total_paid"`
	TotalDues      float64           `json:"total_dues"`
	DailyRevenue   []DailySalesPoint `json:"daily_revenue"`
}

// DailySalesPoint represents a daily revenue data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

func round2(v float64) float64 {
	return billing.Round2(decimal.NewFromFloat(v)).InexactFloat64()
}

// GetDashboardStats returns counts, revenue, dues and a trailing six month chart.
// Revenue is what was paid; dues are what remains.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	totals, err := s.analyticsRepo.GetBillTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalBills = totals.BillCount
	stats.TotalBilled = round2(totals.Billed)
	stats.TotalRevenue = round2(totals.Paid)
	stats.UnpaidDues = round2(totals.Due)

	now := s.now()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(chartMonths - 1), 0)
	bills, err := s.billRepo.ListForRange(ctx, &firstMonth, nil)
	if err != nil {
		return nil, err
	}

	billed := make(map[string]decimal.Decimal, chartMonths)
	collected := make(map[string]decimal.Decimal, chartMonths)
	monthKey := func(t time.Time) string { return t.Format("2006-01") }

	for _, bill := range bills {
		k := monthKey(bill.BillDate)
		billed[k] = billed[k].Add(decimal.NewFromFloat(bill.TotalAmount))
		for _, p := range bill.Payments {
			paidOn := p.Date
			if paidOn.IsZero() {
				paidOn = bill.BillDate
			}
			pk := monthKey(paidOn)
			collected[pk] = collected[pk].Add(decimal.NewFromFloat(p.Amount))
		}
	}

	stats.MonthlyData = make([]MonthlyRevenuePoint, 0, chartMonths)
	for i := 0; i < chartMonths; i++ {
		month := firstMonth.AddDate(0, i, 0)
		k := monthKey(month)
		stats.MonthlyData = append(stats.MonthlyData, MonthlyRevenuePoint{
			Month:     month.Format("Jan 06"),
			Billed:    billing.Round2(billed[k]).InexactFloat64(),
			Collected: billing.Round2(collected[k]).InexactFloat64(),
		})
	}

	debtors, err := s.analyticsRepo.GetTopDebtors(ctx, topDebtorsLimit)
	if err != nil {
		return nil, err
	}
	if debtors == nil {
		debtors = []repository.TopDebtorResult{}
	}
	stats.TopDebtors = debtors

	return stats, nil
}

// GetSummary returns totals and a daily revenue series over the trailing days.
// A payment counts on its own date, or on the bill date when it has none.
func (s *DashboardService) GetSummary(ctx context.Context, days int) (*BillSummary, error) {
	if days < 1 {
		days = defaultSummaryDays
	}
	if days > maxSummaryDays {
		days = maxSummaryDays
	}

	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.analyticsRepo.GetBillTotals(ctx)
	if err != nil {
		return nil, err
	}

	summary := &BillSummary{
		TotalCustomers: customerCount,
		TotalBills:     totals.BillCount,
		TotalPaid:      round2(totals.Paid),
		TotalDues:      round2(totals.Due),
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(days - 1))

	// Payments can be dated after their bill, so every bill is scanned.
	bills, err := s.billRepo.ListForRange(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]decimal.Decimal, days)
	for _, bill := range bills {
		for _, p := range bill.Payments {
			paidOn := p.Date
			if paidOn.IsZero() {
				paidOn = bill.BillDate
			}
			k := paidOn.Format("2006-01-02")
			revenue[k] = revenue[k].Add(decimal.NewFromFloat(p.Amount))
		}
	}

	summary.DailyRevenue = make([]DailySalesPoint, 0, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		summary.DailyRevenue = append(summary.DailyRevenue, DailySalesPoint{
			Date:    date.Format("2006-01-02"),
			Revenue: billing.Round2(revenue[date.Format("2006-01-02")]).InexactFloat64(),
		})
	}

	return summary, nil
}
