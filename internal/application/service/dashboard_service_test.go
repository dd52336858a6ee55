package service

import (
	"context"
	"testing"
)

func TestDashboardStats(t *testing.T) {
	now := date(2024, 3, 15)
	f := newFixture(t, now)
	ctx := context.Background()
	asha := f.customer(t, "Asha")
	ravi := f.customer(t, "Ravi")
	f.customer(t, "No Bills")

	if _, err := f.bills.CreateBill(ctx, ringBill(asha, date(2024, 1, 10))); err != nil {
		t.Fatal(err)
	}
	late := ringBill(ravi, date(2024, 2, 20))
	paidInMarch := date(2024, 3, 14)
	late.Payments[0].Date = &paidInMarch
	if _, err := f.bills.CreateBill(ctx, late); err != nil {
		t.Fatal(err)
	}

	stats, err := f.dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalCustomers != 3 || stats.TotalBills != 2 {
		t.Errorf("got %d customers %d bills", stats.TotalCustomers, stats.TotalBills)
	}
	if stats.TotalBilled != 10200 || stats.TotalRevenue != 4000 || stats.UnpaidDues != 6200 {
		t.Errorf("got billed %.2f revenue %.2f dues %.2f", stats.TotalBilled, stats.TotalRevenue, stats.UnpaidDues)
	}

	if len(stats.MonthlyData) != 6 || stats.MonthlyData[0].Month != "Oct 23" || stats.MonthlyData[5].Month != "Mar 24" {
		t.Fatalf("unexpected months %+v", stats.MonthlyData)
	}
	jan, feb, mar := stats.MonthlyData[3], stats.MonthlyData[4], stats.MonthlyData[5]
	if jan.Billed != 5100 || jan.Collected != 2000 {
		t.Errorf("january: %+v", jan)
	}
	if feb.Billed != 5100 || feb.Collected != 0 {
		t.Errorf("february: %+v", feb)
	}
	if mar.Billed != 0 || mar.Collected != 2000 {
		t.Errorf("march: %+v", mar)
	}

	if len(stats.TopDebtors) != 2 || stats.TopDebtors[0].TotalDue != 3100 {
		t.Errorf("unexpected debtors %+v", stats.TopDebtors)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	f := newFixture(t, date(2024, 3, 15))
	stats, err := f.dashboard.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalBills != 0 || stats.TopDebtors == nil || len(stats.MonthlyData) != 6 {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestSummaryDailyRevenue(t *testing.T) {
	now := date(2024, 3, 15)
	f := newFixture(t, now)
	ctx := context.Background()
	asha := f.customer(t, "Asha")

	input := ringBill(asha, date(2024, 3, 1))
	first, second := date(2024, 3, 14), date(2024, 3, 15)
	input.Payments = []PaymentInput{
		{Amount: 1000, Date: &first},
		{Amount: 500, Date: &second},
		{Amount: 250, Date: &second},
	}
	if _, err := f.bills.CreateBill(ctx, input); err != nil {
		t.Fatal(err)
	}

	summary, err := f.dashboard.GetSummary(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.DailyRevenue) != 7 {
		t.Fatalf("default window should be 7 days, got %d", len(summary.DailyRevenue))
	}
	last := summary.DailyRevenue[6]
	if last.Date != "2024-03-15" || last.Revenue != 750 {
		t.Errorf("today: %+v", last)
	}
	if summary.DailyRevenue[5].Revenue != 1000 || summary.DailyRevenue[0].Revenue != 0 {
		t.Errorf("unexpected series %+v", summary.DailyRevenue)
	}
	if summary.TotalPaid != 1750 || summary.TotalDues != 3350 {
		t.Errorf("got paid %.2f dues %.2f", summary.TotalPaid, summary.TotalDues)
	}

	wide, _ := f.dashboard.GetSummary(ctx, 1000)
	if len(wide.DailyRevenue) != maxSummaryDays {
		t.Errorf("window should be capped at %d, got %d", maxSummaryDays, len(wide.DailyRevenue))
	}
}
