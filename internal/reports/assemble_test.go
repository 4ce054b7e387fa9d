package reports

import (
	"testing"
	"time"
)

func TestBuildReportEmptyWeek(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)
	report := BuildReport(nil, nil, w, testNow)

	if len(report.RevenueTrend.Labels) != 7 || len(report.RevenueTrend.Values) != 7 {
		t.Fatalf("expected full 7-day axis with no records, got %d labels", len(report.RevenueTrend.Labels))
	}
	for _, value := range report.RevenueTrend.Values {
		if value != 0 {
			t.Fatalf("expected zero trend values, got %v", report.RevenueTrend.Values)
		}
	}
	if report.Summary.TotalRevenue != 0 || report.Summary.TotalServices != 0 {
		t.Fatalf("expected zero summary, got %+v", report.Summary)
	}
	if report.Summary.AvgRating != 0 || report.Summary.MonthlyGrowth != 0 {
		t.Fatalf("expected zero rating and growth, got %+v", report.Summary)
	}
	if report.Summary.PopularService != "" {
		t.Fatalf("expected no popular service with no records, got %q", report.Summary.PopularService)
	}
	if !report.GeneratedAt.Equal(testNow) {
		t.Fatalf("expected generatedAt %v, got %v", testNow, report.GeneratedAt)
	}
}

func TestBuildReportSummary(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	records := []ServiceRecord{
		completedRecord("Oil Change", 10, testNow.AddDate(0, 0, -2)),
		completedRecord("Oil Change", 20, testNow.AddDate(0, 0, -5)),
		completedRecord("Brake", 30, testNow.AddDate(0, 0, -8)),
		{ServiceType: "Detail", Status: StatusCancelled, Cost: 40, CreatedAt: testNow.AddDate(0, 0, -1)},
		{ServiceType: "Detail", Status: StatusPending, Cost: 50, CreatedAt: testNow.AddDate(0, 0, -1)},
	}

	report := BuildReport(records, nil, w, testNow)

	if report.Summary.TotalRevenue != 60 {
		t.Fatalf("expected total revenue 60, got %f", report.Summary.TotalRevenue)
	}
	if report.Summary.TotalServices != 5 {
		t.Fatalf("expected 5 services, got %d", report.Summary.TotalServices)
	}
	if report.Summary.CompletedServices != 3 || report.Summary.CancelledServices != 1 || report.Summary.PendingServices != 1 {
		t.Fatalf("unexpected status split %+v", report.Summary)
	}
	if report.Summary.PopularService != "Oil Change" {
		t.Fatalf("expected Oil Change most requested, got %q", report.Summary.PopularService)
	}
	// No previous records: any current revenue reads as 100% growth.
	if report.Summary.MonthlyGrowth != 100 {
		t.Fatalf("expected 100 growth against empty previous period, got %f", report.Summary.MonthlyGrowth)
	}
}

func TestBuildReportExcludesOutOfWindowRecords(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)

	recent := completedRecord("Oil Change", 100, testNow.Add(-24*time.Hour))
	recent.Rating, recent.HasRating = 5, true
	stale := completedRecord("Brake", 900, testNow.AddDate(-1, 0, 0))
	stale.Rating, stale.HasRating = 1, true

	report := BuildReport([]ServiceRecord{recent, stale}, nil, w, testNow)

	if report.Summary.TotalServices != 1 {
		t.Fatalf("expected 1 in-window service, got %d", report.Summary.TotalServices)
	}
	if report.Summary.TotalRevenue != 100 {
		t.Fatalf("expected revenue 100, got %f", report.Summary.TotalRevenue)
	}
	if report.Summary.AvgRating != 5 {
		t.Fatalf("expected rating 5 from the in-window record alone, got %f", report.Summary.AvgRating)
	}
	if report.Summary.PopularService != "Oil Change" {
		t.Fatalf("expected Oil Change, got %q", report.Summary.PopularService)
	}
	if len(report.TopServices) != 1 || report.TopServices[0].Key != "Oil Change" {
		t.Fatalf("expected only the in-window service ranked, got %+v", report.TopServices)
	}
	if len(report.Records) != 1 {
		t.Fatalf("expected 1 export-backing record, got %d", len(report.Records))
	}
}

func TestBuildReportGrowthAgainstPrevious(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	prev := PreviousWindow(w)

	current := []ServiceRecord{completedRecord("Oil Change", 150, testNow.AddDate(0, 0, -2))}
	previous := []ServiceRecord{completedRecord("Oil Change", 100, prev.Start.Add(48*time.Hour))}

	report := BuildReport(current, previous, w, testNow)
	if report.Summary.MonthlyGrowth != 50 {
		t.Fatalf("expected 50 growth, got %f", report.Summary.MonthlyGrowth)
	}
}

func TestBuildReportTopListsCapped(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	records := make([]ServiceRecord, 0, 8)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		record := completedRecord("Svc "+name, 10, testNow.AddDate(0, 0, -3))
		record.ProviderName = "Provider " + name
		record.CustomerName = "Customer " + name
		records = append(records, record)
	}

	report := BuildReport(records, nil, w, testNow)
	if len(report.TopServices) != 5 || len(report.TopProviders) != 5 || len(report.TopCustomers) != 5 {
		t.Fatalf("expected top lists capped at 5, got %d/%d/%d",
			len(report.TopServices), len(report.TopProviders), len(report.TopCustomers))
	}
	if len(report.RevenueByType.Labels) != 3 {
		t.Fatalf("expected revenue breakdown capped at 3, got %d", len(report.RevenueByType.Labels))
	}
}

func TestFilterApply(t *testing.T) {
	records := []ServiceRecord{
		{Category: CategoryServiceCenter, Status: StatusCompleted},
		{Category: CategoryServiceCenter, Status: StatusPending},
		{Category: CategoryTechnicianVisit, Status: StatusCompleted},
	}

	if got := (Filter{}).Apply(records); len(got) != 3 {
		t.Fatalf("empty filter must pass everything, got %d", len(got))
	}
	if got := (Filter{Category: CategoryTechnicianVisit}).Apply(records); len(got) != 1 {
		t.Fatalf("expected 1 technician record, got %d", len(got))
	}
	got := Filter{Category: CategoryServiceCenter, Status: StatusCompleted}.Apply(records)
	if len(got) != 1 || got[0].Status != StatusCompleted {
		t.Fatalf("expected single completed center record, got %+v", got)
	}
}

func TestFilterDescribe(t *testing.T) {
	if got := (Filter{}).Describe(); got != "All records" {
		t.Fatalf("expected All records, got %q", got)
	}
	f := Filter{Category: CategoryServiceCenter, Status: StatusInProgress}
	if got := f.Describe(); got != "Category: Service Center, Status: In Progress" {
		t.Fatalf("unexpected description %q", got)
	}
}
