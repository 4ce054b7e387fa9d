package reports

import (
	"math"
	"testing"
	"time"
)

func completedRecord(serviceType string, cost float64, completedAt time.Time) ServiceRecord {
	return ServiceRecord{
		Category:       CategoryServiceCenter,
		ServiceType:    serviceType,
		Status:         StatusCompleted,
		Cost:           cost,
		CreatedAt:      completedAt.Add(-24 * time.Hour),
		CompletionDate: &completedAt,
	}
}

func TestRevenueReconciliation(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	buckets := BuildBuckets(w)

	records := []ServiceRecord{
		completedRecord("Oil Change", 10, testNow.AddDate(0, 0, -2)),
		completedRecord("Oil Change", 20, testNow.AddDate(0, 0, -9)),
		completedRecord("Brake", 30, testNow.AddDate(0, 0, -20)),
		// Outside window: must not count anywhere.
		completedRecord("Brake", 99, testNow.AddDate(0, -2, 0)),
		// Pending work never counts toward revenue.
		{ServiceType: "Detail", Status: StatusPending, Cost: 50, CreatedAt: testNow.AddDate(0, 0, -1)},
	}

	total := TotalRevenue(records, w)
	if total != 60 {
		t.Fatalf("expected window total 60, got %f", total)
	}

	byBucket := RevenueByBucket(records, buckets, w)
	sum := 0.0
	for _, value := range byBucket.Values {
		sum += value
	}
	if sum != total {
		t.Fatalf("bucketed revenue %f does not reconcile with window total %f", sum, total)
	}

	byType := RevenueByType(records, w, 0, false)
	typeSum := 0.0
	for _, value := range byType.Values {
		typeSum += value
	}
	if typeSum != total {
		t.Fatalf("type revenue %f does not reconcile with window total %f", typeSum, total)
	}
}

func TestRevenueAndCountByType(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	records := []ServiceRecord{
		completedRecord("Oil Change", 10, testNow.AddDate(0, 0, -2)),
		completedRecord("Oil Change", 20, testNow.AddDate(0, 0, -5)),
		completedRecord("Brake", 30, testNow.AddDate(0, 0, -8)),
	}

	revenue := RevenueByType(records, w, 0, false)
	// Equal revenue ties break on key ascending.
	if revenue.Labels[0] != "Brake" || revenue.Values[0] != 30 {
		t.Fatalf("expected Brake 30 first, got %s %f", revenue.Labels[0], revenue.Values[0])
	}
	if revenue.Labels[1] != "Oil Change" || revenue.Values[1] != 30 {
		t.Fatalf("expected Oil Change 30 second, got %s %f", revenue.Labels[1], revenue.Values[1])
	}

	counts := CountByType(records, 0, false)
	if counts.Labels[0] != "Oil Change" || counts.Values[0] != 2 {
		t.Fatalf("expected Oil Change 2 first, got %s %f", counts.Labels[0], counts.Values[0])
	}
	if counts.Labels[1] != "Brake" || counts.Values[1] != 1 {
		t.Fatalf("expected Brake 1 second, got %s %f", counts.Labels[1], counts.Values[1])
	}
}

func TestRevenueByTypeTopCap(t *testing.T) {
	w := ResolveWindow("month", testNow, nil, nil)
	records := []ServiceRecord{
		completedRecord("A", 40, testNow.AddDate(0, 0, -1)),
		completedRecord("B", 30, testNow.AddDate(0, 0, -1)),
		completedRecord("C", 20, testNow.AddDate(0, 0, -1)),
		completedRecord("D", 10, testNow.AddDate(0, 0, -1)),
	}

	capped := RevenueByType(records, w, 3, false)
	if len(capped.Labels) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(capped.Labels))
	}

	withOther := RevenueByType(records, w, 3, true)
	if len(withOther.Labels) != 4 || withOther.Labels[3] != "Other" || withOther.Values[3] != 10 {
		t.Fatalf("expected Other 10 appended, got %v %v", withOther.Labels, withOther.Values)
	}
}

func TestRatingDistribution(t *testing.T) {
	records := []ServiceRecord{
		{Rating: 5, HasRating: true},
		{Rating: 4.6, HasRating: true}, // rounds to 5
		{Rating: 3, HasRating: true},
		{Rating: 0.2, HasRating: true}, // clamps to 1
		{Rating: 9, HasRating: true},   // clamps to 5
		{},                             // no rating: ignored
	}

	breakdown := RatingDistribution(records)
	if breakdown.TotalReviews != 5 {
		t.Fatalf("expected 5 reviews, got %d", breakdown.TotalReviews)
	}
	if breakdown.Counts[4] != 3 || breakdown.Counts[2] != 1 || breakdown.Counts[0] != 1 {
		t.Fatalf("unexpected star counts %v", breakdown.Counts)
	}

	sum := 0.0
	for _, pct := range breakdown.Percentages {
		sum += pct
	}
	if math.Abs(sum-100) > 1 {
		t.Fatalf("percentages sum %f outside 100 +/- 1", sum)
	}
}

func TestRatingDistributionEmpty(t *testing.T) {
	breakdown := RatingDistribution(nil)
	if breakdown.TotalReviews != 0 || breakdown.Average != 0 {
		t.Fatalf("expected zeroed breakdown")
	}
	for i := range breakdown.Percentages {
		if breakdown.Percentages[i] != 0 || breakdown.Counts[i] != 0 {
			t.Fatalf("expected all-zero distribution with no reviews")
		}
	}
	if len(breakdown.Labels) != 5 {
		t.Fatalf("expected 5 star labels even when empty")
	}
}

func TestDurationExcludesNegative(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)
	buckets := BuildBuckets(w)

	start := testNow.Add(-30 * time.Hour)
	goodEnd := start.Add(3 * time.Hour)
	badEnd := start.Add(-2 * time.Hour)

	records := []ServiceRecord{
		{Status: StatusCompleted, CreatedAt: start, StartDate: &start, CompletionDate: &goodEnd},
		{Status: StatusCompleted, CreatedAt: start, StartDate: &start, CompletionDate: &badEnd},
	}

	avg, excluded := AverageDuration(records)
	if avg != 3 {
		t.Fatalf("expected 3h average, got %f", avg)
	}
	if excluded != 1 {
		t.Fatalf("expected 1 excluded record, got %d", excluded)
	}

	trend, excluded := DurationByBucket(records, buckets)
	if excluded != 1 {
		t.Fatalf("expected 1 excluded record in trend, got %d", excluded)
	}
	found := false
	for _, value := range trend.Values {
		if value == 3 {
			found = true
		}
		if math.IsNaN(value) || value < 0 {
			t.Fatalf("invalid trend value %f", value)
		}
	}
	if !found {
		t.Fatalf("expected one bucket with 3h average, got %v", trend.Values)
	}
}

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name              string
		current, previous float64
		expected          float64
	}{
		{name: "both zero", current: 0, previous: 0, expected: 0},
		{name: "zero base", current: 50, previous: 0, expected: 100},
		{name: "half up", current: 150, previous: 100, expected: 50},
		{name: "decline", current: 50, previous: 100, expected: -50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GrowthRate(tc.current, tc.previous); got != tc.expected {
				t.Fatalf("expected %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestAggregatorsEmptyInput(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)
	buckets := BuildBuckets(w)

	revenue := RevenueByBucket(nil, buckets, w)
	if len(revenue.Labels) != 7 || len(revenue.Values) != 7 {
		t.Fatalf("expected full 7-bucket axis for empty input")
	}
	for _, value := range revenue.Values {
		if value != 0 {
			t.Fatalf("expected zero values, got %v", revenue.Values)
		}
	}

	if total := TotalRevenue(nil, w); total != 0 {
		t.Fatalf("expected zero total, got %f", total)
	}
	byType := RevenueByType(nil, w, 3, false)
	if len(byType.Labels) != 0 || len(byType.Values) != 0 {
		t.Fatalf("expected empty but well-formed breakdown")
	}
}
