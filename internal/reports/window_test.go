package reports

import (
	"testing"
	"time"
)

func TestResolveWindowPeriods(t *testing.T) {
	cases := []struct {
		period        string
		expectedStart time.Time
	}{
		{period: "week", expectedStart: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{period: "month", expectedStart: time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{period: "quarter", expectedStart: time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{period: "year", expectedStart: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{period: "unknown-defaults-to-month", expectedStart: time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			w := ResolveWindow(tc.period, testNow, nil, nil)
			if !w.Start.Equal(tc.expectedStart) {
				t.Fatalf("expected start %v, got %v", tc.expectedStart, w.Start)
			}
			if !w.End.Equal(testNow) {
				t.Fatalf("expected end %v, got %v", testNow, w.End)
			}
		})
	}
}

func TestResolveWindowCustomDefaults(t *testing.T) {
	w := ResolveWindow("custom", testNow, nil, nil)
	if !w.Start.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("expected epoch start, got %v", w.Start)
	}
	if !w.End.Equal(testNow) {
		t.Fatalf("expected now end, got %v", w.End)
	}
}

func TestResolveWindowInvertedCustomIsEmpty(t *testing.T) {
	start := testNow
	end := testNow.AddDate(0, 0, -3)
	w := ResolveWindow("custom", testNow, &start, &end)
	if !w.Empty() {
		t.Fatalf("expected inverted range to collapse to empty window")
	}
	if len(BuildBuckets(w)) != 0 {
		t.Fatalf("expected no buckets for empty window")
	}
}

func TestWindowEndExclusive(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)
	if w.Contains(w.End) {
		t.Fatalf("end instant must be excluded")
	}
	if !w.Contains(w.Start) {
		t.Fatalf("start instant must be included")
	}
}

func TestPreviousWindow(t *testing.T) {
	w := ResolveWindow("week", testNow, nil, nil)
	prev := PreviousWindow(w)
	if !prev.End.Equal(w.Start) {
		t.Fatalf("previous window must end where current starts")
	}
	if prev.Duration() != w.Duration() {
		t.Fatalf("previous window must have equal length")
	}
}
