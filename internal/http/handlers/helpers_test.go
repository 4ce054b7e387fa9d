package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"autocare-report-services/internal/reports"
)

func TestParseReportQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/reports", nil)
	q, err := parseReportQuery(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Period != "month" {
		t.Fatalf("expected month default, got %q", q.Period)
	}
	if q.Start != nil || q.End != nil {
		t.Fatalf("expected no custom dates")
	}
	if q.Filter.Category != "" || q.Filter.Status != "" {
		t.Fatalf("expected empty filter, got %+v", q.Filter)
	}
	if q.Partial {
		t.Fatalf("expected partial off by default")
	}
}

func TestParseReportQueryFull(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/reports?period=custom&startDate=2026-01-01&endDate=2026-02-01&category=technician&status=completed&partial=true", nil)
	q, err := parseReportQuery(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Period != "custom" {
		t.Fatalf("expected custom period, got %q", q.Period)
	}
	expected := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if q.Start == nil || !q.Start.Equal(expected) {
		t.Fatalf("unexpected start %v", q.Start)
	}
	if q.Filter.Category != reports.CategoryTechnicianVisit {
		t.Fatalf("unexpected category %q", q.Filter.Category)
	}
	if q.Filter.Status != reports.StatusCompleted {
		t.Fatalf("unexpected status %q", q.Filter.Status)
	}
	if !q.Partial {
		t.Fatalf("expected partial on")
	}
}

func TestParseReportQueryRejectsBadValues(t *testing.T) {
	cases := []string{
		"/api/admin/reports?startDate=01-02-2026",
		"/api/admin/reports?category=plumbing",
		"/api/admin/reports?status=maybe",
	}
	for _, target := range cases {
		r := httptest.NewRequest("GET", target, nil)
		if _, err := parseReportQuery(r); err == nil {
			t.Fatalf("expected error for %s", target)
		}
	}
}

func TestCacheSegmentsDistinguishQueries(t *testing.T) {
	base := httptest.NewRequest("GET", "/api/admin/reports?period=week", nil)
	other := httptest.NewRequest("GET", "/api/admin/reports?period=week&status=completed", nil)

	qBase, _ := parseReportQuery(base)
	qOther, _ := parseReportQuery(other)

	baseKey := reportCacheKey("admin", qBase.cacheSegments()...)
	otherKey := reportCacheKey("admin", qOther.cacheSegments()...)
	if baseKey == otherKey {
		t.Fatalf("expected distinct cache keys, both %q", baseKey)
	}
}
