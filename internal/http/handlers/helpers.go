package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"autocare-report-services/internal/reports"

	"github.com/go-chi/chi/v5"
)

var errMissingParam = errors.New("missing param")

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := chi.URLParam(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

// reportQuery is the parsed, validated form of the report query string shared
// by every report and export endpoint.
type reportQuery struct {
	Period  string
	Start   *time.Time
	End     *time.Time
	Filter  reports.Filter
	Partial bool
}

func parseReportQuery(r *http.Request) (reportQuery, error) {
	q := r.URL.Query()

	out := reportQuery{
		Period:  strings.ToLower(strings.TrimSpace(q.Get("period"))),
		Partial: strings.EqualFold(strings.TrimSpace(q.Get("partial")), "true"),
	}
	if out.Period == "" {
		out.Period = "month"
	}

	var err error
	if out.Start, err = parseQueryDate(q.Get("startDate")); err != nil {
		return reportQuery{}, fmt.Errorf("startDate: %w", err)
	}
	if out.End, err = parseQueryDate(q.Get("endDate")); err != nil {
		return reportQuery{}, fmt.Errorf("endDate: %w", err)
	}

	if category := strings.TrimSpace(q.Get("category")); category != "" {
		parsed, ok := reports.ParseCategory(category)
		if !ok {
			return reportQuery{}, fmt.Errorf("category: unknown value %q", category)
		}
		out.Filter.Category = parsed
	}
	if status := strings.TrimSpace(q.Get("status")); status != "" {
		parsed, ok := reports.ParseStatusFilter(status)
		if !ok {
			return reportQuery{}, fmt.Errorf("status: unknown value %q", status)
		}
		out.Filter.Status = parsed
	}

	return out, nil
}

func parseQueryDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
}

// cacheSegments folds the query into cache key parts. Partial responses are
// never cached, so Partial is deliberately absent.
func (q reportQuery) cacheSegments() []string {
	segments := []string{q.Period}
	if q.Start != nil {
		segments = append(segments, q.Start.Format("2006-01-02"))
	} else {
		segments = append(segments, "")
	}
	if q.End != nil {
		segments = append(segments, q.End.Format("2006-01-02"))
	} else {
		segments = append(segments, "")
	}
	segments = append(segments, string(q.Filter.Category), string(q.Filter.Status))
	return segments
}
