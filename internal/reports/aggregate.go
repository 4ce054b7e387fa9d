package reports

import (
	"math"
	"sort"
	"strconv"
)

// AggregateResult is the chart-ready shape every bucketed aggregator emits.
// Labels and Values are positionally aligned and always the same length.
type AggregateResult struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func zeroResult(labels []string) AggregateResult {
	return AggregateResult{Labels: labels, Values: make([]float64, len(labels))}
}

// completedInWindow is the single revenue predicate: completed work whose
// completion instant falls inside the window. RevenueByBucket, RevenueByType
// and TotalRevenue all share it, which is what makes them reconcile.
func completedInWindow(record ServiceRecord, w Window) bool {
	return record.Status == StatusCompleted &&
		record.CompletionDate != nil &&
		w.Contains(*record.CompletionDate)
}

// TotalRevenue sums the cost of completed records inside the window.
func TotalRevenue(records []ServiceRecord, w Window) float64 {
	total := 0.0
	for _, record := range records {
		if completedInWindow(record, w) {
			total += record.Cost
		}
	}
	return total
}

// RevenueByBucket distributes window revenue over the bucket sequence by
// completion date. Bucket ranges cover the window, so the values always sum
// to TotalRevenue for the same inputs.
func RevenueByBucket(records []ServiceRecord, buckets []Bucket, w Window) AggregateResult {
	result := zeroResult(Labels(buckets))
	for _, record := range records {
		if !completedInWindow(record, w) {
			continue
		}
		if i := AssignBucket(buckets, *record.CompletionDate); i >= 0 {
			result.Values[i] += record.Cost
		}
	}
	return result
}

// CreatedTrend counts records per bucket by creation date. Used for booking
// volume and user registration trends.
func CreatedTrend(records []ServiceRecord, buckets []Bucket) AggregateResult {
	result := zeroResult(Labels(buckets))
	for _, record := range records {
		if i := AssignBucket(buckets, record.CreatedAt); i >= 0 {
			result.Values[i]++
		}
	}
	return result
}

// RevenueByType groups completed in-window revenue by service type, sorted
// descending. limit > 0 caps the breakdown; the remainder is appended as an
// "Other" entry only when includeOther is set, otherwise it is simply
// dropped (documented lossy truncation for presentation).
func RevenueByType(records []ServiceRecord, w Window, limit int, includeOther bool) AggregateResult {
	totals := map[string]float64{}
	for _, record := range records {
		if completedInWindow(record, w) {
			totals[record.ServiceType] += record.Cost
		}
	}
	return capTotals(sortTotals(totals), limit, includeOther)
}

// CountByType groups record counts by service type, sorted descending.
func CountByType(records []ServiceRecord, limit int, includeOther bool) AggregateResult {
	totals := map[string]float64{}
	for _, record := range records {
		totals[record.ServiceType]++
	}
	return capTotals(sortTotals(totals), limit, includeOther)
}

// CountByCategory splits record counts by source collection.
func CountByCategory(records []ServiceRecord) AggregateResult {
	totals := map[string]float64{}
	for _, record := range records {
		totals[record.Category.Display()]++
	}
	return capTotals(sortTotals(totals), 0, false)
}

type keyedTotal struct {
	key   string
	value float64
}

func sortTotals(totals map[string]float64) []keyedTotal {
	out := make([]keyedTotal, 0, len(totals))
	for key, value := range totals {
		out = append(out, keyedTotal{key: key, value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].value != out[j].value {
			return out[i].value > out[j].value
		}
		return out[i].key < out[j].key
	})
	return out
}

func capTotals(totals []keyedTotal, limit int, includeOther bool) AggregateResult {
	result := AggregateResult{Labels: make([]string, 0, len(totals)), Values: make([]float64, 0, len(totals))}
	other := 0.0
	for i, total := range totals {
		if limit > 0 && i >= limit {
			other += total.value
			continue
		}
		result.Labels = append(result.Labels, total.key)
		result.Values = append(result.Values, total.value)
	}
	if includeOther && other > 0 {
		result.Labels = append(result.Labels, "Other")
		result.Values = append(result.Values, other)
	}
	return result
}

// RatingBreakdown carries the 1..5 star distribution as raw counts plus
// percentages. Percentages are rounded to one decimal and sum to 100 within
// rounding tolerance whenever TotalReviews > 0; with no reviews everything
// is zero, never NaN.
type RatingBreakdown struct {
	Labels       []string  `json:"labels"`
	Counts       []float64 `json:"counts"`
	Percentages  []float64 `json:"percentages"`
	TotalReviews int       `json:"totalReviews"`
	Average      float64   `json:"average"`
}

// RatingDistribution buckets record ratings into integer stars, rounding to
// the nearest star and clamping to [1, 5].
func RatingDistribution(records []ServiceRecord) RatingBreakdown {
	breakdown := RatingBreakdown{
		Labels:      make([]string, 5),
		Counts:      make([]float64, 5),
		Percentages: make([]float64, 5),
	}
	for i := range breakdown.Labels {
		breakdown.Labels[i] = strconv.Itoa(i + 1)
	}

	sum := 0.0
	for _, record := range records {
		if !record.HasRating {
			continue
		}
		star := int(math.Round(record.Rating))
		if star < 1 {
			star = 1
		}
		if star > 5 {
			star = 5
		}
		breakdown.Counts[star-1]++
		breakdown.TotalReviews++
		sum += record.Rating
	}

	if breakdown.TotalReviews == 0 {
		return breakdown
	}

	breakdown.Average = sum / float64(breakdown.TotalReviews)
	for i, count := range breakdown.Counts {
		breakdown.Percentages[i] = round1(count / float64(breakdown.TotalReviews) * 100)
	}
	return breakdown
}

// DurationByBucket averages completion duration in hours per bucket. Records
// whose start/completion pair yields a negative duration are excluded from
// the average entirely (their count is returned for diagnostics); buckets
// with no usable records report 0, never NaN.
func DurationByBucket(records []ServiceRecord, buckets []Bucket) (AggregateResult, int) {
	result := zeroResult(Labels(buckets))
	counts := make([]float64, len(buckets))
	excluded := 0

	for _, record := range records {
		hours, ok := completionHours(record)
		if !ok {
			continue
		}
		if hours < 0 {
			excluded++
			continue
		}
		if i := AssignBucket(buckets, *record.CompletionDate); i >= 0 {
			result.Values[i] += hours
			counts[i]++
		}
	}

	for i := range result.Values {
		if counts[i] > 0 {
			result.Values[i] = result.Values[i] / counts[i]
		}
	}
	return result, excluded
}

// AverageDuration is the window-wide scalar counterpart of DurationByBucket.
func AverageDuration(records []ServiceRecord) (float64, int) {
	sum := 0.0
	count := 0
	excluded := 0
	for _, record := range records {
		hours, ok := completionHours(record)
		if !ok {
			continue
		}
		if hours < 0 {
			excluded++
			continue
		}
		sum += hours
		count++
	}
	if count == 0 {
		return 0, excluded
	}
	return sum / float64(count), excluded
}

func completionHours(record ServiceRecord) (float64, bool) {
	if record.Status != StatusCompleted || record.StartDate == nil || record.CompletionDate == nil {
		return 0, false
	}
	return record.CompletionDate.Sub(*record.StartDate).Hours(), true
}

// GrowthRate is the period-over-period change in percent. Growth from a zero
// base is pinned at exactly 100 when anything was earned, and 0 when both
// periods are empty.
func GrowthRate(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
