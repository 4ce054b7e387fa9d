package reports

import (
	"strings"
	"time"
)

// Filter narrows the record set a report (and its exports) is computed over.
type Filter struct {
	Category Category `json:"category,omitempty"`
	Status   Status   `json:"status,omitempty"`
}

func (f Filter) Apply(records []ServiceRecord) []ServiceRecord {
	if f.Category == "" && f.Status == "" {
		return records
	}
	out := make([]ServiceRecord, 0, len(records))
	for _, record := range records {
		if f.Category != "" && record.Category != f.Category {
			continue
		}
		if f.Status != "" && record.Status != f.Status {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Describe renders the active filters for export headers.
func (f Filter) Describe() string {
	parts := make([]string, 0, 2)
	if f.Category != "" {
		parts = append(parts, "Category: "+f.Category.Display())
	}
	if f.Status != "" {
		parts = append(parts, "Status: "+DescribeStatus(f.Status))
	}
	if len(parts) == 0 {
		return "All records"
	}
	return strings.Join(parts, ", ")
}

// Summary is the scalar metrics block of a report.
type Summary struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalServices      int     `json:"totalServices"`
	CompletedServices  int     `json:"completedServices"`
	CancelledServices  int     `json:"cancelledServices"`
	PendingServices    int     `json:"pendingServices"`
	AvgRating          float64 `json:"avgRating"`
	AvgCompletionHours float64 `json:"avgCompletionHours"`
	MonthlyGrowth      float64 `json:"monthlyGrowth"`
	PopularService     string  `json:"popularService"`
}

// Report is the assembled, chart-ready payload for one window plus the exact
// in-window record set it was computed from. Records back the CSV/PDF exports
// and are not serialized with the payload.
type Report struct {
	Window           Window          `json:"window"`
	Summary          Summary         `json:"summary"`
	RevenueTrend     AggregateResult `json:"revenueTrend"`
	BookingTrend     AggregateResult `json:"bookingTrend"`
	RevenueByType    AggregateResult `json:"revenueByType"`
	CountByType      AggregateResult `json:"countByType"`
	CategoryMix      AggregateResult `json:"categoryMix"`
	Ratings          RatingBreakdown `json:"ratings"`
	DurationTrend    AggregateResult `json:"durationTrend"`
	DurationExcluded int             `json:"durationExcluded,omitempty"`
	TopServices      []RankedEntry   `json:"topServices"`
	TopProviders     []RankedEntry   `json:"topProviders"`
	TopCustomers     []RankedEntry   `json:"topCustomers"`
	GeneratedAt      time.Time       `json:"generatedAt"`

	Records []ServiceRecord `json:"-"`
}

// How many entries the revenue breakdown and top-N lists keep.
const (
	revenueBreakdownLimit = 3
	topListLimit          = 5
)

// BuildReport runs every aggregator over one filtered record set and merges
// the results. Every scalar and breakdown is computed over the records whose
// activity falls inside the window; history outside [start, end) never leaks
// into counts, ratings or rankings. previous is the preceding equal-length
// period's record set and only feeds the growth rate; pass nil when no
// comparison is wanted.
func BuildReport(records []ServiceRecord, previous []ServiceRecord, w Window, now time.Time) Report {
	buckets := BuildBuckets(w)
	previousWindow := PreviousWindow(w)

	windowed := make([]ServiceRecord, 0, len(records))
	for _, record := range records {
		if w.Contains(record.ActivityDate()) {
			windowed = append(windowed, record)
		}
	}

	report := Report{
		Window:        w,
		RevenueTrend:  RevenueByBucket(windowed, buckets, w),
		BookingTrend:  CreatedTrend(windowed, buckets),
		RevenueByType: RevenueByType(windowed, w, revenueBreakdownLimit, false),
		CountByType:   CountByType(windowed, 0, false),
		CategoryMix:   CountByCategory(windowed),
		Ratings:       RatingDistribution(windowed),
		TopServices:   TopN(windowed, topListLimit, ServiceTypeKey, RevenueMetric),
		TopProviders:  TopN(windowed, topListLimit, ProviderKey, RevenueMetric),
		TopCustomers:  TopN(windowed, topListLimit, CustomerKey, CountMetric),
		GeneratedAt:   now,
		Records:       windowed,
	}
	report.DurationTrend, report.DurationExcluded = DurationByBucket(windowed, buckets)

	summary := Summary{
		TotalRevenue:  round2(TotalRevenue(windowed, w)),
		TotalServices: len(windowed),
		AvgRating:     round1(report.Ratings.Average),
		MonthlyGrowth: round1(GrowthRate(TotalRevenue(records, w), TotalRevenue(previous, previousWindow))),
	}
	for _, record := range windowed {
		switch record.Status {
		case StatusCompleted:
			summary.CompletedServices++
		case StatusCancelled:
			summary.CancelledServices++
		default:
			summary.PendingServices++
		}
	}
	avgHours, _ := AverageDuration(windowed)
	summary.AvgCompletionHours = round1(avgHours)
	if len(report.CountByType.Labels) > 0 {
		summary.PopularService = report.CountByType.Labels[0]
	}
	report.Summary = summary

	return report
}
