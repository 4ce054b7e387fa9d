package reports

import (
	"fmt"
	"sort"
	"time"
)

// Bucket is one labeled, contiguous slice of a window. The bucket sequence
// for a window always carries every expected label, with or without records,
// so chart consumers never see a shorter axis than the window implies.
type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Custom windows switch from day to month buckets past this span.
const customDayBucketLimit = 45 * 24 * time.Hour

// BuildBuckets partitions a window into its chart buckets:
// week → 7 day-of-week buckets in fixed Sun..Sat order,
// month → one bucket per calendar day, oldest first,
// quarter → "{Mon} W{n}" week-of-month buckets,
// year → 12 calendar month buckets, oldest first.
// Custom windows use day buckets for short spans and month buckets beyond.
func BuildBuckets(w Window) []Bucket {
	if w.Empty() {
		return []Bucket{}
	}

	switch w.Period {
	case PeriodWeek:
		return dayOfWeekBuckets(w)
	case PeriodQuarter:
		return weekOfMonthBuckets(w)
	case PeriodYear:
		return monthBuckets(w, "Jan")
	case PeriodCustom:
		if w.Duration() > customDayBucketLimit {
			return monthBuckets(w, "Jan 2006")
		}
		return dayBuckets(w, "Jan 2")
	default:
		return dayBuckets(w, "Jan 2")
	}
}

// AssignBucket returns the index of the bucket containing t, or -1 when t
// falls outside every bucket range.
func AssignBucket(buckets []Bucket, t time.Time) int {
	for i, bucket := range buckets {
		if bucket.Contains(t) {
			return i
		}
	}
	return -1
}

// Labels extracts the positional label axis from a bucket sequence.
func Labels(buckets []Bucket) []string {
	labels := make([]string, len(buckets))
	for i, bucket := range buckets {
		labels[i] = bucket.Label
	}
	return labels
}

func dayBuckets(w Window, layout string) []Bucket {
	buckets := make([]Bucket, 0, 32)
	for day := startOfDay(w.Start); day.Before(w.End); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{
			Label: day.Format(layout),
			Start: day,
			End:   day.AddDate(0, 0, 1),
		})
	}
	return buckets
}

// dayOfWeekBuckets always emits exactly 7 buckets, one per calendar day from
// the window start, ordered Sun..Sat regardless of which weekday the window
// starts on. Deriving the count from the window span instead would shrink the
// axis when the window end sits exactly on midnight.
func dayOfWeekBuckets(w Window) []Bucket {
	buckets := make([]Bucket, 0, 7)
	for i, day := 0, startOfDay(w.Start); i < 7; i, day = i+1, day.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{
			Label: day.Format("Mon"),
			Start: day,
			End:   day.AddDate(0, 0, 1),
		})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Start.Weekday() < buckets[j].Start.Weekday()
	})
	return buckets
}

func monthBuckets(w Window, layout string) []Bucket {
	buckets := make([]Bucket, 0, 12)
	for month := startOfMonth(w.Start); month.Before(w.End); month = month.AddDate(0, 1, 0) {
		buckets = append(buckets, Bucket{
			Label: month.Format(layout),
			Start: month,
			End:   month.AddDate(0, 1, 0),
		})
	}
	return buckets
}

// weekOfMonthBuckets groups the window's days into "{Mon} W{n}" slices where
// n counts weeks from the 1st of the month, offset by the weekday the month
// starts on. Consecutive days sharing a label merge into one bucket, so the
// sequence stays contiguous across month boundaries.
func weekOfMonthBuckets(w Window) []Bucket {
	buckets := make([]Bucket, 0, 16)
	for day := startOfDay(w.Start); day.Before(w.End); day = day.AddDate(0, 0, 1) {
		label := fmt.Sprintf("%s W%d", day.Format("Jan"), weekOfMonth(day))
		if n := len(buckets); n > 0 && buckets[n-1].Label == label {
			buckets[n-1].End = day.AddDate(0, 0, 1)
			continue
		}
		buckets = append(buckets, Bucket{
			Label: label,
			Start: day,
			End:   day.AddDate(0, 0, 1),
		})
	}
	return buckets
}

func weekOfMonth(day time.Time) int {
	firstWeekdayOffset := int(startOfMonth(day).Weekday())
	return (day.Day() + firstWeekdayOffset + 6) / 7
}
