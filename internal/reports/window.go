package reports

import (
	"strings"
	"time"
)

const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

// Window is the half-open [Start, End) span a report covers. End is exclusive
// everywhere so boundary instants are never double counted between adjacent
// periods.
type Window struct {
	Period string    `json:"period"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Empty() bool {
	return !w.End.After(w.Start)
}

func (w Window) Duration() time.Duration {
	if w.Empty() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// ResolveWindow turns a symbolic period into a concrete window ending at now.
// Trailing spans are aligned to calendar boundaries (day for week/month/
// quarter, month for year) so the bucket sequence for the window covers it
// exactly. For custom, a missing start defaults to the epoch, a missing end
// to now, and an inverted range collapses to a zero-length window rather
// than erroring.
func ResolveWindow(period string, now time.Time, customStart, customEnd *time.Time) Window {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodWeek:
		return Window{Period: PeriodWeek, Start: startOfDay(now.AddDate(0, 0, -6)), End: now}
	case PeriodQuarter:
		return Window{Period: PeriodQuarter, Start: startOfDay(now.AddDate(0, -3, 0)), End: now}
	case PeriodYear:
		return Window{Period: PeriodYear, Start: startOfMonth(now).AddDate(0, -11, 0), End: now}
	case PeriodCustom:
		start := time.Unix(0, 0).UTC()
		if customStart != nil {
			start = *customStart
		}
		end := now
		if customEnd != nil {
			end = *customEnd
		}
		if end.Before(start) {
			end = start
		}
		return Window{Period: PeriodCustom, Start: start, End: end}
	default:
		return Window{Period: PeriodMonth, Start: startOfDay(now.AddDate(0, -1, 0)), End: now}
	}
}

// PreviousWindow returns the immediately preceding window of equal length,
// used as the comparison base for growth rates.
func PreviousWindow(w Window) Window {
	return Window{
		Period: w.Period,
		Start:  w.Start.Add(-w.Duration()),
		End:    w.Start,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
