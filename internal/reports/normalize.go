package reports

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalize maps one raw booking document into a ServiceRecord. Raw documents
// are loosely typed and sparsely populated; every field falls back to a
// documented default instead of failing, so one malformed booking can never
// abort a whole report. now is used when the creation date cannot be parsed.
func Normalize(raw map[string]any, category Category, now time.Time) ServiceRecord {
	record := ServiceRecord{
		ID:           firstString(raw, "id", "_id", "bookingId"),
		Category:     category,
		CustomerID:   firstString(raw, "customerId", "userId"),
		CustomerName: defaultString(firstString(raw, "customerName", "name", "customer"), DefaultCustomerName),
		Email:        firstString(raw, "email", "customerEmail"),
		Phone:        firstString(raw, "phone", "phoneNumber", "customerPhone"),
		Status:       parseStatus(firstString(raw, "status", "bookingStatus")),
		Cost:         parseCost(raw, "cost", "price", "amount", "totalCost"),
		Location:     firstString(raw, "location", "address"),
	}

	switch category {
	case CategoryTechnicianVisit:
		record.ProviderID = firstString(raw, "technicianId", "providerId")
		record.ProviderName = defaultString(firstString(raw, "technicianName", "providerName"), DefaultProviderName)
		record.ServiceType = defaultString(firstString(raw, "serviceType", "service"), "Technician Visit")
	default:
		record.ProviderID = firstString(raw, "centerId", "serviceCenterId", "providerId")
		record.ProviderName = defaultString(firstString(raw, "centerName", "serviceCenterName", "providerName"), DefaultProviderName)
		record.ServiceType = defaultString(firstString(raw, "serviceType", "service"), "General Service")
	}

	if rating, ok := parseNumber(firstValue(raw, "rating", "stars", "reviewRating")); ok && rating > 0 {
		record.Rating = rating
		record.HasRating = true
	}

	createdAt, ok := parseInstant(firstValue(raw, "createdAt", "bookingDate", "date"))
	if !ok {
		createdAt = now
	}
	record.CreatedAt = createdAt

	if start, ok := parseInstant(firstValue(raw, "startDate", "serviceDate", "scheduledDate")); ok {
		record.StartDate = &start
	}
	// Completion is only meaningful for finished work.
	if record.Status == StatusCompleted {
		if completed, ok := parseInstant(firstValue(raw, "completionDate", "completedAt", "completedDate")); ok {
			record.CompletionDate = &completed
		}
	}

	return record
}

// NormalizeAll maps a whole raw collection, dropping nil documents.
func NormalizeAll(rawDocs []map[string]any, category Category, now time.Time) []ServiceRecord {
	records := make([]ServiceRecord, 0, len(rawDocs))
	for _, raw := range rawDocs {
		if raw == nil {
			continue
		}
		records = append(records, Normalize(raw, category, now))
	}
	return records
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			// Numeric identifiers arrive as float64 after JSON decoding.
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

func defaultString(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func parseStatus(value string) Status {
	switch normalizeToken(value) {
	case "COMPLETED", "COMPLETE", "DONE":
		return StatusCompleted
	case "CANCELLED", "CANCELED":
		return StatusCancelled
	case "IN_PROGRESS", "INPROGRESS", "ONGOING":
		return StatusInProgress
	default:
		return StatusPending
	}
}

// parseCost reads the first present candidate field as a non-negative amount.
// Absent, unparseable and negative values all collapse to 0.
func parseCost(raw map[string]any, keys ...string) float64 {
	value, ok := parseNumber(firstValue(raw, keys...))
	if !ok || math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseInstant accepts the date shapes the document store produces: Go times,
// ISO strings, unix seconds/milliseconds and store-native timestamp objects
// ({seconds, nanoseconds}). The boolean is the explicit could-not-parse
// sentinel; callers must not treat the zero time as a valid past date.
func parseInstant(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range instantLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64, float32, int, int32, int64:
		seconds, _ := parseNumber(v)
		return unixInstant(seconds)
	case map[string]any:
		if seconds, ok := parseNumber(firstValue(v, "seconds", "_seconds")); ok {
			return unixInstant(seconds)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func unixInstant(value float64) (time.Time, bool) {
	if value <= 0 {
		return time.Time{}, false
	}
	// Values past the year ~5000 in seconds are really milliseconds.
	if value > 1e11 {
		value = value / 1000
	}
	seconds := math.Trunc(value)
	nanos := (value - seconds) * float64(time.Second)
	return time.Unix(int64(seconds), int64(nanos)).UTC(), true
}

// DescribeStatus renders a status for display ("In Progress", "Completed").
func DescribeStatus(status Status) string {
	words := strings.Split(strings.ToLower(string(status)), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
