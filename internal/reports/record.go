package reports

import (
	"strings"
	"time"
)

// Category identifies which source collection a raw booking came from.
type Category string

const (
	CategoryServiceCenter   Category = "SERVICE_CENTER"
	CategoryTechnicianVisit Category = "TECHNICIAN_VISIT"
)

func (c Category) Display() string {
	switch c {
	case CategoryTechnicianVisit:
		return "Technician Visit"
	default:
		return "Service Center"
	}
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusInProgress Status = "IN_PROGRESS"
)

const (
	DefaultCustomerName = "Unknown"
	DefaultProviderName = "Unknown Provider"
)

func normalizeToken(value string) string {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	return strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
}

// ParseCategory maps a user-supplied category token to a Category. Unlike the
// normalizer it is strict: unknown tokens are rejected, not defaulted.
func ParseCategory(value string) (Category, bool) {
	switch normalizeToken(value) {
	case "SERVICE_CENTER", "CENTER":
		return CategoryServiceCenter, true
	case "TECHNICIAN_VISIT", "TECHNICIAN":
		return CategoryTechnicianVisit, true
	}
	return "", false
}

// ParseStatusFilter maps a user-supplied status token to a Status, rejecting
// unknown tokens.
func ParseStatusFilter(value string) (Status, bool) {
	switch normalizeToken(value) {
	case "PENDING":
		return StatusPending, true
	case "COMPLETED":
		return StatusCompleted, true
	case "CANCELLED", "CANCELED":
		return StatusCancelled, true
	case "IN_PROGRESS":
		return StatusInProgress, true
	}
	return "", false
}

// ServiceRecord is the canonical, defaulted form of a raw booking document.
// Every aggregator in this package consumes this shape and nothing else.
type ServiceRecord struct {
	ID             string     `json:"id"`
	Category       Category   `json:"category"`
	CustomerID     string     `json:"customerId"`
	CustomerName   string     `json:"customerName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	ProviderID     string     `json:"providerId"`
	ProviderName   string     `json:"providerName"`
	ServiceType    string     `json:"serviceType"`
	Status         Status     `json:"status"`
	Cost           float64    `json:"cost"`
	Rating         float64    `json:"rating,omitempty"`
	HasRating      bool       `json:"hasRating"`
	CreatedAt      time.Time  `json:"createdAt"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	Location       string     `json:"location,omitempty"`
}

// Region returns the coarse region key for the record: the last
// comma-delimited segment of the free-text location.
func (r ServiceRecord) Region() string {
	if strings.TrimSpace(r.Location) == "" {
		return ""
	}
	parts := strings.Split(r.Location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// ActivityDate is the instant a record is filtered and charted by:
// completion when the work finished, creation otherwise.
func (r ServiceRecord) ActivityDate() time.Time {
	if r.CompletionDate != nil {
		return *r.CompletionDate
	}
	return r.CreatedAt
}
