package reports

import "sort"

// RankedEntry is one row of a top-N list. Rank is 1-based.
type RankedEntry struct {
	Key    string  `json:"key"`
	Metric float64 `json:"metric"`
	Rank   int     `json:"rank"`
}

// TopN groups records by key, sums the metric per group and returns at most n
// entries sorted by metric descending. Ties break on key ascending, so the
// output is byte-identical across runs regardless of input order.
func TopN(records []ServiceRecord, n int, key func(ServiceRecord) string, metric func(ServiceRecord) float64) []RankedEntry {
	totals := map[string]float64{}
	for _, record := range records {
		k := key(record)
		if k == "" {
			continue
		}
		totals[k] += metric(record)
	}

	entries := make([]RankedEntry, 0, len(totals))
	for k, v := range totals {
		entries = append(entries, RankedEntry{Key: k, Metric: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Metric != entries[j].Metric {
			return entries[i].Metric > entries[j].Metric
		}
		return entries[i].Key < entries[j].Key
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// CountMetric ranks by record count.
func CountMetric(ServiceRecord) float64 { return 1 }

// RevenueMetric ranks by completed cost.
func RevenueMetric(record ServiceRecord) float64 {
	if record.Status != StatusCompleted {
		return 0
	}
	return record.Cost
}

// ServiceTypeKey, ProviderKey and CustomerKey are the grouping extractors the
// report screens rank by.
func ServiceTypeKey(record ServiceRecord) string { return record.ServiceType }

func ProviderKey(record ServiceRecord) string { return record.ProviderName }

func CustomerKey(record ServiceRecord) string {
	if record.CustomerName != "" && record.CustomerName != DefaultCustomerName {
		return record.CustomerName
	}
	if record.Email != "" {
		return record.Email
	}
	return record.CustomerName
}
