package reports

import (
	"reflect"
	"testing"
)

func rankFixture() []ServiceRecord {
	return []ServiceRecord{
		{ProviderName: "Apex Auto", Status: StatusCompleted, Cost: 100},
		{ProviderName: "Beta Garage", Status: StatusCompleted, Cost: 250},
		{ProviderName: "Apex Auto", Status: StatusCompleted, Cost: 120},
		{ProviderName: "Crown Motors", Status: StatusCompleted, Cost: 250},
		{ProviderName: "Delta Service", Status: StatusPending, Cost: 900},
	}
}

func TestTopNOrderingAndRanks(t *testing.T) {
	entries := TopN(rankFixture(), 3, ProviderKey, RevenueMetric)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Beta Garage and Crown Motors tie at 250: key ascending breaks the tie.
	expected := []RankedEntry{
		{Key: "Beta Garage", Metric: 250, Rank: 1},
		{Key: "Crown Motors", Metric: 250, Rank: 2},
		{Key: "Apex Auto", Metric: 220, Rank: 3},
	}
	if !reflect.DeepEqual(entries, expected) {
		t.Fatalf("unexpected ranking: %+v", entries)
	}
}

func TestTopNDeterministicUnderShuffle(t *testing.T) {
	records := rankFixture()
	shuffled := []ServiceRecord{records[3], records[0], records[4], records[2], records[1]}

	first := TopN(records, 10, ProviderKey, RevenueMetric)
	second := TopN(shuffled, 10, ProviderKey, RevenueMetric)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking differs across input orders:\n%+v\n%+v", first, second)
	}
}

func TestTopNLengthCap(t *testing.T) {
	entries := TopN(rankFixture(), 2, ProviderKey, CountMetric)
	if len(entries) != 2 {
		t.Fatalf("expected length cap of 2, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("expected 1-based ranks, got %+v", entries)
	}
}

func TestTopNSkipsEmptyKeys(t *testing.T) {
	records := []ServiceRecord{{ProviderName: "", Cost: 10, Status: StatusCompleted}}
	if entries := TopN(records, 5, ProviderKey, RevenueMetric); len(entries) != 0 {
		t.Fatalf("expected empty keys to be skipped, got %+v", entries)
	}
}
