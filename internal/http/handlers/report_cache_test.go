package handlers

import (
	"testing"
	"time"
)

func TestReportCacheRoundTrip(t *testing.T) {
	key := reportCacheKey("test", "roundtrip")
	setReportCache(key, "payload", time.Minute)

	value, ok := getReportCache(key)
	if !ok || value != "payload" {
		t.Fatalf("expected cached payload, got %v (%v)", value, ok)
	}
}

func TestReportCacheExpiry(t *testing.T) {
	key := reportCacheKey("test", "expiry")
	setReportCache(key, "payload", -time.Second)

	if _, ok := getReportCache(key); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestReportCacheMiss(t *testing.T) {
	if _, ok := getReportCache(reportCacheKey("test", "missing")); ok {
		t.Fatalf("expected miss for unknown key")
	}
}
