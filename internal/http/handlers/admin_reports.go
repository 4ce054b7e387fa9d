package handlers

import (
	"net/http"

	"autocare-report-services/internal/reports"
	"autocare-report-services/internal/sources"
	"autocare-report-services/pkg/response"

	"go.uber.org/zap"
)

// AdminReports serves the marketplace-wide report across every provider, plus
// the user signup trend on the same bucket axis.
func (h *Handler) AdminReports(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	cacheKey := reportCacheKey("admin", q.cacheSegments()...)
	if !q.Partial {
		if cached, ok := getReportCache(cacheKey); ok {
			response.Success(w, cached)
			return
		}
	}

	built, err := h.buildReport(r.Context(), "", q)
	if err != nil {
		h.Logger.Error("admin report fetch failed", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "PARTIAL_SOURCE_FAILURE", "One or more booking collections could not be read")
		return
	}

	payload := reportPayload(built, q)

	signups, err := sources.FetchUserSignups(r.Context(), h.DB)
	if err != nil {
		// User growth is supplemental: the booking report still stands.
		h.Logger.Warn("user signups fetch failed", zap.Error(err))
	} else {
		buckets := reports.BuildBuckets(built.Window)
		payload["userGrowth"] = reports.CreatedTrend(signups, buckets)
	}

	if len(built.Failed) == 0 && err == nil {
		setReportCache(cacheKey, payload, h.Config.ReportCacheTTL)
	}
	response.Success(w, payload)
}
