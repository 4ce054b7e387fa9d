package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"autocare-report-services/internal/middleware"
	"autocare-report-services/internal/reports"
	"autocare-report-services/internal/sources"
	"autocare-report-services/pkg/response"

	"go.uber.org/zap"
)

type builtReport struct {
	Window reports.Window
	Report reports.Report
	Failed []string
}

// buildReport loads the booking collections, applies the query filter and runs
// the aggregation engine over the result. The full record set doubles as the
// previous-period input; the growth aggregator windows it itself.
func (h *Handler) buildReport(ctx context.Context, centerID string, q reportQuery) (builtReport, error) {
	now := time.Now().UTC()

	result, err := sources.FetchServiceRecords(ctx, h.DB, centerID, q.Partial, now)
	if err != nil {
		return builtReport{}, err
	}

	filtered := q.Filter.Apply(result.Records)
	window := reports.ResolveWindow(q.Period, now, q.Start, q.End)
	report := reports.BuildReport(filtered, filtered, window, now)

	return builtReport{Window: window, Report: report, Failed: result.Failed}, nil
}

func reportPayload(built builtReport, q reportQuery) map[string]any {
	payload := map[string]any{
		"report":           built.Report,
		"summaryFormatted": reports.FormatSummary(built.Report.Summary),
		"meta": map[string]any{
			"period":  q.Period,
			"filters": q.Filter.Describe(),
		},
	}
	if len(built.Failed) > 0 {
		payload["failedSources"] = built.Failed
	}
	return payload
}

// CenterReports serves the provider-scoped report for the authenticated
// service center.
func (h *Handler) CenterReports(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	centerID := ""
	if authCtx.CenterID != nil {
		centerID = strings.TrimSpace(*authCtx.CenterID)
	}

	q, err := parseReportQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	cacheKey := reportCacheKey("center", append([]string{centerID}, q.cacheSegments()...)...)
	if !q.Partial {
		if cached, ok := getReportCache(cacheKey); ok {
			response.Success(w, cached)
			return
		}
	}

	built, err := h.buildReport(r.Context(), centerID, q)
	if err != nil {
		h.Logger.Error("center report fetch failed", zap.Error(err), zap.String("centerId", centerID))
		response.Error(w, http.StatusBadGateway, "PARTIAL_SOURCE_FAILURE", "One or more booking collections could not be read")
		return
	}

	payload := reportPayload(built, q)
	if len(built.Failed) == 0 {
		setReportCache(cacheKey, payload, h.Config.ReportCacheTTL)
	}
	response.Success(w, payload)
}
