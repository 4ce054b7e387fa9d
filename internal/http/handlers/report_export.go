package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"autocare-report-services/internal/middleware"
	"autocare-report-services/internal/reports"
	"autocare-report-services/pkg/response"

	"go.uber.org/zap"
)

// CenterReportExport streams the provider-scoped report as a CSV or PDF
// download.
func (h *Handler) CenterReportExport(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	centerID := ""
	if authCtx.CenterID != nil {
		centerID = strings.TrimSpace(*authCtx.CenterID)
	}
	h.serveReportExport(w, r, centerID)
}

// AdminReportExport streams the marketplace-wide report as a CSV or PDF
// download.
func (h *Handler) AdminReportExport(w http.ResponseWriter, r *http.Request) {
	h.serveReportExport(w, r, "")
}

func (h *Handler) serveReportExport(w http.ResponseWriter, r *http.Request, centerID string) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		response.Error(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", fmt.Sprintf("format %q is not supported", format))
		return
	}

	q, err := parseReportQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	built, err := h.buildReport(r.Context(), centerID, q)
	if err != nil {
		h.Logger.Error("report export fetch failed", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "PARTIAL_SOURCE_FAILURE", "One or more booking collections could not be read")
		return
	}

	data, contentType, err := renderExport(built, q, format, h.Config.ProductName)
	if err != nil {
		h.Logger.Error("report export render failed", zap.Error(err), zap.String("format", format))
		response.Error(w, http.StatusInternalServerError, "EXPORT_FAILED", "Could not render the export")
		return
	}

	filename := reports.ExportFilename(h.Config.ProductName, format, time.Now().UTC())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderExport materializes one export artifact. Rows are the report's
// backing records, already filtered and window-scoped by BuildReport.
func renderExport(built builtReport, q reportQuery, format string, product string) ([]byte, string, error) {
	switch format {
	case "csv":
		return reports.BuildCSV(built.Report.Records), "text/csv; charset=utf-8", nil
	case "pdf":
		data, err := reports.BuildPDF(built.Report, reports.ExportMeta{
			Title:         product + " Service Report",
			FilterSummary: q.Filter.Describe(),
		})
		if err != nil {
			return nil, "", err
		}
		return data, "application/pdf", nil
	}
	return nil, "", fmt.Errorf("unsupported format %q", format)
}
