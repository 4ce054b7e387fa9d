package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"autocare-report-services/internal/middleware"
	"autocare-report-services/internal/queue"
	"autocare-report-services/internal/reports"
	"autocare-report-services/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type exportJobRequest struct {
	Format    string `json:"format"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	Status    string `json:"status"`
}

type exportJobView struct {
	ID          int64      `json:"id"`
	Format      string     `json:"format"`
	Period      string     `json:"period"`
	Status      string     `json:"status"`
	FileURL     string     `json:"fileUrl,omitempty"`
	Error       string     `json:"error,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// AdminExportJobCreate queues an asynchronous report export. The worker picks
// the job up, renders the artifact, uploads it and marks the row done.
func (h *Handler) AdminExportJobCreate(w http.ResponseWriter, r *http.Request) {
	if h.Queue == nil {
		response.Error(w, http.StatusServiceUnavailable, "EXPORT_QUEUE_UNAVAILABLE", "Async exports are not available right now")
		return
	}

	var req exportJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if req.Format != "csv" && req.Format != "pdf" {
		response.Error(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "format must be csv or pdf")
		return
	}
	if strings.TrimSpace(req.Period) == "" {
		req.Period = "month"
	}
	if req.Category != "" {
		if _, ok := reports.ParseCategory(req.Category); !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_QUERY", "unknown category")
			return
		}
	}
	if req.Status != "" {
		if _, ok := reports.ParseStatusFilter(req.Status); !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_QUERY", "unknown status")
			return
		}
	}

	requestedBy := int64(0)
	if authCtx, ok := middleware.GetAuthContext(r.Context()); ok {
		requestedBy = authCtx.UserID
	}

	var jobID int64
	insert := `
		insert into report_exports (scope, format, period, start_date, end_date, category, status_filter, status, requested_by)
		values ('admin', $1, $2, nullif($3, '')::date, nullif($4, '')::date, $5, $6, 'QUEUED', $7)
		returning id
	`
	err := h.DB.QueryRow(r.Context(), insert,
		req.Format, req.Period, req.StartDate, req.EndDate, req.Category, req.Status, requestedBy,
	).Scan(&jobID)
	if err != nil {
		h.Logger.Error("export job insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "EXPORT_JOB_FAILED", "Could not queue the export")
		return
	}

	message := queue.ExportJobMessage{JobID: jobID}
	if err := h.Queue.PublishJSON(r.Context(), queue.EventsExchange, queue.ExportRequestedKey, message); err != nil {
		h.Logger.Error("export job publish failed", zap.Error(err), zap.Int64("jobId", jobID))
		_, _ = h.DB.Exec(r.Context(), `update report_exports set status = 'FAILED', error = 'publish failed', updated_at = now() where id = $1`, jobID)
		response.Error(w, http.StatusInternalServerError, "EXPORT_JOB_FAILED", "Could not queue the export")
		return
	}

	response.JSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"data":    map[string]any{"id": jobID, "status": "QUEUED"},
	})
}

// AdminExportJobGet reports the state of one queued export.
func (h *Handler) AdminExportJobGet(w http.ResponseWriter, r *http.Request) {
	jobID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_QUERY", "invalid job id")
		return
	}

	var (
		view        exportJobView
		fileURL     pgtype.Text
		jobError    pgtype.Text
		completedAt pgtype.Timestamptz
	)
	query := `
		select id, format, period, status, file_url, error, created_at, completed_at
		from report_exports
		where id = $1 and scope = 'admin'
	`
	err = h.DB.QueryRow(r.Context(), query, jobID).Scan(
		&view.ID, &view.Format, &view.Period, &view.Status,
		&fileURL, &jobError, &view.RequestedAt, &completedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Export job not found")
		return
	}
	if err != nil {
		h.Logger.Error("export job lookup failed", zap.Error(err), zap.Int64("jobId", jobID))
		response.Error(w, http.StatusInternalServerError, "EXPORT_JOB_FAILED", "Could not load the export job")
		return
	}

	if fileURL.Valid {
		view.FileURL = fileURL.String
	}
	if jobError.Valid {
		view.Error = jobError.String
	}
	if completedAt.Valid {
		view.CompletedAt = &completedAt.Time
	}
	response.Success(w, view)
}

// AdminExportJobDelete removes a finished export: the stored artifact first,
// then the row.
func (h *Handler) AdminExportJobDelete(w http.ResponseWriter, r *http.Request) {
	jobID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_QUERY", "invalid job id")
		return
	}

	var fileKey pgtype.Text
	err = h.DB.QueryRow(r.Context(), `select file_key from report_exports where id = $1 and scope = 'admin'`, jobID).Scan(&fileKey)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Export job not found")
		return
	}
	if err != nil {
		h.Logger.Error("export job lookup failed", zap.Error(err), zap.Int64("jobId", jobID))
		response.Error(w, http.StatusInternalServerError, "EXPORT_JOB_FAILED", "Could not load the export job")
		return
	}

	if fileKey.Valid && fileKey.String != "" && h.Store != nil {
		if err := h.Store.DeleteKey(r.Context(), fileKey.String); err != nil {
			h.Logger.Warn("export artifact delete failed", zap.Error(err), zap.Int64("jobId", jobID))
		}
	}

	if _, err := h.DB.Exec(r.Context(), `delete from report_exports where id = $1`, jobID); err != nil {
		h.Logger.Error("export job delete failed", zap.Error(err), zap.Int64("jobId", jobID))
		response.Error(w, http.StatusInternalServerError, "EXPORT_JOB_FAILED", "Could not delete the export job")
		return
	}
	response.Success(w, map[string]any{"id": jobID, "deleted": true})
}
