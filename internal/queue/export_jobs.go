package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"autocare-report-services/internal/reports"
	"autocare-report-services/internal/sources"
	"autocare-report-services/internal/storage"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	EventsExchange     = "autocare.events"
	ExportJobsQueue    = "autocare.report_exports"
	ExportRequestedKey = "report.export.requested"
	ExportCompletedKey = "report.exported"
)

// ExportJobMessage is the payload published when an async export is queued.
// The row in report_exports carries the actual parameters; the message is just
// the pointer.
type ExportJobMessage struct {
	JobID int64 `json:"jobId"`
}

// EnsureExportJobTopology declares the exchange and queue the async export
// pipeline runs on.
func EnsureExportJobTopology(ctx context.Context, c *Client) error {
	if err := c.EnsureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := c.EnsureQueue(ExportJobsQueue); err != nil {
		return err
	}
	return c.BindQueue(ExportJobsQueue, EventsExchange, "report.export.#")
}

// ProcessExportJob handles one queued export end to end: load the job row,
// rebuild the report, render the artifact, upload it and mark the row done.
// A returned error makes the consumer retry; terminal failures are written to
// the row so the polling client sees them.
func ProcessExportJob(ctx context.Context, pool *pgxpool.Pool, c *Client, store *storage.ObjectStore, product string, body []byte) error {
	var message ExportJobMessage
	if err := json.Unmarshal(body, &message); err != nil {
		// Malformed messages can never succeed; drop without retry.
		return nil
	}
	if message.JobID <= 0 {
		return nil
	}

	var (
		centerID     pgtype.Text
		format       string
		period       string
		startDate    pgtype.Date
		endDate      pgtype.Date
		categoryText pgtype.Text
		statusText   pgtype.Text
	)
	query := `
		select center_id, format, period, start_date, end_date, category, status_filter
		from report_exports
		where id = $1 and status in ('QUEUED', 'PROCESSING')
	`
	if err := pool.QueryRow(ctx, query, message.JobID).Scan(
		&centerID, &format, &period, &startDate, &endDate, &categoryText, &statusText,
	); err != nil {
		// Already completed or gone; nothing to do.
		return nil
	}

	if _, err := pool.Exec(ctx, `update report_exports set status = 'PROCESSING', updated_at = now() where id = $1`, message.JobID); err != nil {
		return err
	}

	fileURL, fileKey, err := buildAndUploadExport(ctx, pool, store, product, exportJobParams{
		CenterID:  textOrEmpty(centerID),
		Format:    format,
		Period:    period,
		StartDate: dateOrNil(startDate),
		EndDate:   dateOrNil(endDate),
		Category:  textOrEmpty(categoryText),
		Status:    textOrEmpty(statusText),
	}, message.JobID)
	if err != nil {
		_, _ = pool.Exec(ctx, `update report_exports set status = 'FAILED', error = $2, updated_at = now() where id = $1`,
			message.JobID, err.Error())
		return err
	}

	if _, err := pool.Exec(ctx, `update report_exports set status = 'DONE', file_url = $2, file_key = $3, error = null, completed_at = now(), updated_at = now() where id = $1`,
		message.JobID, fileURL, fileKey); err != nil {
		return err
	}

	if c != nil {
		_ = c.PublishJSON(ctx, EventsExchange, ExportCompletedKey, map[string]any{
			"jobId":   message.JobID,
			"fileUrl": fileURL,
		})
	}
	return nil
}

type exportJobParams struct {
	CenterID  string
	Format    string
	Period    string
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Status    string
}

func buildAndUploadExport(ctx context.Context, pool *pgxpool.Pool, store *storage.ObjectStore, product string, params exportJobParams, jobID int64) (string, string, error) {
	if store == nil {
		return "", "", fmt.Errorf("object store not configured")
	}

	now := time.Now().UTC()
	result, err := sources.FetchServiceRecords(ctx, pool, params.CenterID, false, now)
	if err != nil {
		return "", "", err
	}

	filter := reports.Filter{}
	if params.Category != "" {
		if parsed, ok := reports.ParseCategory(params.Category); ok {
			filter.Category = parsed
		}
	}
	if params.Status != "" {
		if parsed, ok := reports.ParseStatusFilter(params.Status); ok {
			filter.Status = parsed
		}
	}

	filtered := filter.Apply(result.Records)
	window := reports.ResolveWindow(params.Period, now, params.StartDate, params.EndDate)
	report := reports.BuildReport(filtered, filtered, window, now)

	var (
		data        []byte
		contentType string
	)
	switch params.Format {
	case "csv":
		data = reports.BuildCSV(report.Records)
		contentType = "text/csv; charset=utf-8"
	case "pdf":
		data, err = reports.BuildPDF(report, reports.ExportMeta{
			Title:         product + " Service Report",
			FilterSummary: filter.Describe(),
		})
		if err != nil {
			return "", "", err
		}
		contentType = "application/pdf"
	default:
		return "", "", fmt.Errorf("unsupported format %q", params.Format)
	}

	key := fmt.Sprintf("exports/%d/%s", jobID, reports.ExportFilename(product, params.Format, now))
	url, err := store.PutObject(ctx, key, data, contentType, "private, max-age=0")
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

func textOrEmpty(value pgtype.Text) string {
	if !value.Valid {
		return ""
	}
	return value.String
}

func dateOrNil(value pgtype.Date) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}
