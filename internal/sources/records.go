package sources

import (
	"context"
	"fmt"
	"time"

	"autocare-report-services/internal/reports"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Booking collections. Dashboards write loosely-typed documents; each row is
// one raw document that the normalizer turns into a ServiceRecord.
type Source struct {
	Name     string
	Category reports.Category
}

var bookingSources = []Source{
	{Name: "center_bookings", Category: reports.CategoryServiceCenter},
	{Name: "technician_bookings", Category: reports.CategoryTechnicianVisit},
}

// FetchResult carries the merged record set plus the names of any collections
// that failed when the caller opted into partial results.
type FetchResult struct {
	Records []reports.ServiceRecord
	Failed  []string
}

// FetchServiceRecords loads and normalizes every booking collection
// concurrently. Aggregation never starts on a half-fetched set: all fetches
// resolve before the merged slice is returned. With partial=false the first
// collection error cancels the remaining fetches and fails the whole call;
// with partial=true failed collections are skipped and reported in Failed.
// centerID, when non-empty, scopes every collection to one provider.
func FetchServiceRecords(ctx context.Context, pool *pgxpool.Pool, centerID string, partial bool, now time.Time) (FetchResult, error) {
	normalized := make([][]reports.ServiceRecord, len(bookingSources))
	failures := make([]error, len(bookingSources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range bookingSources {
		g.Go(func() error {
			docs, err := fetchCollection(gctx, pool, src.Name, centerID)
			if err != nil {
				if partial {
					failures[i] = err
					return nil
				}
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			normalized[i] = reports.NormalizeAll(docs, src.Category, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FetchResult{}, err
	}

	var result FetchResult
	for i, records := range normalized {
		if failures[i] != nil {
			result.Failed = append(result.Failed, bookingSources[i].Name)
			continue
		}
		result.Records = append(result.Records, records...)
	}
	return result, nil
}

func fetchCollection(ctx context.Context, pool *pgxpool.Pool, table string, centerID string) ([]map[string]any, error) {
	query := `select data from ` + table + ` order by created_at`
	args := []any{}
	if centerID != "" {
		query = `
			select data from ` + table + `
			where coalesce(data->>'centerId', data->>'serviceCenterId', data->>'providerId', data->>'technicianId') = $1
			order by created_at
		`
		args = append(args, centerID)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]map[string]any, 0)
	for rows.Next() {
		var doc map[string]any
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// FetchUserSignups returns one skeleton record per marketplace user, carrying
// only the signup instant. Feeds the admin report's user growth trend.
func FetchUserSignups(ctx context.Context, pool *pgxpool.Pool) ([]reports.ServiceRecord, error) {
	rows, err := pool.Query(ctx, `select created_at from users order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]reports.ServiceRecord, 0)
	for rows.Next() {
		var createdAt time.Time
		if err := rows.Scan(&createdAt); err != nil {
			return nil, err
		}
		records = append(records, reports.ServiceRecord{CreatedAt: createdAt})
	}
	return records, rows.Err()
}
