package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

type StatsRecord struct {
	TotalReports      int64
	PendingReports    int64
	ResolvedReports   int64
	TotalBlocks       int64
	ReportsByCategory map[string]int64
	ReportsBySeverity map[string]int64
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Snapshot recomputes the dashboard counters from scratch. Resolved counts
// both resolved and action_taken: either way the moderation loop is closed.
func (r *StatsRepo) Snapshot(ctx context.Context) (StatsRecord, error) {
	if r.pool == nil {
		return StatsRecord{}, fmt.Errorf("postgres pool is nil")
	}

	rec := StatsRecord{
		ReportsByCategory: map[string]int64{},
		ReportsBySeverity: map[string]int64{},
	}

	if err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status IN ('resolved', 'action_taken'))
FROM reports
`).Scan(&rec.TotalReports, &rec.PendingReports, &rec.ResolvedReports); err != nil {
		return StatsRecord{}, fmt.Errorf("count reports: %w", err)
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&rec.TotalBlocks); err != nil {
		return StatsRecord{}, fmt.Errorf("count blocks: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT category, COUNT(*)
FROM reports
GROUP BY category
`)
	if err != nil {
		return StatsRecord{}, fmt.Errorf("count reports by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return StatsRecord{}, fmt.Errorf("scan category count: %w", err)
		}
		rec.ReportsByCategory[category] = count
	}
	if rows.Err() != nil {
		return StatsRecord{}, fmt.Errorf("iterate category counts: %w", rows.Err())
	}

	severityRows, err := r.pool.Query(ctx, `
SELECT severity, COUNT(*)
FROM reports
GROUP BY severity
`)
	if err != nil {
		return StatsRecord{}, fmt.Errorf("count reports by severity: %w", err)
	}
	defer severityRows.Close()

	for severityRows.Next() {
		var severity string
		var count int64
		if err := severityRows.Scan(&severity, &count); err != nil {
			return StatsRecord{}, fmt.Errorf("scan severity count: %w", err)
		}
		rec.ReportsBySeverity[severity] = count
	}
	if severityRows.Err() != nil {
		return StatsRecord{}, fmt.Errorf("iterate severity counts: %w", severityRows.Err())
	}

	return rec, nil
}
