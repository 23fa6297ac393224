package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

type ReportRecord struct {
	ID             string
	ReporterUserID int64
	ReportedUserID int64
	Category       string
	Severity       string
	Description    string
	Evidence       map[string]string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReviewedBy     *int64
	ReviewedAt     *time.Time
	AppliedAction  *string
	ActionReason   *string
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, rec ReportRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("report id is required")
	}
	if rec.ReporterUserID <= 0 || rec.ReportedUserID <= 0 || rec.ReporterUserID == rec.ReportedUserID {
		return fmt.Errorf("invalid report payload")
	}

	evidence := rec.Evidence
	if evidence == nil {
		evidence = map[string]string{}
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO reports (
	id,
	reporter_user_id,
	reported_user_id,
	category,
	severity,
	description,
	evidence,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
`, rec.ID, rec.ReporterUserID, rec.ReportedUserID, rec.Category, rec.Severity,
		rec.Description, evidence, rec.Status, rec.CreatedAt); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, reportID string) (ReportRecord, error) {
	if r.pool == nil {
		return ReportRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(reportID) == "" {
		return ReportRecord{}, fmt.Errorf("report id is required")
	}

	rec, err := scanReport(r.pool.QueryRow(ctx, `
SELECT id, reporter_user_id, reported_user_id, category, severity, description,
	evidence, status, created_at, updated_at, reviewed_by, reviewed_at,
	applied_action, action_reason
FROM reports
WHERE id = $1
`, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRecord{}, ErrReportNotFound
		}
		return ReportRecord{}, fmt.Errorf("get report: %w", err)
	}

	return rec, nil
}

// ListByStatus returns reports for the moderation queue, most urgent first:
// severity rank ascending (critical before high), then newest within a rank.
// A nil status returns every report.
func (r *ReportRepo) ListByStatus(ctx context.Context, status *string, limit int) ([]ReportRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 200
	}

	query := `
SELECT id, reporter_user_id, reported_user_id, category, severity, description,
	evidence, status, created_at, updated_at, reviewed_by, reviewed_at,
	applied_action, action_reason
FROM reports
`
	args := []any{}
	if status != nil {
		query += "WHERE status = $1\n"
		args = append(args, *status)
	}
	query += fmt.Sprintf(`ORDER BY
	CASE severity
		WHEN 'critical' THEN 0
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		ELSE 3
	END ASC,
	created_at DESC,
	id DESC
LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	items := make([]ReportRecord, 0, limit)
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reports: %w", rows.Err())
	}

	return items, nil
}

// MarkReviewed moves a pending report to a terminal state. The WHERE clause
// on status is the compare-and-set that keeps a review at-most-once: the
// losing moderator sees zero rows affected, never a silent overwrite.
func (r *ReportRepo) MarkReviewed(
	ctx context.Context,
	tx pgx.Tx,
	reportID string,
	actorID int64,
	status, action, reason string,
	reviewedAt time.Time,
) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	if strings.TrimSpace(reportID) == "" || actorID <= 0 {
		return false, fmt.Errorf("invalid review payload")
	}

	result, err := tx.Exec(ctx, `
UPDATE reports SET
	status = $2,
	reviewed_by = $3,
	reviewed_at = $4,
	applied_action = $5,
	action_reason = NULLIF($6, ''),
	updated_at = $4
WHERE id = $1 AND status = 'pending'
`, reportID, status, actorID, reviewedAt, action, strings.TrimSpace(reason))
	if err != nil {
		return false, fmt.Errorf("mark report reviewed: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

type reportRow interface {
	Scan(dest ...any) error
}

func scanReport(row reportRow) (ReportRecord, error) {
	var rec ReportRecord
	err := row.Scan(
		&rec.ID,
		&rec.ReporterUserID,
		&rec.ReportedUserID,
		&rec.Category,
		&rec.Severity,
		&rec.Description,
		&rec.Evidence,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.ReviewedBy,
		&rec.ReviewedAt,
		&rec.AppliedAction,
		&rec.ActionReason,
	)
	return rec, err
}
