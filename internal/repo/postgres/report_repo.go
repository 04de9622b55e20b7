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

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

type ReportRecord struct {
	ID           int64
	ReporterID   int64
	TargetUserID *int64
	TargetPostID *int64
	Reason       string
	Details      string
	Status       string
	ResolvedBy   *int64
	ResolvedAt   *time.Time
	CreatedAt    time.Time
}

const reportColumns = `id, reporter_id, target_user_id, target_post_id, reason,
	details, status, resolved_by, resolved_at, created_at`

func (r *ReportRepo) Create(ctx context.Context, reporterID int64, targetUserID, targetPostID *int64, reason, details string, now time.Time) (ReportRecord, error) {
	if r.pool == nil {
		return ReportRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if reporterID <= 0 || (targetUserID == nil && targetPostID == nil) {
		return ReportRecord{}, fmt.Errorf("invalid report payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO reports (reporter_id, target_user_id, target_post_id, reason, details, status, created_at)
VALUES ($1, $2, $3, $4, $5, 'open', $6)
RETURNING `+reportColumns+`
`, reporterID, targetUserID, targetPostID, strings.ToLower(strings.TrimSpace(reason)), strings.TrimSpace(details), now.UTC())

	rec, err := scanReport(row)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("create report: %w", err)
	}
	return rec, nil
}

func (r *ReportRepo) ListOpen(ctx context.Context, limit int) ([]ReportRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE status = 'open'
ORDER BY created_at ASC, id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list open reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// Resolve is conditional on the report still being open.
func (r *ReportRepo) Resolve(ctx context.Context, reportID, resolvedBy int64, status string, now time.Time) (ReportRecord, error) {
	if r.pool == nil {
		return ReportRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if reportID <= 0 || resolvedBy <= 0 || status == "" {
		return ReportRecord{}, fmt.Errorf("invalid report resolution")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
UPDATE reports
SET status = $3, resolved_by = $2, resolved_at = $4
WHERE id = $1 AND status = 'open'
RETURNING `+reportColumns+`
`, reportID, resolvedBy, status, now.UTC())

	rec, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRecord{}, ErrReportNotFound
		}
		return ReportRecord{}, fmt.Errorf("resolve report: %w", err)
	}
	return rec, nil
}

func scanReport(row pgx.Row) (ReportRecord, error) {
	var rec ReportRecord
	err := row.Scan(
		&rec.ID,
		&rec.ReporterID,
		&rec.TargetUserID,
		&rec.TargetPostID,
		&rec.Reason,
		&rec.Details,
		&rec.Status,
		&rec.ResolvedBy,
		&rec.ResolvedAt,
		&rec.CreatedAt,
	)
	return rec, err
}
