package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReviewExists = errors.New("review already submitted for meeting")

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

type ReviewRecord struct {
	ID           int64
	MeetingID    int64
	ReviewerID   int64
	RevieweeID   int64
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

func (r *ReviewRepo) Create(ctx context.Context, meetingID, reviewerID, revieweeID int64, rating int, comment string, now time.Time) (ReviewRecord, error) {
	if r.pool == nil {
		return ReviewRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if meetingID <= 0 || reviewerID <= 0 || revieweeID <= 0 {
		return ReviewRecord{}, fmt.Errorf("invalid review payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec ReviewRecord
	err := r.pool.QueryRow(ctx, `
WITH inserted AS (
	INSERT INTO reviews (meeting_id, reviewer_id, reviewee_id, rating, comment, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING *
)
SELECT i.id, i.meeting_id, i.reviewer_id, i.reviewee_id, u.full_name, i.rating, i.comment, i.created_at
FROM inserted i
JOIN users u ON u.id = i.reviewer_id
`, meetingID, reviewerID, revieweeID, rating, strings.TrimSpace(comment), now.UTC()).Scan(
		&rec.ID,
		&rec.MeetingID,
		&rec.ReviewerID,
		&rec.RevieweeID,
		&rec.ReviewerName,
		&rec.Rating,
		&rec.Comment,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return ReviewRecord{}, ErrReviewExists
		}
		return ReviewRecord{}, fmt.Errorf("create review: %w", err)
	}
	return rec, nil
}

func (r *ReviewRepo) ListForUser(ctx context.Context, revieweeID int64, limit int) ([]ReviewRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if revieweeID <= 0 {
		return nil, fmt.Errorf("invalid reviewee id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.meeting_id, r.reviewer_id, r.reviewee_id, u.full_name, r.rating, r.comment, r.created_at
FROM reviews r
JOIN users u ON u.id = r.reviewer_id
WHERE r.reviewee_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2
`, revieweeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews for user: %w", err)
	}
	defer rows.Close()

	var out []ReviewRecord
	for rows.Next() {
		var rec ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.MeetingID, &rec.ReviewerID, &rec.RevieweeID, &rec.ReviewerName, &rec.Rating, &rec.Comment, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

func (r *ReviewRepo) AverageForUser(ctx context.Context, revieweeID int64) (float64, int64, error) {
	if r.pool == nil {
		return 0, 0, fmt.Errorf("postgres pool is nil")
	}
	if revieweeID <= 0 {
		return 0, 0, fmt.Errorf("invalid reviewee id")
	}

	var avg *float64
	var count int64
	err := r.pool.QueryRow(ctx, `
SELECT AVG(rating)::float8, COUNT(*)
FROM reviews
WHERE reviewee_id = $1
`, revieweeID).Scan(&avg, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("average rating for user: %w", err)
	}
	if avg == nil {
		return 0, count, nil
	}
	return *avg, count, nil
}
