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

var ErrPostNotFound = errors.New("post not found")

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

type PostRecord struct {
	ID                   int64
	AuthorID             int64
	AuthorName           string
	Title                string
	Description          string
	SkillsToTeach        []string
	SkillsToLearn        []string
	ExperienceLevel      string
	PreferredMeetingType string
	Status               string
	Approved             bool
	ViewsCount           int64
	RemovedBy            *int64
	RemovedAt            *time.Time
	RemovedReason        *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type PostWrite struct {
	Title                string
	Description          string
	SkillsToTeach        []string
	SkillsToLearn        []string
	ExperienceLevel      string
	PreferredMeetingType string
}

const postColumns = `p.id, p.author_id, u.full_name, p.title, p.description,
	p.skills_to_teach, p.skills_to_learn, p.experience_level,
	p.preferred_meeting_type, p.status, p.approved, p.views_count,
	p.removed_by, p.removed_at, p.removed_reason, p.created_at, p.updated_at`

func (r *PostRepo) Create(ctx context.Context, authorID int64, write PostWrite, now time.Time) (PostRecord, error) {
	if r.pool == nil {
		return PostRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if authorID <= 0 || strings.TrimSpace(write.Title) == "" {
		return PostRecord{}, fmt.Errorf("invalid post payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
WITH inserted AS (
	INSERT INTO posts (
		author_id, title, description, skills_to_teach, skills_to_learn,
		experience_level, preferred_meeting_type, status, approved,
		views_count, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', TRUE, 0, $8, $8)
	RETURNING *
)
SELECT p.id, p.author_id, u.full_name, p.title, p.description,
	p.skills_to_teach, p.skills_to_learn, p.experience_level,
	p.preferred_meeting_type, p.status, p.approved, p.views_count,
	p.removed_by, p.removed_at, p.removed_reason, p.created_at, p.updated_at
FROM inserted p
JOIN users u ON u.id = p.author_id
`, authorID,
		strings.TrimSpace(write.Title),
		strings.TrimSpace(write.Description),
		write.SkillsToTeach,
		write.SkillsToLearn,
		write.ExperienceLevel,
		write.PreferredMeetingType,
		now.UTC(),
	)

	rec, err := scanPost(row)
	if err != nil {
		return PostRecord{}, fmt.Errorf("create post: %w", err)
	}
	return rec, nil
}

func (r *PostRepo) Update(ctx context.Context, postID, authorID int64, write PostWrite) (PostRecord, error) {
	if r.pool == nil {
		return PostRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 || authorID <= 0 {
		return PostRecord{}, fmt.Errorf("invalid post payload")
	}

	row := r.pool.QueryRow(ctx, `
WITH updated AS (
	UPDATE posts
	SET
		title = $3,
		description = $4,
		skills_to_teach = $5,
		skills_to_learn = $6,
		experience_level = $7,
		preferred_meeting_type = $8,
		updated_at = NOW()
	WHERE id = $1 AND author_id = $2 AND status <> 'removed'
	RETURNING *
)
SELECT p.id, p.author_id, u.full_name, p.title, p.description,
	p.skills_to_teach, p.skills_to_learn, p.experience_level,
	p.preferred_meeting_type, p.status, p.approved, p.views_count,
	p.removed_by, p.removed_at, p.removed_reason, p.created_at, p.updated_at
FROM updated p
JOIN users u ON u.id = p.author_id
`, postID, authorID,
		strings.TrimSpace(write.Title),
		strings.TrimSpace(write.Description),
		write.SkillsToTeach,
		write.SkillsToLearn,
		write.ExperienceLevel,
		write.PreferredMeetingType,
	)

	rec, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PostRecord{}, ErrPostNotFound
		}
		return PostRecord{}, fmt.Errorf("update post: %w", err)
	}
	return rec, nil
}

func (r *PostRepo) GetByID(ctx context.Context, postID int64) (PostRecord, error) {
	if r.pool == nil {
		return PostRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 {
		return PostRecord{}, fmt.Errorf("invalid post id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id = $1
`, postID)

	rec, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PostRecord{}, ErrPostNotFound
		}
		return PostRecord{}, fmt.Errorf("get post by id: %w", err)
	}
	return rec, nil
}

func (r *PostRepo) IncrementViews(ctx context.Context, postID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 {
		return fmt.Errorf("invalid post id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE posts
SET views_count = views_count + 1
WHERE id = $1 AND status = 'active'
`, postID)
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListCandidates returns active approved posts authored by someone other than
// the viewer, newest first. It is the ranking input; scoring happens in the
// recommendations service.
func (r *PostRepo) ListCandidates(ctx context.Context, viewerUserID int64, limit int) ([]PostRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if viewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer user id")
	}
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.status = 'active'
  AND p.approved = TRUE
  AND p.author_id <> $1
  AND u.is_banned = FALSE
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2
`, viewerUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidate posts: %w", err)
	}
	return collectPosts(rows)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]PostRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if authorID <= 0 {
		return nil, fmt.Errorf("invalid author id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.author_id = $1 AND p.status <> 'removed'
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2
`, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return collectPosts(rows)
}

// ListPopular returns active approved posts ordered by view count for the
// trending surface.
func (r *PostRepo) ListPopular(ctx context.Context, limit int) ([]PostRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.status = 'active' AND p.approved = TRUE AND u.is_banned = FALSE
ORDER BY p.views_count DESC, p.created_at DESC, p.id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular posts: %w", err)
	}
	return collectPosts(rows)
}

// ListActiveSkillNames returns the raw teach+learn skill names of every active
// post. Normalization and counting happen in the trending service.
func (r *PostRepo) ListActiveSkillNames(ctx context.Context) ([][]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT p.skills_to_teach || p.skills_to_learn
FROM posts p
WHERE p.status = 'active'
`)
	if err != nil {
		return nil, fmt.Errorf("list active post skills: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var names []string
		if err := rows.Scan(&names); err != nil {
			return nil, fmt.Errorf("scan active post skills: %w", err)
		}
		out = append(out, names)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active post skills: %w", err)
	}
	return out, nil
}

// SoftRemove marks the post removed without deleting the row. A post with any
// removal field set always carries status 'removed'.
func (r *PostRepo) SoftRemove(ctx context.Context, postID, removedBy int64, reason string, now time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 || removedBy <= 0 {
		return fmt.Errorf("invalid removal payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE posts
SET
	status = 'removed',
	removed_by = $2,
	removed_at = $3,
	removed_reason = NULLIF(BTRIM($4), ''),
	updated_at = NOW()
WHERE id = $1 AND status <> 'removed'
`, postID, removedBy, now.UTC(), reason)
	if err != nil {
		return fmt.Errorf("soft remove post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepo) Restore(ctx context.Context, postID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 {
		return fmt.Errorf("invalid post id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE posts
SET
	status = 'active',
	removed_by = NULL,
	removed_at = NULL,
	removed_reason = NULL,
	updated_at = NOW()
WHERE id = $1 AND status = 'removed'
`, postID)
	if err != nil {
		return fmt.Errorf("restore post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func collectPosts(rows pgx.Rows) ([]PostRecord, error) {
	defer rows.Close()

	var out []PostRecord
	for rows.Next() {
		rec, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func scanPost(row pgx.Row) (PostRecord, error) {
	var rec PostRecord
	err := row.Scan(
		&rec.ID,
		&rec.AuthorID,
		&rec.AuthorName,
		&rec.Title,
		&rec.Description,
		&rec.SkillsToTeach,
		&rec.SkillsToLearn,
		&rec.ExperienceLevel,
		&rec.PreferredMeetingType,
		&rec.Status,
		&rec.Approved,
		&rec.ViewsCount,
		&rec.RemovedBy,
		&rec.RemovedAt,
		&rec.RemovedReason,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}
