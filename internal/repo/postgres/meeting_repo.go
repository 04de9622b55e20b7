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

var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrMeetingStateStale = errors.New("meeting state changed")
)

type MeetingRepo struct {
	pool *pgxpool.Pool
}

func NewMeetingRepo(pool *pgxpool.Pool) *MeetingRepo {
	return &MeetingRepo{pool: pool}
}

type MeetingRecord struct {
	ID              int64
	OrganizerID     int64
	ParticipantID   int64
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     string
	MeetingLink     *string
	Status          string
	Notes           string
	StartedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type MeetingWrite struct {
	OrganizerID     int64
	ParticipantID   int64
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     string
	MeetingLink     *string
}

// TransitionUpdate is applied as a single conditional write. Zero rows
// affected means the expected status no longer matches and the caller lost
// the race (or the meeting is gone).
type TransitionUpdate struct {
	MeetingID      int64
	ExpectedStatus string
	NewStatus      string
	// Notes replaces the stored notes only when non-blank; a blank value
	// preserves whatever was recorded before.
	Notes string
	// MarkStarted sets started_at on first join; later writes keep the
	// original timestamp.
	MarkStarted bool
}

const meetingColumns = `id, organizer_id, participant_id, title, scheduled_at,
	duration_minutes, meeting_type, meeting_link, status, notes, started_at,
	created_at, updated_at`

func (r *MeetingRepo) Create(ctx context.Context, write MeetingWrite, now time.Time) (MeetingRecord, error) {
	if r.pool == nil {
		return MeetingRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if write.OrganizerID <= 0 || write.ParticipantID <= 0 || write.ScheduledAt.IsZero() {
		return MeetingRecord{}, fmt.Errorf("invalid meeting payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO meetings (
	organizer_id, participant_id, title, scheduled_at, duration_minutes,
	meeting_type, meeting_link, status, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', '', $8, $8)
RETURNING `+meetingColumns+`
`, write.OrganizerID,
		write.ParticipantID,
		strings.TrimSpace(write.Title),
		write.ScheduledAt.UTC(),
		write.DurationMinutes,
		write.MeetingType,
		write.MeetingLink,
		now.UTC(),
	)

	rec, err := scanMeeting(row)
	if err != nil {
		return MeetingRecord{}, fmt.Errorf("create meeting: %w", err)
	}
	return rec, nil
}

func (r *MeetingRepo) GetByID(ctx context.Context, meetingID int64) (MeetingRecord, error) {
	if r.pool == nil {
		return MeetingRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if meetingID <= 0 {
		return MeetingRecord{}, fmt.Errorf("invalid meeting id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+meetingColumns+`
FROM meetings
WHERE id = $1
`, meetingID)

	rec, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MeetingRecord{}, ErrMeetingNotFound
		}
		return MeetingRecord{}, fmt.Errorf("get meeting by id: %w", err)
	}
	return rec, nil
}

func (r *MeetingRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MeetingRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+meetingColumns+`
FROM meetings
WHERE organizer_id = $1 OR participant_id = $1
ORDER BY scheduled_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list meetings for user: %w", err)
	}
	defer rows.Close()

	var out []MeetingRecord
	for rows.Next() {
		rec, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}
	return out, nil
}

// ApplyTransition performs the check-then-write as one conditional UPDATE so
// a losing concurrent request observes ErrMeetingStateStale instead of
// silently overwriting.
func (r *MeetingRepo) ApplyTransition(ctx context.Context, update TransitionUpdate, now time.Time) (MeetingRecord, error) {
	if r.pool == nil {
		return MeetingRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if update.MeetingID <= 0 || update.ExpectedStatus == "" || update.NewStatus == "" {
		return MeetingRecord{}, fmt.Errorf("invalid transition payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
UPDATE meetings
SET
	status = $3,
	notes = CASE WHEN NULLIF(BTRIM($4), '') IS NULL THEN notes ELSE BTRIM($4) END,
	started_at = CASE WHEN $5 THEN COALESCE(started_at, $6) ELSE started_at END,
	updated_at = $6
WHERE id = $1 AND status = $2
RETURNING `+meetingColumns+`
`, update.MeetingID,
		update.ExpectedStatus,
		update.NewStatus,
		update.Notes,
		update.MarkStarted,
		now.UTC(),
	)

	rec, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MeetingRecord{}, ErrMeetingStateStale
		}
		return MeetingRecord{}, fmt.Errorf("apply meeting transition: %w", err)
	}
	return rec, nil
}

// MarkNoShows flips confirmed meetings whose scheduled window fully elapsed
// without anyone joining. Returns the number of meetings affected.
func (r *MeetingRepo) MarkNoShows(ctx context.Context, now time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE meetings
SET status = 'no_show', updated_at = $1
WHERE status = 'confirmed'
  AND started_at IS NULL
  AND scheduled_at + make_interval(mins => duration_minutes) < $1
`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("mark no-show meetings: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanMeeting(row pgx.Row) (MeetingRecord, error) {
	var rec MeetingRecord
	err := row.Scan(
		&rec.ID,
		&rec.OrganizerID,
		&rec.ParticipantID,
		&rec.Title,
		&rec.ScheduledAt,
		&rec.DurationMinutes,
		&rec.MeetingType,
		&rec.MeetingLink,
		&rec.Status,
		&rec.Notes,
		&rec.StartedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}
