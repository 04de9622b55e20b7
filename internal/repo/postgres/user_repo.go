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

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	uniqueViolationSQL = "23505"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID                   int64
	Email                string
	PasswordHash         string
	FullName             string
	Profession           string
	Bio                  string
	ExperienceLevel      string
	PreferredMeetingType string
	AvatarKey            string
	Role                 string
	IsBanned             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type UserProfileUpdate struct {
	FullName             string
	Profession           string
	Bio                  string
	ExperienceLevel      string
	PreferredMeetingType string
}

const userColumns = `id, email, password_hash, full_name, profession, bio,
	experience_level, preferred_meeting_type, avatar_key, role, is_banned,
	created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName string, now time.Time) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, full_name, role, created_at, updated_at)
VALUES ($1, $2, $3, 'USER', $4, $4)
RETURNING `+userColumns+`
`, strings.ToLower(strings.TrimSpace(email)), passwordHash, strings.TrimSpace(fullName), now.UTC())

	rec, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1
`, userID)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = $1
`, strings.ToLower(strings.TrimSpace(email)))

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, update UserProfileUpdate) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE users
SET
	full_name = $2,
	profession = $3,
	bio = $4,
	experience_level = $5,
	preferred_meeting_type = $6,
	updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns+`
`, userID,
		strings.TrimSpace(update.FullName),
		strings.TrimSpace(update.Profession),
		strings.TrimSpace(update.Bio),
		update.ExperienceLevel,
		update.PreferredMeetingType,
	)

	rec, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("update user profile: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET avatar_key = $2, updated_at = NOW()
WHERE id = $1
`, userID, strings.TrimSpace(key))
	if err != nil {
		return fmt.Errorf("set avatar key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetBanned(ctx context.Context, userID int64, banned bool) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET is_banned = $2, updated_at = NOW()
WHERE id = $1
`, userID, banned)
	if err != nil {
		return fmt.Errorf("set user banned flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (UserRecord, error) {
	var rec UserRecord
	err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.FullName,
		&rec.Profession,
		&rec.Bio,
		&rec.ExperienceLevel,
		&rec.PreferredMeetingType,
		&rec.AvatarKey,
		&rec.Role,
		&rec.IsBanned,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}
