package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already listed")
)

type SkillRepo struct {
	pool *pgxpool.Pool
}

func NewSkillRepo(pool *pgxpool.Pool) *SkillRepo {
	return &SkillRepo{pool: pool}
}

type SkillRecord struct {
	ID               int64
	UserID           int64
	SkillName        string
	SkillType        string
	ProficiencyLevel string
	CreatedAt        time.Time
}

func (r *SkillRepo) Add(ctx context.Context, userID int64, name, skillType, proficiency string, now time.Time) (SkillRecord, error) {
	if r.pool == nil {
		return SkillRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(name) == "" {
		return SkillRecord{}, fmt.Errorf("invalid skill payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SkillRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO user_skills (user_id, skill_name, skill_type, proficiency_level, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, skill_name, skill_type, proficiency_level, created_at
`, userID, strings.TrimSpace(name), skillType, proficiency, now.UTC()).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.SkillName,
		&rec.SkillType,
		&rec.ProficiencyLevel,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return SkillRecord{}, ErrSkillExists
		}
		return SkillRecord{}, fmt.Errorf("add user skill: %w", err)
	}
	return rec, nil
}

func (r *SkillRepo) Delete(ctx context.Context, userID, skillID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || skillID <= 0 {
		return fmt.Errorf("invalid skill payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM user_skills
WHERE id = $1 AND user_id = $2
`, skillID, userID)
	if err != nil {
		return fmt.Errorf("delete user skill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *SkillRepo) ListByUser(ctx context.Context, userID int64) ([]SkillRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, skill_name, skill_type, proficiency_level, created_at
FROM user_skills
WHERE user_id = $1
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user skills: %w", err)
	}
	defer rows.Close()

	var out []SkillRecord
	for rows.Next() {
		var rec SkillRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SkillName, &rec.SkillType, &rec.ProficiencyLevel, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user skill: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user skills: %w", err)
	}
	return out, nil
}
