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
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists")
)

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

type ConnectionRecord struct {
	ID          int64
	RequesterID int64
	ReceiverID  int64
	Status      string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const connectionColumns = `id, requester_id, receiver_id, status, message, created_at, updated_at`

func (r *ConnectionRepo) Create(ctx context.Context, requesterID, receiverID int64, message string, now time.Time) (ConnectionRecord, error) {
	if r.pool == nil {
		return ConnectionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if requesterID <= 0 || receiverID <= 0 || requesterID == receiverID {
		return ConnectionRecord{}, fmt.Errorf("invalid connection payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO connections (requester_id, receiver_id, status, message, created_at, updated_at)
VALUES ($1, $2, 'pending', $3, $4, $4)
RETURNING `+connectionColumns+`
`, requesterID, receiverID, strings.TrimSpace(message), now.UTC())

	rec, err := scanConnection(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return ConnectionRecord{}, ErrConnectionExists
		}
		return ConnectionRecord{}, fmt.Errorf("create connection: %w", err)
	}
	return rec, nil
}

func (r *ConnectionRepo) GetByID(ctx context.Context, connectionID int64) (ConnectionRecord, error) {
	if r.pool == nil {
		return ConnectionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if connectionID <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE id = $1
`, connectionID)

	rec, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("get connection by id: %w", err)
	}
	return rec, nil
}

// GetBetween returns the connection between two users in either direction.
func (r *ConnectionRepo) GetBetween(ctx context.Context, userA, userB int64) (ConnectionRecord, error) {
	if r.pool == nil {
		return ConnectionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userA <= 0 || userB <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection lookup")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE (requester_id = $1 AND receiver_id = $2)
   OR (requester_id = $2 AND receiver_id = $1)
ORDER BY created_at DESC
LIMIT 1
`, userA, userB)

	rec, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("get connection between users: %w", err)
	}
	return rec, nil
}

// UpdateStatus is conditional on the current status being pending so
// concurrent accept/reject cannot both win.
func (r *ConnectionRepo) UpdateStatus(ctx context.Context, connectionID int64, status string) (ConnectionRecord, error) {
	if r.pool == nil {
		return ConnectionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if connectionID <= 0 || status == "" {
		return ConnectionRecord{}, fmt.Errorf("invalid connection update")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE connections
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING `+connectionColumns+`
`, connectionID, status)

	rec, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("update connection status: %w", err)
	}
	return rec, nil
}

func (r *ConnectionRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]ConnectionRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE requester_id = $1 OR receiver_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list connections for user: %w", err)
	}
	defer rows.Close()

	var out []ConnectionRecord
	for rows.Next() {
		rec, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}
	return out, nil
}

func scanConnection(row pgx.Row) (ConnectionRecord, error) {
	var rec ConnectionRecord
	err := row.Scan(
		&rec.ID,
		&rec.RequesterID,
		&rec.ReceiverID,
		&rec.Status,
		&rec.Message,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}
