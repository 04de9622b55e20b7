package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

type InteractionWriteRecord struct {
	PostID     int64
	Action     string
	OccurredAt time.Time
}

func (r *EventRepo) InsertInteractions(ctx context.Context, userID *int64, events []InteractionWriteRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if len(events) == 0 {
		return nil
	}

	batchValues := make([]any, 0, len(events)*4)
	query := `INSERT INTO post_interactions (user_id, post_id, action, occurred_at) VALUES `
	for i, event := range events {
		if i > 0 {
			query += ", "
		}
		base := i * 4
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		batchValues = append(batchValues, userID, event.PostID, event.Action, event.OccurredAt.UTC())
	}

	if _, err := r.pool.Exec(ctx, query, batchValues...); err != nil {
		return fmt.Errorf("insert post interactions: %w", err)
	}
	return nil
}
