package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrRateLimit  = errors.New("too many interaction events")
)

const (
	maxBatchSize      = 50
	rateWindow        = time.Minute
	rateWindowBudget  = 60
	rateKeyAnonymous  = "events:anon"
	rateKeyUserPrefix = "events:user:"
)

type EventStore interface {
	InsertInteractions(ctx context.Context, userID *int64, events []pgrepo.InteractionWriteRecord) error
}

type RateWindow interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Event struct {
	PostID int64
	Action enums.InteractionAction
}

type Service struct {
	events EventStore
	rate   RateWindow
	log    *zap.Logger
	now    func() time.Time
}

func NewService(events EventStore, rate RateWindow, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		events: events,
		rate:   rate,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Track records interaction events for later aggregation. Tracking is
// telemetry, never ranking input, so callers treat failures as advisory.
func (s *Service) Track(ctx context.Context, userID *int64, batch []Event) error {
	if len(batch) == 0 {
		return nil
	}
	if len(batch) > maxBatchSize {
		return fmt.Errorf("%w: at most %d events per request", ErrValidation, maxBatchSize)
	}
	for _, event := range batch {
		if event.PostID <= 0 {
			return fmt.Errorf("%w: postId", ErrValidation)
		}
		switch event.Action {
		case enums.InteractionView, enums.InteractionClick, enums.InteractionContact:
		default:
			return fmt.Errorf("%w: action %q", ErrValidation, event.Action)
		}
	}

	if err := s.allow(ctx, userID); err != nil {
		return err
	}

	occurredAt := s.now()
	records := make([]pgrepo.InteractionWriteRecord, 0, len(batch))
	for _, event := range batch {
		records = append(records, pgrepo.InteractionWriteRecord{
			PostID:     event.PostID,
			Action:     string(event.Action),
			OccurredAt: occurredAt,
		})
	}
	if err := s.events.InsertInteractions(ctx, userID, records); err != nil {
		return fmt.Errorf("insert interactions: %w", err)
	}
	return nil
}

func (s *Service) allow(ctx context.Context, userID *int64) error {
	if s.rate == nil {
		return nil
	}
	key := rateKeyAnonymous
	if userID != nil && *userID > 0 {
		key = fmt.Sprintf("%s%d", rateKeyUserPrefix, *userID)
	}

	count, _, err := s.rate.IncrementWindow(ctx, key, rateWindow)
	if err != nil {
		// A broken limiter must not drop telemetry on the floor.
		s.log.Warn("interaction rate window unavailable", zap.Error(err))
		return nil
	}
	if count > rateWindowBudget {
		return ErrRateLimit
	}
	return nil
}
