package noshow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	trendingsvc "github.com/Hareshku/growtogather-backend/internal/services/trending"
)

// Job sweeps confirmed meetings whose scheduled window fully elapsed
// without either party joining and marks them no_show. It also rebuilds
// the shared trending snapshot so request handlers mostly hit a warm
// cache.
type Job struct {
	meetings meetingSweeper
	trending *trendingsvc.Service
	now      func() time.Time
	logger   *zap.Logger
}

type meetingSweeper interface {
	MarkNoShows(ctx context.Context, now time.Time) (int64, error)
}

func New(meetings meetingSweeper, trending *trendingsvc.Service, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		meetings: meetings,
		trending: trending,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.meetings != nil {
		swept, err := j.meetings.MarkNoShows(ctx, j.now().UTC())
		if err != nil {
			return fmt.Errorf("sweep no-show meetings: %w", err)
		}
		if swept > 0 {
			j.logger.Info("no-show sweep completed", zap.Int64("marked", swept))
		}
	}

	if j.trending != nil {
		if _, err := j.trending.Rebuild(ctx); err != nil {
			// A cold trending cache is recoverable; the next request
			// recomputes it.
			j.logger.Warn("trending snapshot rebuild failed", zap.Error(err))
		}
	}

	return nil
}
