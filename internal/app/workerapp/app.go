package workerapp

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hareshku/growtogather-backend/internal/config"
	"github.com/Hareshku/growtogather-backend/internal/jobs/noshow"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	redrepo "github.com/Hareshku/growtogather-backend/internal/repo/redis"
	trendingsvc "github.com/Hareshku/growtogather-backend/internal/services/trending"
)

// App runs the periodic maintenance jobs: the no-show meeting sweep and
// the trending snapshot rebuild.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	postgres *pgxpool.Pool
	redis    *goredis.Client
	job      *noshow.Job
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres for worker app: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cacheRepo := redrepo.NewCacheRepo(redisClient)

	meetingRepo := pgrepo.NewMeetingRepo(pool)
	postRepo := pgrepo.NewPostRepo(pool)
	trendingService := trendingsvc.NewService(postRepo, cacheRepo, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		postgres: pool,
		redis:    redisClient,
		job:      noshow.New(meetingRepo, trendingService, logger),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	interval := a.cfg.Worker.SweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	a.logger.Info("worker started", zap.Duration("sweep_interval", interval))

	if err := a.job.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("worker stopped")
			return nil
		case <-ticker.C:
			if err := a.job.Run(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
