package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hareshku/growtogather-backend/internal/config"
	"github.com/Hareshku/growtogather-backend/internal/infra/httpclient"
	s3infra "github.com/Hareshku/growtogather-backend/internal/infra/s3"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
	redrepo "github.com/Hareshku/growtogather-backend/internal/repo/redis"
	analyticssvc "github.com/Hareshku/growtogather-backend/internal/services/analytics"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	badgessvc "github.com/Hareshku/growtogather-backend/internal/services/badges"
	connectionssvc "github.com/Hareshku/growtogather-backend/internal/services/connections"
	mediasvc "github.com/Hareshku/growtogather-backend/internal/services/media"
	meetingssvc "github.com/Hareshku/growtogather-backend/internal/services/meetings"
	moderationsvc "github.com/Hareshku/growtogather-backend/internal/services/moderation"
	postssvc "github.com/Hareshku/growtogather-backend/internal/services/posts"
	recsvc "github.com/Hareshku/growtogather-backend/internal/services/recommendations"
	reviewssvc "github.com/Hareshku/growtogather-backend/internal/services/reviews"
	trendingsvc "github.com/Hareshku/growtogather-backend/internal/services/trending"
	userssvc "github.com/Hareshku/growtogather-backend/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.AllowedOrigins)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	skillRepo := pgrepo.NewSkillRepo(pool)
	postRepo := pgrepo.NewPostRepo(pool)
	meetingRepo := pgrepo.NewMeetingRepo(pool)
	connectionRepo := pgrepo.NewConnectionRepo(pool)
	reviewRepo := pgrepo.NewReviewRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, userRepo, sessionRepo, cfg.Auth.RefreshTTL)
	userService := userssvc.NewService(userRepo, skillRepo)
	postService := postssvc.NewService(postRepo)
	recommendationService := recsvc.NewService(postRepo, skillRepo).WithLimits(recsvc.Limits{
		CandidateCap: cfg.Matching.CandidateCap,
		DefaultLimit: cfg.Matching.DefaultLimit,
		MaxLimit:     cfg.Matching.MaxLimit,
	})
	trendingService := trendingsvc.NewService(postRepo, cacheRepo, log)
	connectionService := connectionssvc.NewService(connectionRepo, userRepo)
	meetingService := meetingssvc.NewService(meetingRepo, connectionRepo)
	reviewService := reviewssvc.NewService(reviewRepo, meetingRepo)
	analyticsService := analyticssvc.NewService(eventRepo, rateRepo, log)
	moderationService := moderationsvc.NewService(reportRepo, postRepo, userRepo)
	badgeNotifier := badgessvc.NewNotifier(
		httpclient.New(cfg.Badges.Timeout),
		cfg.Badges.BaseURL,
		cfg.Badges.Token,
		log,
	)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(userRepo, mediaStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AnalyticsService:      analyticsService,
		AuthService:           authService,
		BadgeNotifier:         badgeNotifier,
		ConnectionService:     connectionService,
		MediaService:          mediaService,
		MeetingService:        meetingService,
		ModerationService:     moderationService,
		PostService:           postService,
		RecommendationService: recommendationService,
		ReviewService:         reviewService,
		TrendingService:       trendingService,
		UserService:           userService,
		Logger:                log,
		Config:                cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
