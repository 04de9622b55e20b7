package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Hareshku/growtogather-backend/internal/config"
	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
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
	"github.com/Hareshku/growtogather-backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AnalyticsService      *analyticssvc.Service
	AuthService           *authsvc.Service
	BadgeNotifier         *badgessvc.Notifier
	ConnectionService     *connectionssvc.Service
	MediaService          *mediasvc.Service
	MeetingService        *meetingssvc.Service
	ModerationService     *moderationsvc.Service
	PostService           *postssvc.Service
	RecommendationService *recsvc.Service
	ReviewService         *reviewssvc.Service
	TrendingService       *trendingsvc.Service
	UserService           *userssvc.Service
	Logger                *zap.Logger
	Config                config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	meHandler := handlers.NewMeHandler(deps.UserService, deps.MediaService)
	postsHandler := handlers.NewPostsHandler(deps.PostService, deps.BadgeNotifier)
	recommendationsHandler := handlers.NewRecommendationsHandler(deps.RecommendationService, deps.TrendingService)
	meetingsHandler := handlers.NewMeetingsHandler(deps.MeetingService, deps.BadgeNotifier)
	connectionsHandler := handlers.NewConnectionsHandler(deps.ConnectionService)
	reviewsHandler := handlers.NewReviewsHandler(deps.ReviewService, deps.BadgeNotifier)
	eventsHandler := handlers.NewEventsHandler(deps.AnalyticsService)
	adminHandler := handlers.NewAdminHandler(deps.ModerationService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	optionalAuthMW := OptionalAuthMiddleware(deps.AuthService)
	adminRoleMW := RequireRole(string(enums.RoleAdmin))

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", meHandler.Profile)
			r.Put("/", meHandler.UpdateProfile)
			r.Post("/skills", meHandler.AddSkill)
			r.Delete("/skills/{skillID}", meHandler.RemoveSkill)
			r.Post("/avatar", meHandler.UploadAvatar)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", postsHandler.Create)
			r.Get("/mine", postsHandler.ListMine)
			r.Get("/{postID}", postsHandler.Get)
			r.Put("/{postID}", postsHandler.Update)
			r.Delete("/{postID}", postsHandler.Delete)
		})

		r.With(authMW).Get("/recommendations/personalized", recommendationsHandler.Personalized)
		r.Get("/recommendations/trending", recommendationsHandler.Trending)

		r.Route("/meetings", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", meetingsHandler.Create)
			r.Get("/", meetingsHandler.List)
			r.Get("/{meetingID}", meetingsHandler.Get)
			r.Put("/{meetingID}/accept", meetingsHandler.Transition("accept"))
			r.Put("/{meetingID}/decline", meetingsHandler.Transition("decline"))
			r.Put("/{meetingID}/cancel", meetingsHandler.Transition("cancel"))
			r.Put("/{meetingID}/join", meetingsHandler.Transition("join"))
			r.Put("/{meetingID}/complete", meetingsHandler.Transition("complete"))
		})

		r.Route("/connections", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", connectionsHandler.Request)
			r.Get("/", connectionsHandler.List)
			r.Put("/{connectionID}/respond", connectionsHandler.Respond)
		})

		r.With(authMW).Post("/reviews", reviewsHandler.Submit)
		r.With(authMW).Get("/users/{userID}/reviews", reviewsHandler.ForUser)

		r.With(optionalAuthMW).Post("/events", eventsHandler.Track)

		r.With(authMW).Post("/reports", adminHandler.Report)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW, adminRoleMW)
			r.Get("/reports", adminHandler.OpenReports)
			r.Put("/reports/{reportID}", adminHandler.ResolveReport)
			r.Post("/posts/{postID}/remove", adminHandler.RemovePost)
			r.Post("/posts/{postID}/restore", adminHandler.RestorePost)
			r.Post("/users/{userID}/ban", adminHandler.BanUser)
		})
	})
}
