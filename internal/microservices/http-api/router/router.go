// Package router assembles the gin engine for the StudyTour API.
package router

import (
	"studytour/internal/microservices/http-api/handler"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services are the business services the routes delegate to.
type Services struct {
	Auth     service.AuthService
	Campsite service.CampsiteService
	Rating   service.RatingService
	Comment  service.CommentService
	Report   service.ReportService
	Follow   service.FollowService
	Admin    service.AdminService
}

type Options struct {
	Logger      *zap.Logger
	CORSOrigins []string
	RateLimit   middleware.RateLimitConfig
	// Redis backs the rate limiter; nil disables it.
	Redis redis.Scripter
	// DB is pinged by /health; nil reports liveness only.
	DB handler.Pinger
}

// New builds the engine with every route mounted under /api.
func New(svc Services, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/health", handler.NewHealthHandler(opts.DB).Health)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(svc.Auth))
	api.Use(middleware.RateLimit(opts.RateLimit, opts.Redis, logger))
	api.Use(middleware.ValidIDParams("id"))

	handler.NewAuthHandler(svc.Auth).RegisterRoutes(api.Group("/auth"))
	handler.NewUserHandler(svc.Auth, svc.Follow).RegisterRoutes(api.Group("/users"))

	campsites := api.Group("/campsites")
	handler.NewCampsiteHandler(svc.Campsite).RegisterRoutes(campsites)
	handler.NewRatingHandler(svc.Rating).RegisterRoutes(campsites)
	commentHandler := handler.NewCommentHandler(svc.Comment, svc.Report)
	commentHandler.RegisterRoutes(campsites)
	commentHandler.RegisterCommentRoutes(api.Group("/comments"))

	admin := api.Group("/admin", middleware.FreshRole(svc.Auth))
	handler.NewAdminHandler(svc.Admin, svc.Report).RegisterRoutes(admin)
	handler.NewCampsiteHandler(svc.Campsite).RegisterAdminRoutes(admin.Group("/campsites"))

	return r
}
