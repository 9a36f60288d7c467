package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"flock/internal/handler"
	"flock/internal/logger"
	"flock/internal/middleware"
	"flock/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler        *handler.AuthHandler
	TripHandler        *handler.TripHandler
	RideRequestHandler *handler.RideRequestHandler
	MessageHandler     *handler.MessageHandler
	ReviewHandler      *handler.ReviewHandler
	UserHandler        *handler.UserHandler
	UploadHandler      *handler.UploadHandler
	MetaHandler        *handler.MetaHandler
	Tokens             middleware.TokenParser
	Idempotency        redis.IdempotencyStoreInterface // nil disables replay
	UploadDir          string                          // served at /uploads when set
	NewRelicApp        *newrelic.Application
	Logger             logger.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// New Relic goes before the logger so it can notice logged errors.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}
	router.Use(middleware.RequestLogger(deps.Logger))

	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	idempotent := middleware.IdempotencyMiddleware(deps.Idempotency, deps.Logger)

	router.GET("/health", deps.MetaHandler.Health)
	router.GET("/cities", deps.MetaHandler.GetCities)

	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", deps.AuthHandler.Register)
		authRoutes.POST("/login", deps.AuthHandler.Login)
	}

	trips := router.Group("/trips")
	{
		trips.GET("", optionalAuth, deps.TripHandler.GetAll)
		trips.POST("", requireAuth, idempotent, deps.TripHandler.CreateTrip)
		trips.GET("/:id", optionalAuth, deps.TripHandler.GetTrip)
		trips.PUT("/:id", requireAuth, idempotent, deps.TripHandler.UpdateTrip)
		trips.POST("/:id/cancel", requireAuth, idempotent, deps.TripHandler.CancelTrip)
		trips.POST("/:id/complete", requireAuth, idempotent, deps.TripHandler.CompleteTrip)
		trips.POST("/:id/request", requireAuth, idempotent, deps.RideRequestHandler.CreateRequest)
		trips.GET("/:id/messages", requireAuth, deps.MessageHandler.GetMessages)
		trips.POST("/:id/messages", requireAuth, idempotent, deps.MessageHandler.SendMessage)
		trips.POST("/:id/reviews", requireAuth, idempotent, deps.ReviewHandler.CreateReview)
	}

	requests := router.Group("/requests", requireAuth, idempotent)
	{
		requests.POST("/:id/accept", deps.RideRequestHandler.AcceptRequest)
		requests.POST("/:id/reject", deps.RideRequestHandler.RejectRequest)
		requests.POST("/:id/withdraw", deps.RideRequestHandler.WithdrawRequest)
	}

	users := router.Group("/users")
	{
		users.GET("/:id/reviews", deps.ReviewHandler.GetUserReviews)

		me := users.Group("/me", requireAuth, idempotent)
		me.GET("", deps.UserHandler.GetMe)
		me.PUT("", deps.UserHandler.UpdateMe)
		me.POST("/driver-profile", deps.UserHandler.SaveDriverProfile)
		me.POST("/student-verification", deps.UserHandler.StartStudentVerification)
		me.POST("/student-verification/confirm", deps.UserHandler.ConfirmStudentVerification)
		me.GET("/trips", deps.UserHandler.GetMyTrips)
		me.GET("/requests", deps.RideRequestHandler.GetMine)
		me.GET("/notifications", deps.UserHandler.GetNotifications)
		me.POST("/notifications/read-all", deps.UserHandler.MarkAllNotificationsRead)
		me.POST("/notifications/:id/read", deps.UserHandler.MarkNotificationRead)
		me.GET("/carbon-stats", deps.UserHandler.GetCarbonStats)
	}

	// Photos are uploaded before the account exists, so this route is public.
	router.POST("/uploads/profile-photo", deps.UploadHandler.UploadProfilePhoto)

	return router
}
