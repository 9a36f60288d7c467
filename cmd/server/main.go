package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"flock/internal/app"
	"flock/internal/auth"
	"flock/internal/broker"
	"flock/internal/config"
	"flock/internal/geo"
	"flock/internal/handler"
	"flock/internal/logger"
	internalRedis "flock/internal/redis"
	"flock/internal/repository/postgres"
	"flock/internal/service"
	"flock/internal/storage"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	log := logger.New("flock", cfg.LogLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		log.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", logger.Error(err))
		} else {
			log.Info("New Relic enabled", logger.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := app.Migrate(db, log); err != nil {
			log.Error("failed to migrate database", logger.Error(err))
			os.Exit(1)
		}
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	var publisher service.EventPublisher
	if cfg.Broker.URL != "" {
		p, err := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Warn("RabbitMQ unavailable, notifications will only be logged", logger.Error(err))
		} else {
			defer p.Close()
			publisher = p
			log.Info("connected to RabbitMQ", logger.String("exchange", cfg.Broker.Exchange))
		}
	}

	store, uploadDir, err := newStore(cfg.Storage)
	if err != nil {
		log.Error("failed to initialize photo storage", logger.Error(err))
		os.Exit(1)
	}

	server, sweeper := wireServer(db, redisClient, publisher, store, uploadDir, nrApp, cfg, log)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweeper.Run(runCtx)

	go func() {
		log.Info("starting server", logger.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// newStore picks S3 when a bucket is configured and the local directory otherwise.
// The returned directory is empty for S3.
func newStore(cfg config.StorageConfig) (storage.Store, string, error) {
	if cfg.Bucket != "" {
		s, err := storage.NewS3Store(cfg.Bucket, cfg.Region, cfg.AccessKey, cfg.SecretKey)
		return s, "", err
	}
	s, err := storage.NewLocalStore(cfg.LocalDir, cfg.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return s, s.Dir(), nil
}

// wireServer wires all dependencies and returns the HTTP server and the trip sweeper.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
	store storage.Store,
	uploadDir string,
	nrApp *newrelic.Application,
	cfg *config.Config,
	log logger.Logger,
) (*http.Server, *service.Sweeper) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cities := geo.Default()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	idempotencyStore := internalRedis.NewIdempotencyStore(redisClient)

	// Initialize repositories.
	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	requestRepo := postgres.NewRideRequestRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	carbonRepo := postgres.NewCarbonRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(notificationRepo, publisher, log.With(logger.String("component", "notifications")))
	carbonService := service.NewCarbonService(carbonRepo, cities, cacheStore, log.With(logger.String("component", "carbon")))
	authService := service.NewAuthService(userRepo, tokens, log.With(logger.String("component", "auth")))
	userService := service.NewUserService(userRepo, cfg.Auth.ExposeVerificationCodes, log.With(logger.String("component", "users")))
	tripService := service.NewTripService(tx, tripRepo, requestRepo, userRepo, cities, notificationService, carbonService, log.With(logger.String("component", "trips")))
	requestService := service.NewRideRequestService(tx, tripRepo, requestRepo, notificationService, carbonService, log.With(logger.String("component", "requests")))
	messageService := service.NewMessageService(tripRepo, requestRepo, messageRepo, userRepo)
	reviewService := service.NewReviewService(tripRepo, requestRepo, reviewRepo, userRepo)
	uploadService := service.NewUploadService(store)
	sweeper := service.NewSweeper(tripService, lockStore, cfg.Sweeper.Interval, cfg.Sweeper.LockTTL, log.With(logger.String("component", "sweeper")))

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(authService),
		TripHandler:        handler.NewTripHandler(tripService),
		RideRequestHandler: handler.NewRideRequestHandler(requestService),
		MessageHandler:     handler.NewMessageHandler(messageService),
		ReviewHandler:      handler.NewReviewHandler(reviewService),
		UserHandler:        handler.NewUserHandler(userService, tripService, notificationService, carbonService),
		UploadHandler:      handler.NewUploadHandler(uploadService),
		MetaHandler:        handler.NewMetaHandler(cities),
		Tokens:             tokens,
		Idempotency:        idempotencyStore,
		UploadDir:          uploadDir,
		NewRelicApp:        nrApp,
		Logger:             log.With(logger.String("component", "http")),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sweeper
}
