package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleanwave/internal/config"
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/services"
	"cleanwave/pkg/cache"
	"cleanwave/pkg/database"
	"cleanwave/pkg/geocode"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/oauth"
	"cleanwave/pkg/payment"
	"cleanwave/pkg/push"
	"cleanwave/pkg/sms"
	"cleanwave/pkg/storage"
	"cleanwave/pkg/websocket"
	"cleanwave/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Mongo
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	var repoCache mongodb.CacheService
	if redisCache != nil {
		repoCache = redisCache
	}

	// Repositories
	alertRepo := mongodb.NewAlertRepository(db.Database, repoCache)
	userRepo := mongodb.NewUserRepository(db.Database, repoCache)
	postRepo := mongodb.NewPostRepository(db.Database, repoCache)
	eventRepo := mongodb.NewEventRepository(db.Database, repoCache)
	challengeRepo := mongodb.NewChallengeRepository(db.Database, repoCache)
	donationRepo := mongodb.NewDonationRepository(db.Database, repoCache)
	notificationRepo := mongodb.NewNotificationRepository(db.Database, repoCache)
	classificationRepo := mongodb.NewClassificationRepository(db.Database, repoCache)

	// Outbound providers
	geocoder := buildGeocoder(cfg, log)
	paymentProvider := buildPaymentProvider(cfg, log)
	pushProvider := buildPushProvider(cfg, log)
	smsProvider := buildSMSProvider(cfg, log)
	storageProvider := buildStorageProvider(cfg, log)
	oauthProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	wsHandler := websocket.NewHandler(cfg.Security.CORSAllowedOrigins)

	// Services
	alertService := services.NewAlertService(
		alertRepo, userRepo, notificationRepo,
		geocoder, pushProvider, smsProvider,
		wsHandler, cfg.SMS.EscalationPhones, log,
	)
	authService := services.NewAuthService(userRepo, oauthProvider, cfg.Security.JWTSecret, log)
	leaderboardService := services.NewLeaderboardService(userRepo, redisCache, log)
	postService := services.NewPostService(postRepo, userRepo, storageProvider, leaderboardService, wsHandler, log)
	eventService := services.NewEventService(eventRepo, log)
	challengeService := services.NewChallengeService(challengeRepo, leaderboardService, wsHandler, log)
	donationService := services.NewDonationService(donationRepo, paymentProvider, cfg.App.Currency, log)
	classifierService := services.NewClassifierService(
		classificationRepo,
		cfg.Classifier.Endpoint,
		cfg.Classifier.Timeout,
		cfg.Classifier.MaxImageEdge,
		log,
	)
	notificationService := services.NewNotificationService(notificationRepo, wsHandler, log)
	adminService := services.NewAdminService(
		userRepo, postRepo, eventRepo, challengeRepo,
		donationRepo, classificationRepo, alertRepo, log,
	)

	// Handlers
	alertHandler := handlers.NewAlertHandler(alertService)
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)
	eventHandler := handlers.NewEventHandler(eventService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, leaderboardService)
	donationHandler := handlers.NewDonationHandler(donationService)
	classifierHandler := handlers.NewClassifierHandler(classifierService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(log))

	jwtSecret := cfg.Security.JWTSecret

	v1 := router.Group("/api/v1")
	{
		routes.SetupAlertRoutes(v1, alertHandler, jwtSecret)
		routes.SetupAuthRoutes(v1, authHandler, jwtSecret)
		routes.SetupPostRoutes(v1, postHandler, jwtSecret)
		routes.SetupEventRoutes(v1, eventHandler, jwtSecret)
		routes.SetupChallengeRoutes(v1, challengeHandler, jwtSecret)
		routes.SetupDonationRoutes(v1, donationHandler, jwtSecret)
		routes.SetupClassifierRoutes(v1, classifierHandler, jwtSecret)
		routes.SetupNotificationRoutes(v1, notificationHandler, jwtSecret)
		routes.SetupAdminRoutes(v1, adminHandler, jwtSecret)
		routes.SetupWebSocketRoutes(v1, wsHandler, jwtSecret)
	}

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := db.Ping(); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"version": cfg.App.Version,
			"clients": wsHandler.Hub().ClientCount(),
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func buildGeocoder(cfg *config.Config, log *logger.Logger) geocode.Provider {
	switch cfg.Geocode.Provider {
	case "google":
		provider, err := geocode.NewGoogleProvider(cfg.Geocode.GoogleAPIKey)
		if err != nil {
			log.WithError(err).Warn("Google geocoder unavailable, falling back to Nominatim")
			break
		}
		return provider
	}

	return geocode.NewNominatimProvider(
		cfg.Geocode.NominatimBaseURL,
		cfg.Geocode.UserAgent,
		cfg.Geocode.Timeout,
	)
}

func buildPaymentProvider(cfg *config.Config, log *logger.Logger) payment.Provider {
	switch cfg.Payment.Provider {
	case "stripe":
		return payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
	default:
		return payment.NewRazorpayProvider(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
		)
	}
}

func buildPushProvider(cfg *config.Config, log *logger.Logger) push.Provider {
	if !cfg.Push.Enabled {
		return nil
	}

	if cfg.Push.FCMCredentialsFile != "" {
		provider, err := push.NewFCMProvider(cfg.Push.FCMCredentialsFile)
		if err != nil {
			log.WithError(err).Warn("FCM unavailable")
		} else {
			return provider
		}
	}

	if cfg.Push.APNSKeyFile != "" {
		provider, err := push.NewAPNSProvider(
			cfg.Push.APNSKeyFile,
			cfg.Push.APNSKeyID,
			cfg.Push.APNSTeamID,
			cfg.Push.APNSTopic,
			cfg.Push.APNSProduction,
		)
		if err != nil {
			log.WithError(err).Warn("APNs unavailable")
		} else {
			return provider
		}
	}

	return nil
}

func buildSMSProvider(cfg *config.Config, log *logger.Logger) sms.Provider {
	if !cfg.SMS.Enabled {
		return nil
	}

	switch cfg.SMS.Provider {
	case "sns":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.SNS.Region)
		if err != nil {
			log.WithError(err).Warn("SNS unavailable")
			return nil
		}
		return provider
	default:
		return sms.NewTwilioProvider(
			cfg.SMS.Twilio.AccountSID,
			cfg.SMS.Twilio.AuthToken,
			cfg.SMS.Twilio.FromNumber,
		)
	}
}

func buildStorageProvider(cfg *config.Config, log *logger.Logger) storage.Provider {
	switch cfg.Storage.Provider {
	case "s3":
		provider, err := storage.NewAWSS3Storage(cfg.Storage.S3.Region, cfg.Storage.S3.Bucket)
		if err == nil {
			return provider
		}
		log.WithError(err).Warn("S3 unavailable, falling back to local storage")
	case "gcs":
		provider, err := storage.NewGCPStorage(cfg.Storage.GCS.Bucket, cfg.Storage.GCS.CredentialsFile)
		if err == nil {
			return provider
		}
		log.WithError(err).Warn("GCS unavailable, falling back to local storage")
	}

	provider, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize local storage")
	}

	return provider
}
