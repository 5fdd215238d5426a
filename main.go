package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/cache"
	"marketplace-service/internal/config"
	"marketplace-service/internal/db"
	opsgrpc "marketplace-service/internal/grpc"
	"marketplace-service/internal/handlers"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/middleware"
	"marketplace-service/internal/observability"
	"marketplace-service/internal/rabbitmq"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/storage"
	"marketplace-service/internal/telemetry"
	"marketplace-service/internal/ws"
)

const serviceName = "marketplace-service"

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to db")
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	logger.WithFields(logrus.Fields{
		"mode":   rabbitmq.PublisherMode(publisher),
		"reason": rabbitmq.PublisherNoopReason(publisher),
	}).Info("event publisher ready")
	audit := telemetry.NewAuditEmitter(publisher, cfg.AMQP.AuditRoutingKey, serviceName, cfg.Env)

	var profileCache cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.URL)
		if err != nil {
			logger.WithError(err).Warn("profile cache disabled")
		} else {
			defer redisCache.Close()
			profileCache = redisCache
		}
	}

	userRepo := repositories.NewUserRepo(database)
	listingRepo := repositories.NewListingRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reviewRepo := repositories.NewReviewRepo(database)
	favoriteRepo := repositories.NewFavoriteRepo(database)
	savedSearchRepo := repositories.NewSavedSearchRepo(database)

	users := cache.NewUserDirectory(userRepo, profileCache, cfg.Redis.ProfileTTL, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	media := storage.NewS3Storage(cfg.S3)

	registry := ws.NewRegistry(cfg.Live.WriteTimeout)
	dispatcher := ws.NewDispatcher(registry, logger)
	messages := messaging.NewService(conversationRepo, messageRepo, listingRepo, users, dispatcher, logger)

	authHandler := handlers.NewAuthHandler(userRepo, users, tokens, audit, logger)
	userHandler := handlers.NewUserHandler(users)
	listingHandler := handlers.NewListingHandler(listingRepo, favoriteRepo, users, media, audit, logger)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, listingRepo, users, users, audit, logger)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, listingHandler)
	savedSearchHandler := handlers.NewSavedSearchHandler(savedSearchRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(listingRepo)
	messageHandler := handlers.NewMessageHandler(messages, audit)
	liveHandler := ws.NewLiveHandler(registry, cfg.Live.MaxMessageSize, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		observability.RequestIDMiddleware(),
		observability.RequestLogger(logger),
		observability.HTTPMetricsMiddleware(),
	)

	authRequired := middleware.AuthMiddleware(tokens, users)
	authOptional := middleware.OptionalAuthMiddleware(tokens, users)

	api := router.Group("/api")
	handlers.RegisterReferenceRoutes(api)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authRequired, authHandler.Me)

	api.PUT("/users/profile", authRequired, userHandler.UpdateProfile)
	api.GET("/users/:user_id", userHandler.GetProfile)
	api.GET("/users/:user_id/reviews", reviewHandler.ListReviews)

	api.POST("/listings", authRequired, listingHandler.CreateListing)
	api.GET("/listings", authOptional, listingHandler.ListListings)
	api.GET("/listings/:listing_id", listingHandler.GetListing)

	api.POST("/reviews", authRequired, reviewHandler.CreateReview)

	api.POST("/favorites/:listing_id", authRequired, favoriteHandler.AddFavorite)
	api.DELETE("/favorites/:listing_id", authRequired, favoriteHandler.RemoveFavorite)
	api.GET("/favorites", authRequired, favoriteHandler.ListFavorites)

	api.POST("/saved-searches", authRequired, savedSearchHandler.SaveSearch)
	api.GET("/saved-searches", authRequired, savedSearchHandler.ListSearches)

	api.GET("/analytics", authRequired, analyticsHandler.SellerReport)

	api.POST("/messages", authRequired, messageHandler.SendMessage)
	api.GET("/conversations", authRequired, messageHandler.ListConversations)
	api.GET("/conversations/:conversation_id/messages", authRequired, messageHandler.GetMessages)
	api.POST("/conversations/:conversation_id/read", authRequired, messageHandler.MarkRead)

	router.GET("/ws/:user_id", liveHandler.Handle)
	router.GET("/healthz", handlers.Healthz(database))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, registry, cfg.Debug)

	ops := opsgrpc.NewOpsServer(logger)
	opsLis, err := net.Listen("tcp", ":"+cfg.Ops.GRPCPort)
	if err != nil {
		logger.WithError(err).Fatal("failed to listen on ops port")
	}
	go func() {
		if err := ops.Serve(opsLis); err != nil {
			logger.WithError(err).Error("ops grpc server stopped")
		}
	}()
	go ops.WatchDatabase(ctx, database, 10*time.Second)

	srv := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		logger.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown incomplete")
	}
	registry.Close()
	ops.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Warn("tracing shutdown failed")
	}
}

func newLogger(cfg config.Logging) *logrus.Logger {
	logger := logrus.StandardLogger()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
