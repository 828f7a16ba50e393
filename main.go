package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mangrove-be/config"
	"mangrove-be/controllers"
	"mangrove-be/events"
	"mangrove-be/middlewares"
	"mangrove-be/models"
	"mangrove-be/repositories"
	"mangrove-be/routes"
	"mangrove-be/services"
	"mangrove-be/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if !cfg.EnvFileLoaded {
		logger.Info("No .env file found, using the process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := config.ConnectDB(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	if err := models.EnsureIndexes(indexCtx, db); err != nil {
		logger.Warn("Could not ensure indexes", zap.Error(err))
	}
	cancel()

	redisClient, err := config.ConnectRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	var reportLimiter gin.HandlerFunc
	if redisClient != nil {
		defer redisClient.Close()

		redisPublisher := events.NewRedisPublisher(redisClient, cfg.RedisEventsChannel)
		publisher = redisPublisher
		go logReportEvents(ctx, redisPublisher, logger)

		reportLimiter = middlewares.ReportRateLimiter(redisClient, cfg.RedisReportLimitQueue, cfg.ReportSubmissionLimit, logger)
	}

	photoStore, uploadDir, err := newPhotoStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to set up photo storage", zap.Error(err))
	}

	users := repositories.NewUserRepository(db, cfg.DBTimeout)
	reports := repositories.NewReportRepository(db, cfg.DBTimeout)
	auditLogs := repositories.NewAuditLogRepository(db, cfg.DBTimeout)

	handlers := routes.Handlers{
		Users:         controllers.NewUserController(services.NewUserService(users, logger)),
		Reports:       controllers.NewReportController(services.NewReportService(reports, auditLogs, publisher, logger)),
		Uploads:       controllers.NewUploadController(photoStore, cfg.UploadMaxBytes, logger),
		ReportLimiter: reportLimiter,
		UploadDir:     uploadDir,
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger), middlewares.CORS(cfg.CorsAllowedOrigins))
	routes.Setup(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("upload_backend", cfg.UploadBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
}

// newPhotoStorage returns the configured upload backend and, for the disk
// backend, the directory to serve under /uploads.
func newPhotoStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	if cfg.UploadBackend == config.UploadBackendS3 {
		client, err := config.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Storage(client, cfg.S3.Bucket, cfg.S3.PublicURL), "", nil
	}

	disk, err := storage.NewDiskStorage(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Dir(), nil
}

// logReportEvents mirrors the report event stream into the server log.
func logReportEvents(ctx context.Context, publisher *events.RedisPublisher, logger *zap.Logger) {
	stream, err := publisher.Subscribe(ctx)
	if err != nil {
		logger.Warn("Report event stream unavailable", zap.Error(err))
		return
	}
	for event := range stream {
		logger.Debug("Report event",
			zap.String("type", event.Type),
			zap.String("report_id", event.ReportID),
			zap.String("status", event.Status),
		)
	}
}
