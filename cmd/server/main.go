package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/trashunter/internal/config"
	"github.com/shenikar/trashunter/internal/evidence"
	"github.com/shenikar/trashunter/internal/geofence"
	v1 "github.com/shenikar/trashunter/internal/handler/http/v1"
	"github.com/shenikar/trashunter/internal/repository"
	"github.com/shenikar/trashunter/internal/service"
	"github.com/shenikar/trashunter/internal/webhook"
	"github.com/shenikar/trashunter/pkg/logger"
	"github.com/shenikar/trashunter/pkg/postgres"
	redisclient "github.com/shenikar/trashunter/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/trashunter/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title trashunter API
// @version 1.0
// @description Pollution markers: report, clean up, and list with a server-side geofence check.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.Migrations, cfg.DatabaseURL, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	evidenceStore, uploadDir, err := newEvidenceStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize evidence storage: %v", err)
	}

	webhookPublisher := webhook.NewRedisPublisher(redisClient)
	webhookWorker := webhook.NewWorker(redisClient, log, webhook.Settings{
		URL:        cfg.WebhookURL,
		Secret:     cfg.WebhookSecret,
		Timeout:    cfg.WebhookTimeout,
		MaxRetries: cfg.WebhookMaxRetries,
		BaseDelay:  cfg.WebhookBaseDelay,
	})
	webhookWorker.Start(ctx)

	markerRepo := repository.NewMarkerRepository(dbpool, redisClient, cfg.CacheTTL)
	markerService := service.NewMarkerService(markerRepo, evidenceStore, webhookPublisher, geofence.New(cfg.GeofenceRadius), log)
	handler := v1.NewHandler(markerService, log, cfg)

	router := gin.Default()
	router.MaxMultipartMemory = v1.MaxEvidenceBytes
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	if uploadDir != "" {
		router.Static("/uploads", uploadDir)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	cancel()
	webhookWorker.Wait()
	log.Info("Server gracefully stopped")
}

// newEvidenceStore выбирает MinIO, если он настроен, иначе локальный каталог под /uploads
func newEvidenceStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.EvidenceStore, string, error) {
	if cfg.MinioEndpoint != "" {
		store, err := evidence.NewMinioStore(evidence.MinioConfig{
			Endpoint:   cfg.MinioEndpoint,
			AccessKey:  cfg.MinioAccessKey,
			SecretKey:  cfg.MinioSecretKey,
			Bucket:     cfg.MinioBucket,
			UseSSL:     cfg.MinioUseSSL,
			Region:     cfg.MinioRegion,
			PublicBase: cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		log.WithFields(logrus.Fields{"bucket": cfg.MinioBucket, "region": cfg.MinioRegion}).Info("Evidence is stored in MinIO")
		return store, "", nil
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("http://localhost:%s", cfg.HTTPPort)
	}
	store, err := evidence.NewDiskStore(cfg.UploadDir, publicBase)
	if err != nil {
		return nil, "", err
	}
	log.WithField("dir", cfg.UploadDir).Info("Evidence is stored on disk")
	return store, store.Dir(), nil
}
