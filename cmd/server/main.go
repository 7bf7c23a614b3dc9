package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/events"
	"github.com/shenikar/sisocc/internal/geocode"
	v1 "github.com/shenikar/sisocc/internal/handler/http/v1"
	"github.com/shenikar/sisocc/internal/hub"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/push"
	"github.com/shenikar/sisocc/internal/repository"
	"github.com/shenikar/sisocc/internal/service"
	"github.com/shenikar/sisocc/pkg/logger"
	"github.com/shenikar/sisocc/pkg/postgres"
	redisclient "github.com/shenikar/sisocc/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/sisocc/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SisOcc API
// @version 1.0
// @description Civil defense occurrence tracking server: occurrences, authentication and live updates.
// @host localhost:3001
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		logrus.Fatalf("Invalid server config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, "server")

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// WebSocket hub и ретранслятор событий из Redis
	liveHub := hub.NewHub(log)
	go liveHub.Run(ctx)

	relay := events.NewRelay(redisClient, cfg.EventsChannel, liveHub, log)
	relay.Start(ctx)

	publisher := events.NewRedisPublisher(redisClient, cfg.EventsChannel)

	// Push-уведомления включаются только при наличии ключа сервисного аккаунта
	var notifier service.Notifier
	if cfg.FirebaseCredentialsPath != "" {
		fcm, err := push.NewFirebaseNotifier(ctx, cfg.FirebaseCredentialsPath, cfg.FCMTopic, log)
		if err != nil {
			log.WithError(err).Warn("Push notifications disabled")
		} else {
			notifier = fcm
		}
	}

	geocoder := geocode.NewNominatim(geocode.Options{
		BaseURL:      cfg.GeocoderURL,
		RegionSuffix: cfg.GeocoderRegion,
		CountryCodes: cfg.GeocoderCountry,
		UserAgent:    cfg.GeocoderUserAgent,
		Timeout:      cfg.GeocoderTimeout,
	}, log)

	// Инициализация репозиториев
	occurrenceRepo := repository.NewOccurrenceRepository(dbpool, redisClient, cfg.CacheTTL)
	userRepo := repository.NewUserRepository(dbpool)

	// Инициализация сервисов
	occurrenceService := service.NewOccurrenceService(occurrenceRepo, geocoder, publisher, notifier, log, cfg)
	authService := service.NewAuthService(userRepo, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(occurrenceService, authService, liveHub, log, cfg)

	// Настройка Gin роутера
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), metrics.GinMiddleware())
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	// Метрики и Swagger UI
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем hub и ретранслятор событий
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
