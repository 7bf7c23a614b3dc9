package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/sisocc/internal/client"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/geocode"
	"github.com/shenikar/sisocc/internal/handler/http/dashboard"
	"github.com/shenikar/sisocc/internal/intake"
	"github.com/shenikar/sisocc/internal/liveupdate"
	"github.com/shenikar/sisocc/internal/mapview"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/store"
	"github.com/shenikar/sisocc/pkg/logger"
	"github.com/sirupsen/logrus"
)

// authenticate проверяет сохраненную сессию и при необходимости входит заново
func authenticate(ctx context.Context, api *client.Client, cfg *config.Config, log *logrus.Logger) error {
	if api.Session().Authenticated() {
		user, err := api.Me(ctx)
		if err == nil {
			log.WithField("email", user.Email).Info("Restored persisted session")
			return nil
		}
		log.WithError(err).Warn("Persisted session rejected, logging in again")
	}

	if cfg.SyncEmail == "" || cfg.SyncPassword == "" {
		return fmt.Errorf("no valid session and SYNC_EMAIL/SYNC_PASSWORD are not set")
	}
	user, err := api.Login(ctx, cfg.SyncEmail, cfg.SyncPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	log.WithField("email", user.Email).Info("Logged in to backend")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateDashboard(); err != nil {
		logrus.Fatalf("Invalid dashboard config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, "dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Сессия передается клиенту явно и переживает перезапуск через файл
	session := client.NewSession(client.NewFileTokenStore(cfg.TokenFile), log)
	api := client.New(client.Options{BaseURL: cfg.BackendURL, Timeout: cfg.RequestTimeout}, session, log)

	if err := authenticate(ctx, api, cfg, log); err != nil {
		log.Fatalf("Failed to authenticate: %v", err)
	}

	fallback := models.Point{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng}

	// Хранилище и слой карты, перестраиваемый после каждого изменения
	occurrences := store.New(api, log)
	layer := mapview.NewLayer(mapview.Options{
		ClusterRadius: cfg.MapClusterRadius,
		TileURL:       cfg.MapTileURL,
		Center:        fallback,
	}, log)
	occurrences.Subscribe(func() { layer.Update(occurrences.Snapshot()) })

	geocoder := geocode.NewNominatim(geocode.Options{
		BaseURL:      cfg.GeocoderURL,
		RegionSuffix: cfg.GeocoderRegion,
		CountryCodes: cfg.GeocoderCountry,
		UserAgent:    cfg.GeocoderUserAgent,
		Timeout:      cfg.GeocoderTimeout,
	}, log)
	registrar := intake.NewRegistrar(occurrences, geocoder, fallback, log)

	// Канал живых обновлений
	live := liveupdate.New(liveupdate.Options{
		URL:            cfg.LiveURL,
		ReconnectDelay: cfg.ReconnectDelay,
		TokenSource:    session.Token,
	}, liveupdate.Handlers{
		OnCreated: occurrences.HandleCreated,
		OnUpdated: occurrences.HandleUpdated,
		OnDeleted: occurrences.HandleDeleted,
	}, log)
	live.Acquire()
	defer live.Release()

	// Первое обновление; ошибка только логируется, дальше работает таймер
	if err := occurrences.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Initial refresh failed")
	}
	go occurrences.Run(ctx, cfg.RefreshInterval)

	handler := dashboard.NewHandler(occurrences, registrar, layer, geocoder, live, log)

	// Настройка Gin роутера
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), metrics.GinMiddleware())
	handler.RegisterRoutes(router.Group("/api"))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.DashboardPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("Dashboard API started on port %s", cfg.DashboardPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down dashboard...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Dashboard forced to shutdown: %v", err)
	}

	log.Info("Dashboard gracefully stopped")
}
