package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации обоих бинарников (сервер и дашборд)
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"3001"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Кеш происшествий и канал событий
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	EventsChannel string        `env:"EVENTS_CHANNEL" envDefault:"occurrence_events"`

	// Auth Config
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	// API Keys для машинных клиентов
	APIKeys []string `env:"API_KEYS"`

	// Geocoding Config
	GeocoderURL       string        `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderRegion    string        `env:"GEOCODER_REGION" envDefault:"Recife, PE, Brasil"`
	GeocoderCountry   string        `env:"GEOCODER_COUNTRY" envDefault:"br"`
	GeocoderUserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"SisOcc-App/1.0"`
	GeocoderTimeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"10s"`
	FallbackLat       float64       `env:"FALLBACK_LAT" envDefault:"-8.0476"`
	FallbackLng       float64       `env:"FALLBACK_LNG" envDefault:"-34.877"`

	// Push Config
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	FCMTopic                string `env:"FCM_TOPIC" envDefault:"ocorrencias-prioritarias"`

	// Dashboard Config
	DashboardPort    string        `env:"DASHBOARD_PORT" envDefault:"8090"`
	BackendURL       string        `env:"BACKEND_URL" envDefault:"http://localhost:3001/api"`
	LiveURL          string        `env:"LIVE_URL" envDefault:"ws://localhost:3001/api/live"`
	SyncEmail        string        `env:"SYNC_EMAIL"`
	SyncPassword     string        `env:"SYNC_PASSWORD"`
	TokenFile        string        `env:"TOKEN_FILE" envDefault:".sisocc_session.json"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RefreshInterval  time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	ReconnectDelay   time.Duration `env:"LIVE_RECONNECT_DELAY" envDefault:"5s"`
	MapClusterRadius int           `env:"MAP_CLUSTER_RADIUS" envDefault:"80"`
	MapTileURL       string        `env:"MAP_TILE_URL" envDefault:"https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		HTTPPort:                getEnv("HTTP_PORT", "3001"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		CacheTTL:                getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		EventsChannel:           getEnv("EVENTS_CHANNEL", "occurrence_events"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTTTL:                  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		GeocoderURL:             getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderRegion:          getEnv("GEOCODER_REGION", "Recife, PE, Brasil"),
		GeocoderCountry:         getEnv("GEOCODER_COUNTRY", "br"),
		GeocoderUserAgent:       getEnv("GEOCODER_USER_AGENT", "SisOcc-App/1.0"),
		GeocoderTimeout:         getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second),
		FallbackLat:             getEnvAsFloat("FALLBACK_LAT", -8.0476),
		FallbackLng:             getEnvAsFloat("FALLBACK_LNG", -34.877),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		FCMTopic:                getEnv("FCM_TOPIC", "ocorrencias-prioritarias"),
		DashboardPort:           getEnv("DASHBOARD_PORT", "8090"),
		BackendURL:              getEnv("BACKEND_URL", "http://localhost:3001/api"),
		LiveURL:                 getEnv("LIVE_URL", "ws://localhost:3001/api/live"),
		SyncEmail:               os.Getenv("SYNC_EMAIL"),
		SyncPassword:            os.Getenv("SYNC_PASSWORD"),
		TokenFile:               getEnv("TOKEN_FILE", ".sisocc_session.json"),
		RequestTimeout:          getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		RefreshInterval:         getEnvAsDuration("REFRESH_INTERVAL", 30*time.Second),
		ReconnectDelay:          getEnvAsDuration("LIVE_RECONNECT_DELAY", 5*time.Second),
		MapClusterRadius:        getEnvAsInt("MAP_CLUSTER_RADIUS", 80),
		MapTileURL:              getEnv("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	return cfg, nil
}

// ValidateServer проверяет параметры, обязательные для сервера
func (c *Config) ValidateServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// ValidateDashboard проверяет параметры, обязательные для агента синхронизации
func (c *Config) ValidateDashboard() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL environment variable is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
