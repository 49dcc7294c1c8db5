package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - конфигурация сервера маркеров
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Migrations  string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`

	// Redis Config
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"MARKER_CACHE_TTL" envDefault:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Geofence
	GeofenceRadius float64 `env:"GEOFENCE_RADIUS_METERS" envDefault:"275"`

	// Evidence storage
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"trashunter"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`
	MinioRegion    string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// ClientConfig - конфигурация клиента
type ClientConfig struct {
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MarkerAPIURL    string        `env:"MARKER_API_URL" envDefault:"http://localhost:8080"`
	APIKey          string        `env:"MARKER_API_KEY"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	GeofenceRadius  float64       `env:"GEOFENCE_RADIUS_METERS" envDefault:"275"`
	ReportReward    int           `env:"REPORT_REWARD" envDefault:"50"`
	CleanupReward   int           `env:"CLEANUP_REWARD" envDefault:"100"`
	AlertTTL        time.Duration `env:"ALERT_TTL" envDefault:"3s"`
	WarningTTL      time.Duration `env:"WARNING_TTL" envDefault:"4s"`
	UserID          string        `env:"USER_ID"`
	UserLat         string        `env:"USER_LAT"`
	UserLng         string        `env:"USER_LNG"`
	ProfileRedis    string        `env:"PROFILE_REDIS_ADDR"`
	ProfileRedisDB  int           `env:"PROFILE_REDIS_DB" envDefault:"0"`
	LeaderboardSize int           `env:"LEADERBOARD_SIZE" envDefault:"20"`
}

// LoadConfig загружает конфигурацию сервера из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Migrations:        getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		CacheTTL:          getEnvAsDuration("MARKER_CACHE_TTL", 5*time.Minute),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		GeofenceRadius:    getEnvAsFloat("GEOFENCE_RADIUS_METERS", 275),
		PublicBaseURL:     strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:     os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:       getEnv("MINIO_BUCKET", "trashunter"),
		MinioUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinioPublicURL:    os.Getenv("MINIO_PUBLIC_URL"),
		MinioRegion:       getEnv("MINIO_REGION", "us-east-1"),
		APIKeys:           splitList(os.Getenv("API_KEYS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// LoadClientConfig загружает конфигурацию клиента
func LoadClientConfig() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MarkerAPIURL:    strings.TrimRight(getEnv("MARKER_API_URL", "http://localhost:8080"), "/"),
		APIKey:          os.Getenv("MARKER_API_KEY"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		PollInterval:    getEnvAsDuration("POLL_INTERVAL", 2*time.Second),
		GeofenceRadius:  getEnvAsFloat("GEOFENCE_RADIUS_METERS", 275),
		ReportReward:    getEnvAsInt("REPORT_REWARD", 50),
		CleanupReward:   getEnvAsInt("CLEANUP_REWARD", 100),
		AlertTTL:        getEnvAsDuration("ALERT_TTL", 3*time.Second),
		WarningTTL:      getEnvAsDuration("WARNING_TTL", 4*time.Second),
		UserID:          os.Getenv("USER_ID"),
		UserLat:         os.Getenv("USER_LAT"),
		UserLng:         os.Getenv("USER_LNG"),
		ProfileRedis:    os.Getenv("PROFILE_REDIS_ADDR"),
		ProfileRedisDB:  getEnvAsInt("PROFILE_REDIS_DB", 0),
		LeaderboardSize: getEnvAsInt("LEADERBOARD_SIZE", 20),
	}

	if cfg.MarkerAPIURL == "" {
		return nil, fmt.Errorf("MARKER_API_URL must not be empty")
	}

	return cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

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
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
