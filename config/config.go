package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Env            string
	Port           string
	BackendURL     string
	RequestTimeout time.Duration
	MenuAutoSeed   bool
	AdminToken     string

	CORSAllowedOrigins []string
	OrderRatePerMinute int
	OrderRateBurst     int

	RedisURL       string
	IdempotencyTTL time.Duration

	OrderSNSTopicARN  string
	CloudWatchEnabled bool

	TelegramBotToken string
	TelegramChatID   int64
}

const defaultBackendURL = "http://localhost:8000"

// Load reads configuration from the .env file and the environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "3000"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", getEnv("VITE_BACKEND_URL", defaultBackendURL)), "/"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		MenuAutoSeed:   getBool("MENU_AUTO_SEED", true),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		OrderRatePerMinute: getInt("ORDER_RATE_PER_MINUTE", 30),
		OrderRateBurst:     getInt("ORDER_RATE_BURST", 5),

		RedisURL:       os.Getenv("REDIS_URL"),
		IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		OrderSNSTopicARN:  os.Getenv("ORDER_SNS_TOPIC_ARN"),
		CloudWatchEnabled: getBool("CLOUDWATCH_ENABLED", false),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getInt64("TELEGRAM_CHAT_ID", 0),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
