package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yeremiapane/foodcart-app/utils"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DBDriver        string
	DBDSN           string
	YandexAPIKey    string
	GeocoderURL     string
	GeocoderTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBDSN:           getEnv("DB_DSN", "foodcart.db"),
		YandexAPIKey:    os.Getenv("YANDEX_APIKEY"),
		GeocoderURL:     getEnv("GEOCODER_URL", "https://geocode-maps.yandex.ru"),
		GeocoderTimeout: getDuration("GEOCODER_TIMEOUT", 5*time.Second),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 100),
	}

	if cfg.YandexAPIKey == "" {
		utils.InfoLogger.Println("Warning: YANDEX_APIKEY is not set, new addresses will stay without coordinates")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
