package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration

	// RedisURL is optional. Without it the featured cache and the rate
	// limiter are disabled.
	RedisURL    string
	CORSOrigins []string

	DefaultPageLimit int
	MaxPageLimit     int
	FeaturedLimit    int
	FeaturedCacheTTL time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		MongoURI:          getEnvOrDefault("MONGO_URI", ""),
		DBName:            getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		CORSOrigins:       getListEnv("CORS_ORIGINS"),
		DefaultPageLimit:  getIntEnv("DEFAULT_PAGE_LIMIT", 20),
		MaxPageLimit:      getIntEnv("MAX_PAGE_LIMIT", 100),
		FeaturedLimit:     getIntEnv("FEATURED_LIMIT", 8),
		FeaturedCacheTTL:  getDurationEnv("FEATURED_CACHE_TTL", 60, time.Second),
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", 60, time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("config: ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
