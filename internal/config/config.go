package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StorageDriver string
	DatabaseURL   string
	MigratePath   string
	StoreTimeout  time.Duration

	RedisURL        string
	RankingCacheTTL time.Duration

	JWTSecret string

	CORSOrigins string

	CommentPageSize      int
	NotificationPageSize int

	// MemorySeedPosts registers "post:author" pairs with the in-memory
	// post store. Ignored for the postgres driver.
	MemorySeedPosts []string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigratePath:   getEnv("MIGRATE_PATH", "./migrations"),
		StoreTimeout:  getDurationEnv("STORE_TIMEOUT", 5*time.Second),

		RedisURL:        getEnv("REDIS_URL", ""),
		RankingCacheTTL: getDurationEnv("RANKING_CACHE_TTL", time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		CommentPageSize:      getIntEnv("COMMENT_PAGE_SIZE", 5),
		NotificationPageSize: getIntEnv("NOTIFICATION_PAGE_SIZE", 10),

		MemorySeedPosts: getListEnv("MEMORY_SEED_POSTS"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
