package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPath          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	GinMode         string
	ServerAddr      string
}

func Load() *Config {
	// .env is optional; deployed environments set variables directly
	_ = godotenv.Load()

	return &Config{
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "taskuser"),
		DBPassword:      getEnv("DB_PASSWORD", "taskpassword"),
		DBName:          getEnv("DB_NAME", "task_reminder"),
		DBPath:          getEnv("DB_PATH", "task_reminder.db"),
		JWTSecret:       getEnv("JWT_SECRET", "default-secret-key-change-me"),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 30*24*time.Hour),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		GinMode:         getEnv("GIN_MODE", "debug"),
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
