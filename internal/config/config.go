package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"
)

type Config struct {
	ServerAddr    string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CORSOrigins   []string
	LogLevel      string
}

func Load() *Config {
	return &Config{
		ServerAddr:    getEnvOrDefault("SERVER_ADDR", ":8080"),
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "todoapp"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", generateDefaultSecret()),
		CORSOrigins:   splitOrigins(getEnvOrDefault("CORS_ORIGINS", "*")),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func generateDefaultSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "dev-secret-change-in-production"
	}
	return hex.EncodeToString(bytes)
}
