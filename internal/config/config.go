package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	YahooBaseURL  string
	StaticDir     string
}

func Load() *Config {
	// A local .env is optional; real deployments set the environment directly.
	godotenv.Load()

	return &Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "stockwatch"),
		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		YahooBaseURL:  getenv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		StaticDir:     getenv("STATIC_DIR", "static"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
