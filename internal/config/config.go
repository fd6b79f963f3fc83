package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecret    string
	FrontendURL  string
	APIURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	LogLevel     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on environment variables")
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "3001"),
		DatabasePath: getEnv("DATABASE_PATH", "phoenix.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		APIURL:       getEnv("API_URL", "http://localhost:3001"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
