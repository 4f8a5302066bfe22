package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ConfigOr reads a value like Config but falls back when the key is unset
// or empty.
func ConfigOr(key, fallback string) string {
	if value := Config(key); value != "" {
		return value
	}
	return fallback
}
