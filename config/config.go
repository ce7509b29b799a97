package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, loaded from the environment
// with an optional .env file on top.
type Config struct {
	Addr   string
	DBPath string
}

// Load reads .env when present (a missing file is fine; the system
// environment wins either way) and resolves defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:   getEnv("ADDR", ":5000"),
		DBPath: getEnv("DB_PATH", "biblioteca.db"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
