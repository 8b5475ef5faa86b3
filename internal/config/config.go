package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/models"
)

type Config struct {
	PORT string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	REDIS_ADDR string

	KAFKA_BROKERS []string
	FEED_DEBOUNCE time.Duration

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	ADMIN_PASSWORD      string
	ADMIN_PASSWORD_HASH string
	ADMIN_TOKEN_SECRET  string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT: envDefault("PORT", "8080"),

		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		REDIS_ADDR: os.Getenv("REDIS_ADDR"),

		KAFKA_BROKERS: csv(os.Getenv("KAFKA_BROKERS")),
		FEED_DEBOUNCE: time.Duration(envIntDefault("FEED_DEBOUNCE_MS", 150)) * time.Millisecond,

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		ADMIN_PASSWORD:      os.Getenv("ADMIN_PASSWORD"),
		ADMIN_PASSWORD_HASH: os.Getenv("ADMIN_PASSWORD_HASH"),
		ADMIN_TOKEN_SECRET:  os.Getenv("ADMIN_TOKEN_SECRET"),

		LOG_LEVEL: os.Getenv("LOG_LEVEL"),
	}

	if config.ADMIN_PASSWORD == "" && config.ADMIN_PASSWORD_HASH == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if config.ADMIN_TOKEN_SECRET == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN_SECRET is required")
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Room{}, &models.Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
