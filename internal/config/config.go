// Package config loads runtime settings from the environment, an optional .env file and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting.
type Config struct {
	AppPort          string
	WSPort           string
	DBDriver         string
	DatabaseDSN      string
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	RabbitMQURL      string
	RabbitMQExchange string
	RabbitMQQueue    string
	AllowedOrigins   []string
}

// ErrMissingSecret is returned when JWT_SECRET is empty.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// New returns a viper instance with every default set and environment lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("WS_PORT", ":8081")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "devtinder.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "devtinder.events")
	v.SetDefault("RABBITMQ_QUEUE", "devtinder_events")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.AutomaticEnv() // Load environment variables
	return v
}

// Load reads .env (if present), then CONFIG_FILE (if set), then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := New()
	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from v and checks it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:          v.GetString("APP_PORT"),
		WSPort:           v.GetString("WS_PORT"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		RabbitMQQueue:    v.GetString("RABBITMQ_QUEUE"),
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS")),
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %q", v.GetString("TOKEN_TTL"))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
