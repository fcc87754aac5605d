package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings, read from the environment and an optional .env file.
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
	HTTP     HTTPConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Port     string // fiber listen address, e.g. ":5000"
	LogLevel string
}

// DBConfig selects the GORM dialect and its DSN.
type DBConfig struct {
	Driver string // postgres | sqlite | memory
	DSN    string
}

// JWTConfig bearer token settings.
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// RabbitMQConfig inventory events broker. An empty URL disables events.
type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// HTTPConfig HTTP layer settings.
type HTTPConfig struct {
	CORSOrigins string // comma separated
}

// Load reads the configuration. Environment variables win over the .env file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // the file is optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	expiresIn, err := ParseDuration(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: expiresIn,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		HTTP: HTTPConfig{
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
	}

	if cfg.JWT.Secret == "" {
		if cfg.App.Env != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.App.Env)
		}
		cfg.JWT.Secret = "dev-only-secret"
	}
	switch cfg.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:medfind.db?cache=shared")
	v.SetDefault("JWT_EXPIRES_IN", "7d")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "inventory")
	v.SetDefault("RABBITMQ_QUEUE", "inventory_events")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
}

// ParseDuration accepts Go durations ("168h") and whole days ("7d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
