package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration of the API server.
type Config struct {
	AppPort            string        `mapstructure:"APP_PORT"`
	DatabaseDriver     string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN        string        `mapstructure:"DATABASE_DSN"`
	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiry  time.Duration `mapstructure:"ACCESS_TOKEN_EXPIRY"`
	RefreshTokenSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiry time.Duration `mapstructure:"REFRESH_TOKEN_EXPIRY"`
	CORSOrigin         string        `mapstructure:"CORS_ORIGIN"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	PaginationMaxLimit int           `mapstructure:"PAGINATION_MAX_LIMIT"`
	UploadTempDir      string        `mapstructure:"UPLOAD_TEMP_DIR"`
	BodyLimitBytes     int           `mapstructure:"BODY_LIMIT_BYTES"`
	RabbitMQURL        string        `mapstructure:"RABBITMQ_URL"`
	RateLimitRequests  int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow    time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	Media              MediaConfig   `mapstructure:",squash"`
}

// MediaConfig selects and configures the remote media-object store.
type MediaConfig struct {
	Driver         string `mapstructure:"MEDIA_DRIVER"`
	Bucket         string `mapstructure:"MEDIA_BUCKET"`
	Region         string `mapstructure:"MEDIA_REGION"`
	Endpoint       string `mapstructure:"MEDIA_ENDPOINT"`
	AccessKey      string `mapstructure:"MEDIA_ACCESS_KEY"`
	SecretKey      string `mapstructure:"MEDIA_SECRET_KEY"`
	UseSSL         bool   `mapstructure:"MEDIA_USE_SSL"`
	PublicBaseURL  string `mapstructure:"MEDIA_PUBLIC_BASE_URL"`
	FFProbeEnabled bool   `mapstructure:"FFPROBE_ENABLED"`
}

var keys = []string{
	"APP_PORT", "DATABASE_DRIVER", "DATABASE_DSN",
	"ACCESS_TOKEN_SECRET", "ACCESS_TOKEN_EXPIRY", "REFRESH_TOKEN_SECRET", "REFRESH_TOKEN_EXPIRY",
	"CORS_ORIGIN", "LOG_LEVEL", "LOG_FORMAT", "PAGINATION_MAX_LIMIT", "UPLOAD_TEMP_DIR",
	"BODY_LIMIT_BYTES", "RABBITMQ_URL", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "RATE_LIMIT_BURST",
	"MEDIA_DRIVER", "MEDIA_BUCKET", "MEDIA_REGION", "MEDIA_ENDPOINT", "MEDIA_ACCESS_KEY",
	"MEDIA_SECRET_KEY", "MEDIA_USE_SSL", "MEDIA_PUBLIC_BASE_URL", "FFPROBE_ENABLED",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=vidtube port=5432 sslmode=disable")
	v.SetDefault("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	v.SetDefault("REFRESH_TOKEN_EXPIRY", 240*time.Hour)
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PAGINATION_MAX_LIMIT", 100)
	v.SetDefault("UPLOAD_TEMP_DIR", "./public/temp")
	v.SetDefault("BODY_LIMIT_BYTES", 512*1024*1024)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("MEDIA_DRIVER", "s3")
	v.SetDefault("MEDIA_REGION", "us-east-1")
	v.SetDefault("FFPROBE_ENABLED", true)
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.PaginationMaxLimit < 1 {
		return errors.New("PAGINATION_MAX_LIMIT must be at least 1")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return errors.New("DATABASE_DRIVER must be postgres or sqlite")
	}
	return nil
}
