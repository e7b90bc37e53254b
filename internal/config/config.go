package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultDatabaseURL = "maternity.db"
)

type Config struct {
	AppEnv            string        `mapstructure:"APP_ENV"`
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBQueryTimeout    time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	RecommendCacheTTL time.Duration `mapstructure:"RECOMMEND_CACHE_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	CORSOrigins       []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MediaBackend      string        `mapstructure:"MEDIA_BACKEND"`
	MediaDir          string        `mapstructure:"MEDIA_DIR"`
	MediaURLBase      string        `mapstructure:"MEDIA_URL_BASE"`
	S3Bucket          string        `mapstructure:"S3_BUCKET"`
	S3Region          string        `mapstructure:"S3_REGION"`
	S3Endpoint        string        `mapstructure:"S3_ENDPOINT"`
	S3AccessKey       string        `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey       string        `mapstructure:"S3_SECRET_KEY"`
	InternalToken     string        `mapstructure:"INTERNAL_TOKEN"`
}

var keys = []string{
	"APP_ENV", "PORT", "DATABASE_URL", "DB_QUERY_TIMEOUT", "JWT_SECRET", "JWT_TTL",
	"REDIS_URL", "RECOMMEND_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
	"MEDIA_BACKEND", "MEDIA_DIR", "MEDIA_URL_BASE", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
	"S3_ACCESS_KEY", "S3_SECRET_KEY", "INTERNAL_TOKEN",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RECOMMEND_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("MEDIA_DIR", "./uploads")
	v.SetDefault("MEDIA_URL_BASE", "/static/uploads")
	v.SetDefault("S3_REGION", "us-east-1")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.MediaBackend = strings.ToLower(strings.TrimSpace(cfg.MediaBackend))
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.DBQueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be > 0")
	}
	if cfg.RecommendCacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be > 0")
	}

	switch cfg.MediaBackend {
	case "local":
		if strings.TrimSpace(cfg.MediaDir) == "" {
			return fmt.Errorf("MEDIA_DIR must not be empty for local media backend")
		}
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 media backend")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.InternalToken) == "" {
			return fmt.Errorf("in prod/release INTERNAL_TOKEN must be set")
		}
	}

	return nil
}

func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
