package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Cleanup  CleanupConfig
	Workload WorkloadConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls where uploaded workload files are staged.
type UploadsConfig struct {
	Dir           string
	MaxBytes      int64
	Retention     time.Duration
	SweepInterval time.Duration
}

// CleanupConfig sizes the background queue deleting parsed uploads.
type CleanupConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// WorkloadConfig describes the layout of uploaded workload sheets.
type WorkloadConfig struct {
	HeaderOffset int
}

// AuthConfig gates the generation endpoints behind bearer tokens.
type AuthConfig struct {
	Enabled  bool
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_BYTES")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:           v.GetString("UPLOADS_DIR"),
		MaxBytes:      maxUpload,
		Retention:     parseDuration(v.GetString("UPLOADS_RETENTION"), time.Hour),
		SweepInterval: parseDuration(v.GetString("UPLOADS_SWEEP_INTERVAL"), 15*time.Minute),
	}

	cfg.Cleanup = CleanupConfig{
		Workers:    v.GetInt("CLEANUP_WORKERS"),
		Retries:    v.GetInt("CLEANUP_RETRIES"),
		RetryDelay: parseDuration(v.GetString("CLEANUP_RETRY_DELAY"), time.Second),
	}

	offset := v.GetInt("WORKLOAD_HEADER_OFFSET")
	if offset < 0 {
		offset = 0
	}
	cfg.Workload = WorkloadConfig{HeaderOffset: offset}

	cfg.Auth = AuthConfig{
		Enabled:  v.GetBool("AUTH_ENABLED"),
		Secret:   v.GetString("JWT_SECRET"),
		TokenTTL: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:   v.GetString("JWT_ISSUER"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5001)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("UPLOADS_RETENTION", "1h")
	v.SetDefault("UPLOADS_SWEEP_INTERVAL", "15m")

	v.SetDefault("CLEANUP_WORKERS", 1)
	v.SetDefault("CLEANUP_RETRIES", 3)
	v.SetDefault("CLEANUP_RETRY_DELAY", "1s")

	v.SetDefault("WORKLOAD_HEADER_OFFSET", 5)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "timetable-api")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
