package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Export   ExportConfig   `mapstructure:"export"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Scan     ScanConfig     `mapstructure:"scan"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
	// PublicBaseURL 用于拼接分享链接，例如 https://cv.example.com。
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	// PublicEndpoint 用于生成浏览器可访问的预签名链接。
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// ExportConfig 控制打印页地址、无头浏览器和导出限流。
type ExportConfig struct {
	// PrintBaseURL is where the headless browser reaches the print routes.
	PrintBaseURL   string        `mapstructure:"print_base_url"`
	InternalSecret string        `mapstructure:"internal_secret"`
	Driver         string        `mapstructure:"driver"`
	BrowserBin     string        `mapstructure:"browser_bin"`
	MaxConcurrent  int64         `mapstructure:"max_concurrent"`
	CaptureTimeout time.Duration `mapstructure:"capture_timeout"`
	ReadyTimeout   time.Duration `mapstructure:"ready_timeout"`
	SettleTimeout  time.Duration `mapstructure:"settle_timeout"`
	// RateLimitPerHour 为 0 时不限流。
	RateLimitPerHour int `mapstructure:"rate_limit_per_hour"`
}

// AuthConfig points at the RS256 public key used to verify access tokens.
type AuthConfig struct {
	PublicKeyPath string `mapstructure:"public_key_path"`
}

// ScanConfig configures the optional clamd photo scan. Empty address disables it.
type ScanConfig struct {
	ClamdAddr string `mapstructure:"clamd_addr"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.public_base_url", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvrender")
	v.SetDefault("database.user", "cvrender")
	v.SetDefault("database.password", "cvrender")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("export.print_base_url", "http://localhost:8080")
	v.SetDefault("export.driver", "rod")
	v.SetDefault("export.max_concurrent", 2)
	v.SetDefault("export.capture_timeout", 60*time.Second)
	v.SetDefault("export.ready_timeout", 30*time.Second)
	v.SetDefault("export.settle_timeout", 5*time.Second)
	v.SetDefault("export.rate_limit_per_hour", 30)
	v.SetDefault("auth.public_key_path", "keys/public.pem")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                   "API_PORT",
		"api.public_base_url":        "PUBLIC_BASE_URL",
		"database.host":              "DATABASE_HOST",
		"database.port":              "DATABASE_PORT",
		"database.name":              "POSTGRES_DB",
		"database.user":              "POSTGRES_USER",
		"database.password":          "POSTGRES_PASSWORD",
		"database.sslmode":           "DATABASE_SSLMODE",
		"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
		"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
		"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",
		"redis.host":                 "REDIS_HOST",
		"redis.port":                 "REDIS_PORT",
		"minio.endpoint":             "MINIO_ENDPOINT",
		"minio.access_key_id":        "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":    "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":              "MINIO_USE_SSL",
		"minio.bucket":               "MINIO_BUCKET",
		"minio.public_endpoint":      "MINIO_PUBLIC_ENDPOINT",
		"minio.region":               "MINIO_REGION",
		"minio.bucket_lookup":        "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":   "MINIO_AUTO_CREATE_BUCKET",
		"export.print_base_url":      "PRINT_BASE_URL",
		"export.internal_secret":     "INTERNAL_API_SECRET",
		"export.driver":              "PDF_DRIVER",
		"export.browser_bin":         "CHROME_BIN",
		"export.max_concurrent":      "PDF_MAX_CONCURRENT",
		"export.capture_timeout":     "PDF_CAPTURE_TIMEOUT",
		"export.ready_timeout":       "PDF_READY_TIMEOUT",
		"export.settle_timeout":      "PDF_SETTLE_TIMEOUT",
		"export.rate_limit_per_hour": "PDF_RATE_LIMIT_PER_HOUR",
		"auth.public_key_path":       "JWT_PUBLIC_KEY_PATH",
		"scan.clamd_addr":            "CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Database.MaxOpenConns <= 0 || cfg.Database.MaxIdleConns < 0 {
		return errors.New("database pool sizes must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return validateExport(cfg.Export)
}

func validateExport(e ExportConfig) error {
	u, err := url.Parse(e.PrintBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("export print base url must be an absolute http(s) url")
	}
	if strings.TrimSpace(e.InternalSecret) == "" {
		return errors.New("export internal secret is required")
	}
	switch strings.ToLower(e.Driver) {
	case "rod", "chromedp":
	default:
		return fmt.Errorf("export driver %q is not supported", e.Driver)
	}
	if e.MaxConcurrent <= 0 {
		return errors.New("export max concurrent must be positive")
	}
	if e.CaptureTimeout <= 0 {
		return errors.New("export capture timeout must be positive")
	}
	if e.RateLimitPerHour < 0 {
		return errors.New("export rate limit must not be negative")
	}
	return nil
}
