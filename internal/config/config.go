package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Host           string        `yaml:"host" env:"SERVER_HOST"`
	Port           int           `yaml:"port" env:"SERVER_PORT"`
	Env            string        `yaml:"env" env:"SERVER_ENV"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" env:"SHUTDOWN_GRACE"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"DATABASE_DRIVER"` // postgres | sqlite
	DSN             string        `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type AuthConfig struct {
	Provider                string `yaml:"provider" env:"AUTH_PROVIDER"` // jwt | firebase
	JWTSecret               string `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer               string `yaml:"jwt_issuer" env:"JWT_ISSUER"`
	JWTAudience             string `yaml:"jwt_audience" env:"JWT_AUDIENCE"`
	FirebaseProjectID       string `yaml:"firebase_project_id" env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
}

type TranslationConfig struct {
	APIKey  string        `yaml:"api_key" env:"GOOGLE_TRANSLATE_API_KEY"`
	Locales []string      `yaml:"locales" env:"SUPPORTED_LOCALES" envSeparator:","`
	Timeout time.Duration `yaml:"timeout" env:"TRANSLATION_TIMEOUT"`
}

type RatePolicyConfig struct {
	Limit  int64         `yaml:"limit" env:"LIMIT"`
	Window time.Duration `yaml:"window" env:"WINDOW"`
}

type RateLimitConfig struct {
	JobCreate        RatePolicyConfig `yaml:"job_create" envPrefix:"RATE_JOB_CREATE_"`
	MessageSend      RatePolicyConfig `yaml:"message_send" envPrefix:"RATE_MESSAGE_SEND_"`
	ProfileBootstrap RatePolicyConfig `yaml:"profile_bootstrap" envPrefix:"RATE_PROFILE_BOOTSTRAP_"`
}

type CacheConfig struct {
	CategoriesTTL time.Duration `yaml:"categories_ttl" env:"CACHE_CATEGORIES_TTL"`
}

type JobsConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JOBS_DEFAULT_TTL"`
}

type NotificationsConfig struct {
	Retention       time.Duration `yaml:"retention" env:"NOTIFICATIONS_RETENTION"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"NOTIFICATIONS_CLEANUP_INTERVAL"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled" env:"EMAIL_ENABLED"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" env:"EMAIL_FROM"`
	FromName     string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	TemplatesDir string `yaml:"templates_dir" env:"TEMPLATES_DIR"`
}

type StorageConfig struct {
	Type            string `yaml:"type" env:"STORAGE_TYPE"` // local, s3, cloudflare_r2, gcs
	BasePath        string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
	BaseURL         string `yaml:"base_url" env:"STORAGE_BASE_URL"`
	Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
	Region          string `yaml:"region" env:"STORAGE_REGION"`
	AccessKey       string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey       string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	CredentialsFile string `yaml:"credentials_file" env:"STORAGE_CREDENTIALS_FILE"`
	PublicRead      bool   `yaml:"public_read" env:"STORAGE_PUBLIC_READ"`
}

type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE"`
	AllowedTypes []string `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES" envSeparator:","`
}

type AdminConfig struct {
	Emails []string `yaml:"emails" env:"ADMIN_EMAILS" envSeparator:","`
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Translation   TranslationConfig   `yaml:"translation"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Cache         CacheConfig         `yaml:"cache"`
	Jobs          JobsConfig          `yaml:"jobs"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Email         EmailConfig         `yaml:"email"`
	Storage       StorageConfig       `yaml:"storage"`
	Upload        UploadConfig        `yaml:"upload"`
	Admin         AdminConfig         `yaml:"admin"`
}

var AppConfig *Config

// Default возвращает конфигурацию для локального запуска
func Default() Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.ShutdownGrace = 10 * time.Second

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30 * time.Minute
	cfg.Database.AutoMigrate = true

	cfg.Redis.Addr = "localhost:6379"

	cfg.Auth.Provider = "jwt"
	cfg.Auth.JWTAudience = "authenticated"

	cfg.Translation.Locales = []string{"en", "ru", "th"}
	cfg.Translation.Timeout = 10 * time.Second

	cfg.RateLimit.JobCreate = RatePolicyConfig{Limit: 10, Window: time.Hour}
	cfg.RateLimit.MessageSend = RatePolicyConfig{Limit: 60, Window: time.Minute}
	cfg.RateLimit.ProfileBootstrap = RatePolicyConfig{Limit: 5, Window: time.Minute}

	cfg.Cache.CategoriesTTL = 10 * time.Minute
	cfg.Jobs.DefaultTTL = 30 * 24 * time.Hour
	cfg.Notifications.Retention = 90 * 24 * time.Hour
	cfg.Notifications.CleanupInterval = time.Hour

	cfg.Email.SMTPPort = 587
	cfg.Email.TemplatesDir = "internal/email/templates"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

	return cfg
}

// Load читает YAML-файл (если он есть) и накладывает переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// файл не обязателен: env-only режим (docker, тесты)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Auth.Provider {
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return errors.New("jwt secret is required for auth provider jwt (JWT_SECRET)")
		}
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return errors.New("firebase project id is required for auth provider firebase")
		}
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}
	if len(c.Translation.Locales) == 0 {
		return errors.New("at least one locale is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig загружает конфиг в AppConfig, путь берется из CONFIG_PATH
func LoadConfig() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}
