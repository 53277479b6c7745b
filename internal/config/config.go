package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config/config.yaml"
	placeholderJWTSecret = "change-me"
)

type PoolConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	SalesInbox   string `yaml:"sales_inbox"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigin   string        `yaml:"allowed_origin"`
	} `yaml:"server"`
	Database struct {
		DSN  string     `yaml:"url"`
		Pool PoolConfig `yaml:"pool"`
	} `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	// Region used to parse phone numbers written without a country prefix.
	PhoneRegion string `yaml:"phone_region"`
	// TTF used by PDF reports; empty means the built-in Helvetica.
	PDFFontPath string `yaml:"pdf_font_path"`
}

// LoadConfig reads the yaml file named by CRM_CONFIG (config/config.yaml by
// default), applies CRM_* environment overrides and fills defaults. A missing
// file is not an error: env + defaults are enough to boot against sqlite.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	path := os.Getenv("CRM_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CRM_DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CRM_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("CRM_ADMIN_EMAIL"); v != "" {
		cfg.Auth.AdminEmail = v
	}
	if v := os.Getenv("CRM_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.AdminPassword = v
	}
	if v := os.Getenv("CRM_SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("CRM_TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("CRM_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CRM_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.AllowedOrigin == "" {
		cfg.Server.AllowedOrigin = "*"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "crm.db"
	}
	if cfg.Database.Pool.MaxOpenConns == 0 {
		cfg.Database.Pool.MaxOpenConns = 10
	}
	if cfg.Database.Pool.MaxIdleConns == 0 {
		cfg.Database.Pool.MaxIdleConns = 5
	}
	if cfg.Database.Pool.ConnMaxLifetime == 0 {
		cfg.Database.Pool.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.Database.Pool.ConnMaxIdleTime == 0 {
		cfg.Database.Pool.ConnMaxIdleTime = 10 * time.Minute
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = placeholderJWTSecret
		log.Printf("[config][warn] auth.jwt_secret is not set, using the placeholder secret; set CRM_JWT_SECRET before deploying")
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 30
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = "US"
	}
}
