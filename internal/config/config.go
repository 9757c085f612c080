package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultSessionSecret = "change-me-in-production"

type Config struct {
	Port        string     `yaml:"port"`
	Environment string     `yaml:"environment"`
	LogLevel    slog.Level `yaml:"-"`
	LogLevelRaw string     `yaml:"log_level"`

	DatabaseURL        string        `yaml:"database_url"`
	DatabaseMaxRetries int           `yaml:"database_max_retries"`
	DatabaseRetryDelay time.Duration `yaml:"database_retry_delay"`

	RedisURL string `yaml:"redis_url"`

	// Origins allowed to make credentialed cross-origin requests
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	UploadRoot    string `yaml:"upload_root"`
	MaxUploadSize int64  `yaml:"max_upload_size"`

	Session SessionConfig `yaml:"session"`
	Admin   AdminConfig   `yaml:"admin"`
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	CookieName    string        `yaml:"cookie_name"`
	TTL           time.Duration `yaml:"ttl"`
	PersistentTTL time.Duration `yaml:"persistent_ttl"`
	Secure        bool          `yaml:"secure"`
}

// AdminConfig is the account seeded at first boot when no admin exists
type AdminConfig struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoadConfig reads .env (if present), the environment and, when CONFIG_FILE
// is set, a YAML overlay.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevelRaw: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseMaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		DatabaseRetryDelay: getEnvDuration("DB_RETRY_DELAY", 2*time.Second),

		RedisURL: getEnv("REDIS_URL", ""),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		UploadRoot:    getEnv("UPLOAD_ROOT", "wwwroot"),
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,

		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", defaultSessionSecret),
			CookieName:    getEnv("SESSION_COOKIE", "jobboard_session"),
			TTL:           getEnvDuration("SESSION_TTL", 30*time.Minute),
			PersistentTTL: getEnvDuration("SESSION_PERSISTENT_TTL", 14*24*time.Hour),
			Secure:        getEnvBool("SESSION_SECURE", false),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@jobportal.com"),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "Admin@1234"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == defaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
