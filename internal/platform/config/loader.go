package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

// Loader reads configuration from a YAML file layered over DefaultConfig,
// with a handful of environment overrides for secrets.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader reading the default config path.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      defaultPath,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load reads defaults, the YAML file and environment overrides, in that order.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		_ = godotenv.Load()
	}

	path := l.path
	if env := os.Getenv("MEGA_CONFIG"); env != "" {
		path = env
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEGA_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("MEGA_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("MEGA_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MEGA_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MEGA_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.AdminPassword = v
	}
	if v := os.Getenv("MEGA_ADMIN_APPROVE_IP"); v != "" {
		cfg.Auth.AdminApproveIP = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret not configured (set auth.secret or MEGA_JWT_SECRET)")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid token TTL: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminApproveIP == "" {
		return fmt.Errorf("seed admin %q has no approved IP (set auth.admin_approve_ip or MEGA_ADMIN_APPROVE_IP)", cfg.Auth.AdminUsername)
	}
	return nil
}
