// Package config loads realty settings from .env, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SMTP holds outgoing mail settings.
type SMTP struct {
	Host string `yaml:"host,omitempty"`
	Port string `yaml:"port,omitempty"`
	User string `yaml:"user,omitempty"`
	Pass string `yaml:"pass,omitempty"`
	From string `yaml:"from,omitempty"`
}

// Admin is the identity of the bootstrap administrator.
type Admin struct {
	Name     string `yaml:"name,omitempty"`
	Surname  string `yaml:"surname,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty"`
	Address  string `yaml:"address,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Config holds realty configuration.
type Config struct {
	DBPath    string `yaml:"db_path,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	DevMode   bool   `yaml:"dev_mode,omitempty"`
	SMTP      SMTP   `yaml:"smtp,omitempty"`
	Admin     Admin  `yaml:"admin,omitempty"`
}

// ErrMissingSecret is returned by Validate when no secret key is set outside dev mode.
var ErrMissingSecret = errors.New("REALTY_SECRET_KEY is required unless dev mode is on")

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "realty", "config.yaml"), nil
}

// Load reads .env from the working directory if present, then the YAML file
// at path, then REALTY_* environment variables. Later sources win.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{SMTP: SMTP{Port: "587"}}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOrDefault("REALTY_DB", cfg.DBPath)
	cfg.SecretKey = envOrDefault("REALTY_SECRET_KEY", cfg.SecretKey)
	if v := os.Getenv("REALTY_DEV_MODE"); v != "" {
		cfg.DevMode = v == "true"
	}

	cfg.SMTP.Host = envOrDefault("REALTY_SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = envOrDefault("REALTY_SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.User = envOrDefault("REALTY_SMTP_USER", cfg.SMTP.User)
	cfg.SMTP.Pass = envOrDefault("REALTY_SMTP_PASS", cfg.SMTP.Pass)
	cfg.SMTP.From = envOrDefault("REALTY_SMTP_FROM", cfg.SMTP.From)

	cfg.Admin.Name = envOrDefault("REALTY_ADMIN_NAME", cfg.Admin.Name)
	cfg.Admin.Surname = envOrDefault("REALTY_ADMIN_SURNAME", cfg.Admin.Surname)
	cfg.Admin.Email = envOrDefault("REALTY_ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Phone = envOrDefault("REALTY_ADMIN_PHONE", cfg.Admin.Phone)
	cfg.Admin.Address = envOrDefault("REALTY_ADMIN_ADDRESS", cfg.Admin.Address)
	cfg.Admin.Password = envOrDefault("REALTY_ADMIN_PASSWORD", cfg.Admin.Password)
}

// Validate checks settings that commands cannot run without.
func (c Config) Validate() error {
	if c.SecretKey == "" && !c.DevMode {
		return ErrMissingSecret
	}
	return nil
}

// devSecretKey signs sessions in dev mode when no secret key is set.
const devSecretKey = "realty-dev-secret"

// SigningKey returns the key sessions are signed with.
func (c Config) SigningKey() string {
	if c.SecretKey == "" && c.DevMode {
		return devSecretKey
	}
	return c.SecretKey
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
