// Package config loads runtime settings. Values come from built-in
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation and parse failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"

	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"

	// MinJWTSecretLen is the shortest secret accepted for HMAC-SHA256.
	MinJWTSecretLen = 32
)

// ConfigEnv names the variable holding the config file path.
const ConfigEnv = "HBNB_CONFIG"

type Config struct {
	Storage      string `yaml:"storage"`
	DatabasePath string `yaml:"database_path"`

	Hasher     string `yaml:"hasher"`
	BcryptCost int    `yaml:"bcrypt_cost"`

	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	LoginRate  float64       `yaml:"login_rate"`  // refill, attempts per second
	LoginBurst float64       `yaml:"login_burst"` // attempts before throttling

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DedupeAmenities bool `yaml:"dedupe_amenities"`
}

func Default() *Config {
	return &Config{
		Storage:         StorageSQLite,
		DatabasePath:    "hbnb.db",
		Hasher:          HasherBcrypt,
		BcryptCost:      12,
		TokenTTL:        24 * time.Hour,
		LoginRate:       1.0 / 60,
		LoginBurst:      5,
		LogLevel:        "info",
		LogFormat:       "text",
		DedupeAmenities: true,
	}
}

// Load builds the effective configuration. path, when empty, falls back to
// $HBNB_CONFIG; with neither set no file is read. It returns the file used.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, path, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func (c *Config) applyEnv() error {
	c.Storage = envOrDefault("HBNB_STORAGE", c.Storage)
	c.DatabasePath = envOrDefault("DATABASE_PATH", c.DatabasePath)
	c.Hasher = envOrDefault("HBNB_HASHER", c.Hasher)
	c.JWTSecret = envOrDefault("JWT_SECRET", c.JWTSecret)
	c.LogLevel = envOrDefault("HBNB_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("HBNB_LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BCRYPT_COST: %v", ErrInvalidConfig, err)
		}
		c.BcryptCost = n
	}
	if v := os.Getenv("HBNB_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: HBNB_TOKEN_TTL: %v", ErrInvalidConfig, err)
		}
		c.TokenTTL = d
	}
	if v := os.Getenv("HBNB_DEDUPE_AMENITIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: HBNB_DEDUPE_AMENITIES: %v", ErrInvalidConfig, err)
		}
		c.DedupeAmenities = b
	}
	if v := os.Getenv("HBNB_LOGIN_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: HBNB_LOGIN_RATE: %v", ErrInvalidConfig, err)
		}
		c.LoginRate = f
	}
	if v := os.Getenv("HBNB_LOGIN_BURST"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: HBNB_LOGIN_BURST: %v", ErrInvalidConfig, err)
		}
		c.LoginBurst = f
	}
	return nil
}

// Validate checks every setting that does not depend on the command being
// run. The JWT secret is checked separately by RequireJWTSecret.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database_path is required for sqlite storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage must be %q or %q, got %q", ErrInvalidConfig, StorageMemory, StorageSQLite, c.Storage)
	}

	switch c.Hasher {
	case HasherBcrypt, HasherArgon2:
	default:
		return fmt.Errorf("%w: hasher must be %q or %q, got %q", ErrInvalidConfig, HasherBcrypt, HasherArgon2, c.Hasher)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("%w: bcrypt_cost must be between 4 and 14, got %d", ErrInvalidConfig, c.BcryptCost)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	}
	if c.LoginRate < 0 || c.LoginBurst < 1 {
		return fmt.Errorf("%w: login_rate must be >= 0 and login_burst >= 1", ErrInvalidConfig)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RequireJWTSecret reports whether the secret is long enough to sign
// tokens.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: jwt_secret (JWT_SECRET) is required", ErrInvalidConfig)
	}
	if len(c.JWTSecret) < MinJWTSecretLen {
		return fmt.Errorf("%w: jwt_secret must be at least %d characters for HMAC-SHA256 security", ErrInvalidConfig, MinJWTSecretLen)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
