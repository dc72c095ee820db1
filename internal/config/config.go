// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and TIMETABLE_* environment variables, in that order.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TIMETABLE_"

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config errors
var (
	ErrMissingBaseURL = errors.New("api_base_url must be an absolute http(s) URL")
	ErrInvalidKey     = errors.New("secret keys must be 64 hex characters (32 bytes)")
	ErrMissingKey     = errors.New("secret_key, or both csrf_key and flash_key, are required in production")
)

// Config is the complete server configuration.
type Config struct {
	Addr           string        `yaml:"addr"`
	Env            string        `yaml:"env"`
	APIBaseURL     string        `yaml:"api_base_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	SecretKey      string        `yaml:"secret_key"`
	CSRFKey        string        `yaml:"csrf_key"`
	FlashKey       string        `yaml:"flash_key"`
	FlashMaxAge    int           `yaml:"flash_max_age"`
	LogLevel       string        `yaml:"log_level"`
	StaticDir      string        `yaml:"static_dir"`
	SlowRequestMs  int           `yaml:"slow_request_ms"`
	SlowBackendMs  int           `yaml:"slow_backend_ms"`
	RateLimit      int           `yaml:"rate_limit"`
	TrustedOrigins []string      `yaml:"trusted_origins"`

	// Decoded from CSRFKey and FlashKey by Load, or derived from SecretKey.
	// Random per start in development when neither is set.
	CSRFSecret  []byte `yaml:"-"`
	FlashSecret []byte `yaml:"-"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Env:            EnvDevelopment,
		APIBaseURL:     "http://localhost:8000",
		BackendTimeout: 0,
		FlashMaxAge:    5,
		LogLevel:       "info",
		StaticDir:      "static",
		SlowRequestMs:  200,
		SlowBackendMs:  250,
		RateLimit:      10,
		TrustedOrigins: []string{"localhost:8080", "127.0.0.1:8080"},
	}
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// Load builds the configuration. The YAML file path comes from TIMETABLE_CONFIG;
// a missing .env file is not an error.
// PRE: none
// POST: Returns a validated Config with both secrets decoded
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := loadFromEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load from environment: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	setString(&cfg.Addr, "ADDR")
	setString(&cfg.Env, "ENV")
	setString(&cfg.APIBaseURL, "API_BASE_URL")
	setString(&cfg.SecretKey, "SECRET_KEY")
	setString(&cfg.CSRFKey, "CSRF_KEY")
	setString(&cfg.FlashKey, "FLASH_KEY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.StaticDir, "STATIC_DIR")

	if v := os.Getenv(EnvPrefix + "TRUSTED_ORIGINS"); v != "" {
		cfg.TrustedOrigins = splitList(v)
	}
	if v := os.Getenv(EnvPrefix + "BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sBACKEND_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.BackendTimeout = d
	}
	for name, dst := range map[string]*int{
		"FLASH_MAX_AGE":   &cfg.FlashMaxAge,
		"SLOW_REQUEST_MS": &cfg.SlowRequestMs,
		"SLOW_BACKEND_MS": &cfg.SlowBackendMs,
		"RATE_LIMIT":      &cfg.RateLimit,
	} {
		if err := setInt(dst, name); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		*dst = v
	}
}

func setInt(dst *int, name string) error {
	v := os.Getenv(EnvPrefix + name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// finish validates the configuration and decodes the secrets.
func (c *Config) finish() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrMissingBaseURL
	}
	if c.BackendTimeout < 0 {
		return errors.New("backend_timeout cannot be negative")
	}
	if c.RateLimit <= 0 {
		return errors.New("rate_limit must be positive")
	}
	if c.IsProduction() && c.SecretKey == "" && (c.CSRFKey == "" || c.FlashKey == "") {
		return ErrMissingKey
	}
	if c.CSRFSecret, err = c.resolveKey(c.CSRFKey, "csrf"); err != nil {
		return fmt.Errorf("csrf_key: %w", err)
	}
	if c.FlashSecret, err = c.resolveKey(c.FlashKey, "flash"); err != nil {
		return fmt.Errorf("flash_key: %w", err)
	}
	return nil
}

// resolveKey decodes an explicit key, derives one from SecretKey with HKDF,
// or generates a random one, in that order of preference.
// POST: The returned key is 32 bytes
func (c *Config) resolveKey(keyHex, purpose string) ([]byte, error) {
	if keyHex != "" {
		return decodeKey(keyHex)
	}
	key := make([]byte, 32)
	if c.SecretKey != "" {
		r := hkdf.New(sha256.New, []byte(c.SecretKey), nil, []byte("timetable "+purpose))
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("derive key: %w", err)
		}
		return key, nil
	}
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// decodeKey decodes a 32-byte hex key.
func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return key, nil
}
