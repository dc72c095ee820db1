package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

// chdirTemp runs the test in an empty directory so no stray .env is read.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// TestLoad_Defaults verifies development defaults and generated secrets.
func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.APIBaseURL != "http://localhost:8000" || cfg.FlashMaxAge != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CSRFSecret) != 32 || len(cfg.FlashSecret) != 32 {
		t.Errorf("secrets not generated: %d %d", len(cfg.CSRFSecret), len(cfg.FlashSecret))
	}
	if cfg.IsProduction() {
		t.Error("defaults are production")
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("BackendTimeout = %v, want 0 (transport default)", cfg.BackendTimeout)
	}
}

// TestLoad_Precedence verifies env beats .env beats YAML beats defaults.
func TestLoad_Precedence(t *testing.T) {
	dir := chdirTemp(t)
	yamlPath := filepath.Join(dir, "timetable.yaml")
	yamlBody := "addr: \":9000\"\napi_base_url: http://yaml:8000\nbackend_timeout: 3s\nrate_limit: 4\nlog_level: debug\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMETABLE_RATE_LIMIT=7\nTIMETABLE_STATIC_DIR=/srv/static\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIMETABLE_CONFIG", yamlPath)
	t.Setenv("TIMETABLE_API_BASE_URL", "https://api.example.edu")
	// .env only fills unset variables; Setenv registers the restore.
	for _, k := range []string{"TIMETABLE_RATE_LIMIT", "TIMETABLE_STATIC_DIR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want yaml value", cfg.Addr)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout = %v, want 3s", cfg.BackendTimeout)
	}
	if cfg.APIBaseURL != "https://api.example.edu" {
		t.Errorf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
	if cfg.RateLimit != 7 || cfg.StaticDir != "/srv/static" {
		t.Errorf("RateLimit = %d, StaticDir = %q, want .env values", cfg.RateLimit, cfg.StaticDir)
	}
	if cfg.SlogLevel().String() != "DEBUG" {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

// TestLoad_Invalid verifies validation failures.
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"relative base url", map[string]string{"TIMETABLE_API_BASE_URL": "/api"}, ErrMissingBaseURL},
		{"bad key", map[string]string{"TIMETABLE_CSRF_KEY": "zz"}, ErrInvalidKey},
		{"short key", map[string]string{"TIMETABLE_FLASH_KEY": "0011"}, ErrInvalidKey},
		{"production without keys", map[string]string{"TIMETABLE_ENV": "production"}, ErrMissingKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoad_ProductionKeys verifies explicit keys are decoded.
func TestLoad_ProductionKeys(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TIMETABLE_ENV", "production")
	t.Setenv("TIMETABLE_CSRF_KEY", validKey)
	t.Setenv("TIMETABLE_FLASH_KEY", validKey)
	t.Setenv("TIMETABLE_TRUSTED_ORIGINS", "timetable.example.edu, admin.example.edu")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProduction() || cfg.CSRFSecret[0] != 0x00 || cfg.CSRFSecret[31] != 0xff {
		t.Errorf("cfg = %+v", cfg)
	}
	if strings.Join(cfg.TrustedOrigins, "|") != "timetable.example.edu|admin.example.edu" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
}

// TestLoad_DerivedKeys verifies a shared secret yields distinct, stable keys.
func TestLoad_DerivedKeys(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TIMETABLE_ENV", "production")
	t.Setenv("TIMETABLE_SECRET_KEY", "correct horse battery staple")

	first, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(first.CSRFSecret) != 32 || len(first.FlashSecret) != 32 {
		t.Fatalf("key lengths = %d, %d, want 32", len(first.CSRFSecret), len(first.FlashSecret))
	}
	if bytes.Equal(first.CSRFSecret, first.FlashSecret) {
		t.Error("csrf and flash keys are identical")
	}
	if !bytes.Equal(first.CSRFSecret, second.CSRFSecret) {
		t.Error("derived key changed between loads")
	}
}

// TestLoad_ExplicitKeyWinsOverSecret verifies an explicit key is not replaced by derivation.
func TestLoad_ExplicitKeyWinsOverSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TIMETABLE_SECRET_KEY", "shared")
	t.Setenv("TIMETABLE_CSRF_KEY", validKey)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hex.EncodeToString(cfg.CSRFSecret) != validKey {
		t.Errorf("CSRFSecret = %x, want explicit key", cfg.CSRFSecret)
	}
}

// TestLoad_BadDuration verifies malformed env values are reported.
func TestLoad_BadDuration(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TIMETABLE_BACKEND_TIMEOUT", "soon")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BACKEND_TIMEOUT") {
		t.Errorf("err = %v", err)
	}
}
