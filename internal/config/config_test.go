package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("SearchDebounce = %v, want 300ms", cfg.SearchDebounce)
	}
	if cfg.PageSize != defaultPageSize || cfg.AILanguage != "Turkish" || cfg.AnonymousAuth != "empty-bearer" {
		t.Fatalf("defaults = %#v", cfg)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Fatalf("RequestsPerSecond = %v, want 0", cfg.RequestsPerSecond)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	want := filepath.Join(home, ".config", "aromai", "session.toml")
	if cfg.SessionPath != want {
		t.Fatalf("SessionPath = %q, want %q", cfg.SessionPath, want)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
base_url = "  https://staging.example.com/api  "
request_timeout = "5s"
requests_per_second = 2.5
search_debounce = "150ms"
page_size = 40
ai_language = "English"
anonymous_auth = "OMIT"
session_path = "  ~/.aromai/session.toml  "
log_level = "DEBUG"
log_format = "json"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com/api" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.SearchDebounce != 150*time.Millisecond {
		t.Fatalf("durations = %v, %v", cfg.RequestTimeout, cfg.SearchDebounce)
	}
	if cfg.RequestsPerSecond != 2.5 || cfg.PageSize != 40 {
		t.Fatalf("numbers = %v, %d", cfg.RequestsPerSecond, cfg.PageSize)
	}
	if cfg.AILanguage != "English" || cfg.AnonymousAuth != "omit" {
		t.Fatalf("strings = %q, %q", cfg.AILanguage, cfg.AnonymousAuth)
	}
	if cfg.SessionPath != filepath.Join(home, ".aromai", "session.toml") {
		t.Fatalf("SessionPath = %q", cfg.SessionPath)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("logging = %q, %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = 40\nai_language = \"English\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("AROMAI_PAGE_SIZE", "12")
	t.Setenv("AROMAI_BASE_URL", "http://localhost:5000/api")
	t.Setenv("AROMAI_AI_LANGUAGE", "  ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != 12 {
		t.Fatalf("PageSize = %d, want 12", cfg.PageSize)
	}
	if cfg.BaseURL != "http://localhost:5000/api" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.AILanguage != "English" {
		t.Fatalf("blank override replaced file value: %q", cfg.AILanguage)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{name: "bad toml", content: "base_url = [", want: "parse config"},
		{name: "bad duration", content: `request_timeout = "soon"`, want: "request_timeout"},
		{name: "negative rate", content: "requests_per_second = -1", want: "requests_per_second"},
		{name: "zero page size", content: "page_size = 0", want: "page_size"},
		{name: "unknown auth policy", content: `anonymous_auth = "sometimes"`, want: "anonymous_auth"},
		{name: "bad env number", env: map[string]string{"AROMAI_PAGE_SIZE": "many"}, want: "AROMAI_PAGE_SIZE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env returned error: %v", err)
	}

	const key = "AROMAI_TEST_DOTENV_LEVEL"
	t.Cleanup(func() { _ = os.Unsetenv(key) })
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=debug\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := LoadDotenv(path); err != nil {
		t.Fatalf("LoadDotenv returned error: %v", err)
	}
	if got := os.Getenv(key); got != "debug" {
		t.Fatalf("%s = %q, want debug", key, got)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
