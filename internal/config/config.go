package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client settings for AromAI.
type Config struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	SearchDebounce    time.Duration
	PageSize          int
	AILanguage        string
	AnonymousAuth     string
	SessionPath       string
	LogLevel          string
	LogFormat         string
	LogFile           string
}

const (
	defaultConfigPath     = "~/.config/aromai/config.toml"
	defaultSessionPath    = "~/.config/aromai/session.toml"
	defaultLogFile        = "~/.local/share/aromai/aromai.log"
	defaultBaseURL        = "https://apposite.live/api"
	defaultSearchDebounce = 300 * time.Millisecond
	defaultPageSize       = 22
	defaultAILanguage     = "Turkish"
	defaultAnonymousAuth  = "empty-bearer"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"

	envPrefix = "AROMAI_"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		SearchDebounce: defaultSearchDebounce,
		PageSize:       defaultPageSize,
		AILanguage:     defaultAILanguage,
		AnonymousAuth:  defaultAnonymousAuth,
		SessionPath:    mustExpand(defaultSessionPath),
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// LoadDotenv loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotenv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses the config file, falling back to defaults when missing, then
// applies AROMAI_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	overlayEnv(&raw)

	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig mirrors the TOML layout. Durations are Go duration strings.
type fileConfig struct {
	BaseURL           string   `toml:"base_url"`
	RequestTimeout    string   `toml:"request_timeout"`
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	SearchDebounce    string   `toml:"search_debounce"`
	PageSize          *int     `toml:"page_size"`
	AILanguage        string   `toml:"ai_language"`
	AnonymousAuth     string   `toml:"anonymous_auth"`
	SessionPath       string   `toml:"session_path"`
	LogLevel          string   `toml:"log_level"`
	LogFormat         string   `toml:"log_format"`
	LogFile           string   `toml:"log_file"`

	invalid []string // environment values that failed to parse
}

func readFile(resolved string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func overlayEnv(raw *fileConfig) {
	strVars := map[string]*string{
		"BASE_URL":        &raw.BaseURL,
		"REQUEST_TIMEOUT": &raw.RequestTimeout,
		"SEARCH_DEBOUNCE": &raw.SearchDebounce,
		"AI_LANGUAGE":     &raw.AILanguage,
		"ANONYMOUS_AUTH":  &raw.AnonymousAuth,
		"SESSION_PATH":    &raw.SessionPath,
		"LOG_LEVEL":       &raw.LogLevel,
		"LOG_FORMAT":      &raw.LogFormat,
		"LOG_FILE":        &raw.LogFile,
	}
	for name, dst := range strVars {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}
	if v, ok := lookupEnv("REQUESTS_PER_SECOND"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			raw.RequestsPerSecond = &f
		} else {
			raw.invalid = append(raw.invalid, fmt.Sprintf("%sREQUESTS_PER_SECOND=%q", envPrefix, v))
		}
	}
	if v, ok := lookupEnv("PAGE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			raw.PageSize = &n
		} else {
			raw.invalid = append(raw.invalid, fmt.Sprintf("%sPAGE_SIZE=%q", envPrefix, v))
		}
	}
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (c *Config) apply(raw fileConfig) error {
	if len(raw.invalid) > 0 {
		return fmt.Errorf("invalid environment override: %s", strings.Join(raw.invalid, ", "))
	}
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("request_timeout: invalid duration %q", v)
		}
		c.RequestTimeout = d
	}
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return fmt.Errorf("requests_per_second: must not be negative")
		}
		c.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if v := strings.TrimSpace(raw.SearchDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("search_debounce: invalid duration %q", v)
		}
		c.SearchDebounce = d
	}
	if raw.PageSize != nil {
		if *raw.PageSize <= 0 {
			return fmt.Errorf("page_size: must be positive")
		}
		c.PageSize = *raw.PageSize
	}
	if v := strings.TrimSpace(raw.AILanguage); v != "" {
		c.AILanguage = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.AnonymousAuth)); v != "" {
		if v != "empty-bearer" && v != "omit" {
			return fmt.Errorf("anonymous_auth: want empty-bearer or omit, got %q", raw.AnonymousAuth)
		}
		c.AnonymousAuth = v
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		c.SessionPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
