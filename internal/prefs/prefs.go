// Package prefs handles AromAI per-device state persistence.
// State is stored in ~/.config/aromai/session.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what survives a restart: the access token, the display
// identity decoded from it, feature flags and the UI theme.
type Prefs struct {
	BearerToken string `toml:"bearer_token,omitempty"`
	Name        string `toml:"name,omitempty"`
	Email       string `toml:"email,omitempty"`
	UseMyInfo   bool   `toml:"use_my_info"`
	Theme       string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/aromai/session.toml"
	defaultTheme     = "Nightfox"
	fileMode         = 0o600
)

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads state from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}
	return readFile(resolved), nil
}

// Save writes state to the given path, creating directories as needed. The
// write happens under an advisory lock next to the file.
func Save(path string, p Prefs) error {
	return File{Path: path}.Update(func(current *Prefs) { *current = p })
}

// File is a Prefs file on disk. The session store persists through it.
type File struct {
	Path string
}

// Load reads the file. Unreadable or malformed files yield defaults.
func (f File) Load() (Prefs, error) {
	return Load(f.Path)
}

// Update reads the file, applies fn and writes the result back while holding
// the lock, so concurrent writers do not drop each other's fields.
func (f File) Update(fn func(*Prefs)) error {
	resolved, err := resolvePath(f.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	lock := flock.New(resolved + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock prefs: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	p := readFile(resolved)
	fn(&p)
	return writeFile(resolved, p)
}

func readFile(resolved string) Prefs {
	prefs := Prefs{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs
		}
		return prefs // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}
	}

	prefs.BearerToken = strings.TrimSpace(prefs.BearerToken)
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	return prefs
}

func writeFile(resolved string, p Prefs) error {
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, fileMode); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Chmod(tmp, fileMode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
