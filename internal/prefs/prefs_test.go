package prefs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.BearerToken != "" || p.UseMyInfo {
		t.Fatalf("unexpected state: %#v", p)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "aromai")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "bearer_token = \"tok\"\nname = \"Ada\"\nemail = \"ada@x.com\"\nuse_my_info = true\ntheme = \"Slate\"\n"
	if err := os.WriteFile(filepath.Join(dir, "session.toml"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{BearerToken: "tok", Name: "Ada", Email: "ada@x.com", UseMyInfo: true, Theme: "Slate"}
	if p != want {
		t.Fatalf("Load = %#v, want %#v", p, want)
	}
}

func TestSave_CreatesPrivateFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "subdir", "session.toml")

	p := Prefs{BearerToken: "tok", Name: "Ada", Theme: "Slate"}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Fatalf("mode = %o, want 600", mode)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("Load = %#v, want %#v", loaded, p)
	}
}

func TestFileUpdate_KeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	f := File{Path: path}

	if err := f.Update(func(p *Prefs) { p.Theme = "Slate" }); err != nil {
		t.Fatalf("Update theme: %v", err)
	}
	if err := f.Update(func(p *Prefs) { p.BearerToken = "tok"; p.Name = "Ada" }); err != nil {
		t.Fatalf("Update token: %v", err)
	}
	if err := f.Update(func(p *Prefs) { p.BearerToken = "" }); err != nil {
		t.Fatalf("Update clear: %v", err)
	}

	p, err := f.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.Name != "Ada" || p.BearerToken != "" {
		t.Fatalf("state = %#v", p)
	}
}

func TestFileUpdate_ConcurrentWritersDoNotLoseFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = File{Path: path}.Update(func(p *Prefs) { p.UseMyInfo = true })
	}()
	go func() {
		defer wg.Done()
		_ = File{Path: path}.Update(func(p *Prefs) { p.Email = "ada@x.com" })
	}()
	wg.Wait()

	p, _ := Load(path)
	if !p.UseMyInfo || p.Email != "ada@x.com" {
		t.Fatalf("state = %#v, want both updates", p)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.toml")
	if err := os.WriteFile(path, []byte("theme = \"\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != (Prefs{Theme: defaultTheme}) {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}
