package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/weftkit/weft/core/errors"
)

func TestLoaderExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("corpus:\n  root: /explicit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Root != "/explicit" {
		t.Errorf("Corpus.Root = %q, want /explicit", cfg.Corpus.Root)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoaderExplicitMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var ioErr *apperrors.IOError
	if _, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "none.yaml")); !errors.As(err, &ioErr) {
		t.Errorf("Load() error = %v, want IOError", err)
	}
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	userPath := filepath.Join(home, UserConfigDir, UserConfigFile)
	if err := os.MkdirAll(filepath.Dir(userPath), 0o755); err != nil {
		t.Fatal(err)
	}
	userYAML := "logging:\n  level: debug\nindex:\n  path: /home/idx.db\n"
	if err := os.WriteFile(userPath, []byte(userYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	projectYAML := "index:\n  path: /proj/idx.db\n"
	if err := os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte(projectYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(project, "deep", "down")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)

	cfg, err := NewLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Project beats user beats defaults.
	if cfg.Index.Path != "/proj/idx.db" {
		t.Errorf("Index.Path = %q, want /proj/idx.db", cfg.Index.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Corpus.Root != "corpus" {
		t.Errorf("Corpus.Root = %q, want default corpus", cfg.Corpus.Root)
	}
}

func TestLoaderRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(nil).Load(path); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Load() error = %v, want invalid input", err)
	}
}
