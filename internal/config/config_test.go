package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/weftkit/weft/core/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Index.Path != "weft.db" {
		t.Errorf("Index.Path = %q, want weft.db", cfg.Index.Path)
	}
	if cfg.Snapshot.Compression != "xz" {
		t.Errorf("Snapshot.Compression = %q, want xz", cfg.Snapshot.Compression)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad compression", func(c *Config) { c.Snapshot.Compression = "zip" }, true},
		{"bad include glob", func(c *Config) { c.Corpus.Include = []string{"["} }, true},
		{"bad exclude glob", func(c *Config) { c.Corpus.Exclude = []string{"[a-"} }, true},
		{"good globs", func(c *Config) {
			c.Corpus.Include = []string{"game*/**"}
			c.Corpus.Exclude = []string{"**/draft/**"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want invalid input", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "weft.yaml")
	content := `
corpus:
  root: /data/stac
  include:
    - "game*/**"
  stages: [units, discourse]
  annotators: ["pilot*"]
  preferred_annotators: [GOLD, SILVER]
index:
  path: /data/stac.db
snapshot:
  compression: gz
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Corpus.Root != "/data/stac" {
		t.Errorf("Corpus.Root = %q", cfg.Corpus.Root)
	}
	if len(cfg.Corpus.Include) != 1 || cfg.Corpus.Include[0] != "game*/**" {
		t.Errorf("Corpus.Include = %v", cfg.Corpus.Include)
	}
	if len(cfg.Corpus.Stages) != 2 {
		t.Errorf("Corpus.Stages = %v", cfg.Corpus.Stages)
	}
	if len(cfg.Corpus.PreferredAnnotators) != 2 || cfg.Corpus.PreferredAnnotators[0] != "GOLD" {
		t.Errorf("Corpus.PreferredAnnotators = %v", cfg.Corpus.PreferredAnnotators)
	}
	if cfg.Index.Path != "/data/stac.db" {
		t.Errorf("Index.Path = %q", cfg.Index.Path)
	}
	if cfg.Snapshot.Compression != "gz" {
		t.Errorf("Snapshot.Compression = %q", cfg.Snapshot.Compression)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "" {
		t.Errorf("Logging.Format = %q, want empty for a layer file", cfg.Logging.Format)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	var ioErr *apperrors.IOError
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); !errors.As(err, &ioErr) {
		t.Errorf("LoadFromFile(absent) error = %v, want IOError", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("corpus: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	var parseErr *apperrors.ParseError
	if _, err := LoadFromFile(bad); !errors.As(err, &parseErr) {
		t.Errorf("LoadFromFile(bad yaml) error = %v, want ParseError", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Corpus.Annotators = []string{"pilot01"}

	base.Merge(&Config{
		Corpus:  CorpusConfig{Root: "/override"},
		Logging: LoggingConfig{Level: "error"},
	})

	if base.Corpus.Root != "/override" {
		t.Errorf("Corpus.Root = %q, want /override", base.Corpus.Root)
	}
	if base.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", base.Logging.Level)
	}
	// Fields the overlay leaves unset keep their earlier values.
	if base.Index.Path != "weft.db" {
		t.Errorf("Index.Path = %q, want weft.db", base.Index.Path)
	}
	if base.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want text", base.Logging.Format)
	}
	if len(base.Corpus.Annotators) != 1 || base.Corpus.Annotators[0] != "pilot01" {
		t.Errorf("Corpus.Annotators = %v, want [pilot01]", base.Corpus.Annotators)
	}
}

func TestSelects(t *testing.T) {
	const path = "game1/units/pilot01/game1_02.aa"
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    bool
	}{
		{"no globs", nil, nil, true},
		{"include hit", []string{"game1/**"}, nil, true},
		{"include miss", []string{"game2/**"}, nil, false},
		{"exclude hit", nil, []string{"**/pilot01/**"}, false},
		{"exclude beats include", []string{"game1/**"}, []string{"**/pilot01/**"}, false},
		{"ill-formed include never matches", []string{"["}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := CorpusConfig{Include: tt.include, Exclude: tt.exclude}
			if got := cc.Selects(path); got != tt.want {
				t.Errorf("Selects(%s) = %v, want %v", path, got, tt.want)
			}
		})
	}
}

func TestPreferAnnotator(t *testing.T) {
	cc := CorpusConfig{PreferredAnnotators: []string{"GOLD", "SILVER"}}

	if got := cc.PreferAnnotator([]string{"pilot02", "SILVER", "pilot01"}); got != "SILVER" {
		t.Errorf("PreferAnnotator() = %q, want SILVER", got)
	}
	if got := cc.PreferAnnotator([]string{"SILVER", "GOLD"}); got != "GOLD" {
		t.Errorf("PreferAnnotator() = %q, want GOLD", got)
	}
	if got := cc.PreferAnnotator([]string{"pilot02", "pilot01"}); got != "pilot01" {
		t.Errorf("PreferAnnotator() = %q, want pilot01", got)
	}
	if got := cc.PreferAnnotator(nil); got != "" {
		t.Errorf("PreferAnnotator(nil) = %q, want empty", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weft.yaml")
	cfg := DefaultConfig()
	cfg.Corpus.Root = "/data/stac"
	cfg.Corpus.PreferredAnnotators = []string{"GOLD"}

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Corpus.Root != "/data/stac" {
		t.Errorf("Corpus.Root = %q, want /data/stac", loaded.Corpus.Root)
	}
	if len(loaded.Corpus.PreferredAnnotators) != 1 || loaded.Corpus.PreferredAnnotators[0] != "GOLD" {
		t.Errorf("Corpus.PreferredAnnotators = %v, want [GOLD]", loaded.Corpus.PreferredAnnotators)
	}
}
