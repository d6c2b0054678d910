// Package config loads weft's YAML configuration.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/weftkit/weft/core/errors"
)

// Config is the complete weft configuration.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Index    IndexConfig    `yaml:"index"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CorpusConfig selects which part of a corpus tree commands work on.
type CorpusConfig struct {
	// Root is the corpus root directory.
	Root string `yaml:"root"`
	// Include keeps only annotation files whose corpus-relative path
	// matches one of these globs (empty keeps everything).
	Include []string `yaml:"include"`
	// Exclude drops annotation files whose corpus-relative path
	// matches one of these globs.
	Exclude []string `yaml:"exclude"`
	// Stages filters file ids by stage (glob patterns).
	Stages []string `yaml:"stages"`
	// Annotators filters file ids by annotator (glob patterns).
	Annotators []string `yaml:"annotators"`
	// PreferredAnnotators ranks annotators when a document exists
	// under several and none was asked for explicitly; earlier wins.
	PreferredAnnotators []string `yaml:"preferred_annotators"`
}

// IndexConfig configures the annotation index.
type IndexConfig struct {
	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// SnapshotConfig configures corpus snapshots.
type SnapshotConfig struct {
	// Compression picks the snapshot compression: xz or gz.
	Compression string `yaml:"compression"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration commands run with when no
// file is present.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root: "corpus",
		},
		Index: IndexConfig{
			Path: "weft.db",
		},
		Snapshot: SnapshotConfig{
			Compression: "xz",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks enum fields and glob syntax.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidation("logging.level", "must be debug, info, warn or error")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.NewValidation("logging.format", "must be text or json")
	}
	switch c.Snapshot.Compression {
	case "xz", "gz":
	default:
		return errors.NewValidation("snapshot.compression", "must be xz or gz")
	}
	for _, p := range c.Corpus.Include {
		if !doublestar.ValidatePattern(p) {
			return errors.NewValidation("corpus.include", "bad glob "+p)
		}
	}
	for _, p := range c.Corpus.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.NewValidation("corpus.exclude", "bad glob "+p)
		}
	}
	return nil
}

// LoadFromFile reads one YAML config file. The result holds only what
// the file sets; merge it over DefaultConfig for a complete view.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewParse("config", path, err.Error())
	}
	return &config, nil
}

// SaveToFile writes the configuration as YAML, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("create", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Merge overlays another config onto this one; fields the other
// config sets win.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Corpus.Root != "" {
		c.Corpus.Root = other.Corpus.Root
	}
	if len(other.Corpus.Include) > 0 {
		c.Corpus.Include = other.Corpus.Include
	}
	if len(other.Corpus.Exclude) > 0 {
		c.Corpus.Exclude = other.Corpus.Exclude
	}
	if len(other.Corpus.Stages) > 0 {
		c.Corpus.Stages = other.Corpus.Stages
	}
	if len(other.Corpus.Annotators) > 0 {
		c.Corpus.Annotators = other.Corpus.Annotators
	}
	if len(other.Corpus.PreferredAnnotators) > 0 {
		c.Corpus.PreferredAnnotators = other.Corpus.PreferredAnnotators
	}
	if other.Index.Path != "" {
		c.Index.Path = other.Index.Path
	}
	if other.Snapshot.Compression != "" {
		c.Snapshot.Compression = other.Snapshot.Compression
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
}

// Selects reports whether a corpus-relative path passes the include
// and exclude globs. Ill-formed patterns never match.
func (c CorpusConfig) Selects(relPath string) bool {
	if len(c.Include) > 0 && !matchAny(c.Include, relPath) {
		return false
	}
	return !matchAny(c.Exclude, relPath)
}

func matchAny(patterns []string, value string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, value); err == nil && ok {
			return true
		}
	}
	return false
}

// PreferAnnotator picks one annotator out of candidates following the
// configured preference order. Unranked candidates lose to ranked
// ones and fall back to alphabetical order among themselves.
func (c CorpusConfig) PreferAnnotator(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, want := range c.PreferredAnnotators {
		for _, have := range candidates {
			if have == want {
				return have
			}
		}
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	return sorted[0]
}
