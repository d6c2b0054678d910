package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is looked up in the working directory and its
	// parents.
	ProjectConfigFile = "weft.yaml"
	// UserConfigDir holds the user-level config under $HOME.
	UserConfigDir = ".config/weft"
	// UserConfigFile is the user-level config filename.
	UserConfigFile = "config.yaml"
)

// Loader assembles configuration with layered precedence: defaults,
// then the user config, then the project config or an explicit file.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds the effective configuration. When explicit is non-empty
// it must name a readable file and replaces the project config search.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	if userPath := l.userConfigPath(); userPath != "" {
		if layer, err := LoadFromFile(userPath); err == nil {
			config.Merge(layer)
			l.logger.Debug("loaded user config", slog.String("path", userPath))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to load user config",
				slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	if explicit != "" {
		layer, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		config.Merge(layer)
		l.logger.Debug("loaded config", slog.String("path", explicit))
	} else if projectPath := l.findProjectConfig(); projectPath != "" {
		if layer, err := LoadFromFile(projectPath); err == nil {
			config.Merge(layer)
			l.logger.Debug("loaded project config", slog.String("path", projectPath))
		} else {
			l.logger.Warn("failed to load project config",
				slog.String("path", projectPath), slog.String("error", err.Error()))
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the working directory up to the
// filesystem root looking for the project config file.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
