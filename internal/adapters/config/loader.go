// Package config loads the optional bounds.yaml configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration for the project in cwd.
//
// An explicit path must exist. Without one, bounds.yaml is searched from cwd
// upwards and the defaults are used when none is found. Relative paths in the
// file are resolved against cwd.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if path == "" {
		path = findConfiguration(cwd)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	if path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.apply(cfg, file)
	}

	if !filepath.IsAbs(cfg.Registry.CacheDir) {
		cfg.Registry.CacheDir = filepath.Join(cwd, cfg.Registry.CacheDir)
	}

	return cfg, nil
}

func findConfiguration(cwd string) string {
	dir := cwd
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func readFile(path string) (*File, error) {
	// #nosec G304 -- path is the user's configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return &file, nil
}

// apply overlays the values set in file onto cfg.
func (l *Loader) apply(cfg *domain.Config, file *File) {
	if cmd := strings.TrimSpace(file.Oracle.Command); cmd != "" {
		cfg.Oracle.Command = cmd
	}
	cfg.Oracle.TestCommand = strings.TrimSpace(file.Oracle.TestCommand)

	if file.Oracle.ConflictPatterns != nil {
		cfg.Oracle.ConflictPatterns = slices.Clone(*file.Oracle.ConflictPatterns)
		if len(cfg.Oracle.ConflictPatterns) == 0 && l.Logger != nil {
			l.Logger.Warn("conflict_patterns is empty: refused pins will be reported as FAILED")
		}
	}

	reg := file.Registry
	if reg.IndexURL != "" {
		cfg.Registry.IndexURL = strings.TrimSuffix(reg.IndexURL, "/")
	}
	if reg.RateLimit > 0 {
		cfg.Registry.RateLimit = reg.RateLimit
	}
	if reg.CacheTTL > 0 {
		cfg.Registry.CacheTTL = reg.CacheTTL
	}
	if reg.CacheDir != "" {
		cfg.Registry.CacheDir = reg.CacheDir
	}
	if reg.IncludeYanked != nil {
		cfg.Registry.IncludeYanked = *reg.IncludeYanked
	}
}
