// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` from four layers (highest
precedence last):

  1. `Default()` built-ins.
  2. The YAML file passed with --config, when given.
  3. Environment variables prefixed `PAGEIDMAP_`, where `__` maps to "."
     (e.g., `PAGEIDMAP_DATABASE__HOST -> database.host`).
  4. Flag overrides supplied by the caller.

The merged value is normalised and validated once, before the pipeline
runs.  Nothing re-reads configuration afterwards.

Instrumentation
---------------
  - DEBUG spans - YAML read, env overlay.
  - ERROR spans - YAML parse, env overlay, unmarshal, validation failures.
  - Logs use the global sugared logger (`zap.S()`), which is a no-op until
    the caller installs one.
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/pageidmap/internal/format"
)

// EnvPrefix marks environment variables read by Load.
const EnvPrefix = "PAGEIDMAP_"

var (
	// ErrInvalid wraps every load or validation failure.
	ErrInvalid = errors.New("invalid configuration")

	// ErrNoSource means neither an input file nor a database is configured.
	ErrNoSource = errors.New("either --file, --database, or a config file with a database section is required")
)

// SourceKind is the record source a Config selects.
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceDatabase SourceKind = "database"
)

// Source picks the record source.  An input file wins over a database.
func (c *Config) Source() (SourceKind, error) {
	switch {
	case c.Input.File != "":
		return SourceFile, nil
	case c.Database.Configured():
		return SourceDatabase, nil
	}
	return "", ErrNoSource
}

// Load merges all layers and validates the result.  path may be empty;
// override may be nil.
func Load(path string, override func(*Config)) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", path, "err", err)
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
		zap.S().Debugw("config yaml loaded", "file", path)
	}

	// Env overrides: PAGEIDMAP_PROCESSING__OUTPUT_FORMAT -> processing.output_format
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("%w: env: %v", ErrInvalid, err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if override != nil {
		override(&cfg)
	}
	normalize(&cfg)

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	zap.S().Debugw("config loaded",
		"file", path,
		"output_format", cfg.Processing.OutputFormat,
		"driver", cfg.Database.Driver,
	)
	return &cfg, nil
}

func normalize(c *Config) {
	c.Processing.OutputFormat = strings.ToLower(strings.TrimSpace(c.Processing.OutputFormat))
	c.Processing.TargetDomain = format.NormalizeDomain(c.Processing.TargetDomain)
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "postgresql" {
		c.Database.Driver = "postgres"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
