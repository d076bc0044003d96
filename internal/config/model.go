// internal/config/model.go
//
// Typed configuration model for pageidmap.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four layers, lowest first:
//
//   - built-in defaults                         - Default(),
//   - the YAML file named by --config           - optional,
//   - `PAGEIDMAP_`-prefixed environment values  - `__` maps to ".",
//   - command-line flags                        - highest precedence.
//
// A database password of the form `vault:<mount>/<path>#<key>` is kept
// verbatim here and resolved by internal/vault just before connecting.
//
// Notes
// -----
//   - Struct tags carry both `koanf` (loading) and `yaml` (generating the
//     sample file) names; keep them identical.
//   - Validation happens immediately after the layers are merged.
package config

import "github.com/yanizio/pageidmap/internal/database"

// Input selects a flat-file source.
type Input struct {
	File string `koanf:"file" yaml:"file"`
}

// Database holds connection settings for the Confluence database.
type Database struct {
	Driver   string            `koanf:"driver"   yaml:"driver"   validate:"oneof=mysql postgres"`
	Host     string            `koanf:"host"     yaml:"host"`
	Port     int               `koanf:"port"     yaml:"port"     validate:"omitempty,min=1,max=65535"`
	Name     string            `koanf:"name"     yaml:"name"`
	User     string            `koanf:"user"     yaml:"user"`
	Password string            `koanf:"password" yaml:"password"`
	Params   map[string]string `koanf:"params"   yaml:"params,omitempty"`
}

// Settings converts the section for internal/database.
func (d Database) Settings() database.Settings {
	return database.Settings{
		Driver:   d.Driver,
		Host:     d.Host,
		Port:     d.Port,
		Name:     d.Name,
		User:     d.User,
		Password: d.Password,
		Params:   d.Params,
	}
}

// Configured reports whether enough is set to attempt a connection.
func (d Database) Configured() bool { return d.Name != "" }

// Processing controls the pipeline and its output.
type Processing struct {
	DefaultSpaces string `koanf:"default_spaces" yaml:"default_spaces"`
	OutputFormat  string `koanf:"output_format"  yaml:"output_format"  validate:"oneof=tsv csv json nginx apache"`
	TargetDomain  string `koanf:"target_domain"  yaml:"target_domain"  validate:"omitempty,hostname_rfc1123|hostname_port"`
	Silent        bool   `koanf:"silent"         yaml:"silent"`
	Verbose       bool   `koanf:"verbose"        yaml:"verbose"`
}

// Output names the destination file.  Empty means stdout.
type Output struct {
	Path string `koanf:"path" yaml:"path"`
}

// Log configures the optional JSON log file.
type Log struct {
	File  string `koanf:"file"  yaml:"file"`
	Level string `koanf:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Metrics configures the Prometheus textfile written after a run.
type Metrics struct {
	Textfile string `koanf:"textfile" yaml:"textfile"`
}

// Config is the resolved, validated aggregate returned by Load().
type Config struct {
	Input      Input      `koanf:"input"      yaml:"input"`
	Database   Database   `koanf:"database"   yaml:"database"`
	Processing Processing `koanf:"processing" yaml:"processing"`
	Output     Output     `koanf:"output"     yaml:"output"`
	Log        Log        `koanf:"log"        yaml:"log"`
	Metrics    Metrics    `koanf:"metrics"    yaml:"metrics"`
}

// Default returns the built-in lowest layer.
func Default() Config {
	return Config{
		Database: Database{
			Driver: database.MySQL,
			Host:   "localhost",
		},
		Processing: Processing{
			DefaultSpaces: "INFO",
			OutputFormat:  "tsv",
		},
		Log: Log{Level: "info"},
	}
}
