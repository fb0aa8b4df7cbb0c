// Package config loads the veloxcheck configuration.
//
// Values are layered, later sources overriding earlier ones:
//  1. built-in defaults
//  2. the config file (veloxcheck.yaml or veloxcheck.yml)
//  3. VELOXCHECK_ environment variables
//  4. command line flags that were explicitly set
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/dialect"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "veloxcheck.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "veloxcheck.yml"

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "VELOXCHECK_"

// Output formats.
const (
	OutputTable = "table"
	OutputText  = "text"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config holds the veloxcheck configuration.
type Config struct {
	Dialect          string    `koanf:"dialect"`
	DefaultSchema    string    `koanf:"default_schema"`
	NormalizeTypes   bool      `koanf:"normalize_types"`
	WarningsAsErrors bool      `koanf:"warnings_as_errors"`
	Output           string    `koanf:"output"`
	Log              LogConfig `koanf:"log"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"dialect":            dialect.Postgres,
		"default_schema":     "",
		"normalize_types":    false,
		"warnings_as_errors": false,
		"output":             OutputTable,
		"log.level":          "info",
		"log.format":         "text",
	}
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Dialect: dialect.Postgres,
		Output:  OutputTable,
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. If path is empty, the config file is
// looked up in the working directory and a missing file is not an error.
// Only flags that were changed on the command line override the other
// sources; flag names use dashes where keys use underscores.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile(".")
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("config: loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps VELOXCHECK_LOG_LEVEL to log.level and
// VELOXCHECK_WARNINGS_AS_ERRORS to warnings_as_errors.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	switch name {
	case "log-level":
		return "log.level"
	case "log-format":
		return "log.format"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// findConfigFile returns the config file in dir, or an empty string.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if _, err := dialect.NewResolver(c.Dialect); err != nil {
		return veloxcheck.NewConfigError("dialect", c.Dialect, "unsupported dialect; use postgres, mysql, or sqlite")
	}
	if !slices.Contains([]string{OutputTable, OutputText}, c.Output) {
		return veloxcheck.NewConfigError("output", c.Output, "unsupported output format; use table or text")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		return veloxcheck.NewConfigError("log.format", c.Log.Format, "unsupported log format; use text or json")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, veloxcheck.NewConfigError("log.level", c.Log.Level, "unsupported log level; use debug, info, warn, or error")
	}
	return l, nil
}

// Logger returns a logger writing to w with the configured level and
// format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
