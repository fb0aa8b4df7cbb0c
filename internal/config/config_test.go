package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/internal/testutil"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "")
	flags.String("log-level", "", "")
	flags.String("output", "", "")
	flags.Bool("warnings-as-errors", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, OutputTable, cfg.Output)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.WarningsAsErrors)
	assert.Empty(t, cfg.File)

	def := Default()
	def.File = cfg.File
	assert.Equal(t, def, cfg)
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteFile(t, dir, ConfigFileNameAlt, `
dialect: mysql
default_schema: sales
output: text
log:
  level: debug
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ConfigFileNameAlt, cfg.File)
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, "sales", cfg.DefaultSchema)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("VELOXCHECK_DIALECT", "sqlite")
	t.Setenv("VELOXCHECK_LOG_LEVEL", "warn")
	t.Setenv("VELOXCHECK_WARNINGS_AS_ERRORS", "true")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.WarningsAsErrors)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--dialect", "postgres", "--log-level", "error"}))
	cfg, err = Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, OutputText, cfg.Output, "unchanged flags do not override the file")
	assert.True(t, cfg.WarningsAsErrors, "unchanged flags do not override the environment")
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := testutil.WriteFile(t, dir, "custom.yaml", "dialect: sqlite\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, path, cfg.File)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		option string
	}{
		{"Dialect", "dialect: oracle", "dialect"},
		{"Output", "output: html", "output"},
		{"LogLevel", "log: {level: loud}", "log.level"},
		{"LogFormat", "log: {format: xml}", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			testutil.WriteFile(t, dir, ConfigFileName, tt.input)
			_, err := Load("", nil)
			require.Error(t, err)
			require.True(t, veloxcheck.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.option)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "table", "Orders")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"table":"Orders"`)

	level, err := (&Config{Log: LogConfig{Level: "DEBUG"}}).Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log.format", envKey("VELOXCHECK_LOG_FORMAT"))
	assert.Equal(t, "default_schema", envKey("VELOXCHECK_DEFAULT_SCHEMA"))
	assert.Equal(t, "log.level", flagKey("log-level"))
	assert.Equal(t, "normalize_types", flagKey("normalize-types"))
}
