package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupMap(nil))
	require.NoError(t, err)

	assert.Empty(t, cfg.BackendURL, "missing backend is not a load error")
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, time.Local, cfg.Location)
	assert.True(t, cfg.AllowFilter)
}

func TestFromLookupBackendFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"primary", map[string]string{EnvBackendServer: "http://a", envLegacyBackend: "http://b"}, "http://a"},
		{"legacy", map[string]string{envLegacyBackend: "http://b", envGenericBackend: "http://c"}, "http://b"},
		{"generic", map[string]string{envGenericBackend: " http://c "}, "http://c"},
		{"blank primary", map[string]string{EnvBackendServer: "  ", envGenericBackend: "http://c"}, "http://c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromLookup(lookupMap(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BackendURL)
			assert.Equal(t, tt.want, cfg.ClientConfig().BaseURL)
		})
	}
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupMap(map[string]string{
		EnvHTTPTimeout: "5s",
		EnvLogLevel:    "DEBUG",
		EnvLogFile:     "",
		EnvListen:      "127.0.0.1:9000",
		EnvTimezone:    "UTC",
		EnvFilters:     "false",
		EnvHTTPSProxy:  "http://proxy:3128",
		"no_proxy":     "internal.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.AllowFilter)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy.HTTPSProxy)
	assert.Equal(t, "internal.example", cfg.Proxy.NoProxy)
	assert.Equal(t, 5*time.Second, cfg.ClientConfig().Timeout)
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		EnvHTTPTimeout: "soon",
		EnvLogLevel:    "loud",
		EnvTimezone:    "Mars/Olympus",
		EnvFilters:     "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := FromLookup(lookupMap(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestFromLookupRejectsNonPositiveTimeout(t *testing.T) {
	_, err := FromLookup(lookupMap(map[string]string{EnvHTTPTimeout: "0s"}))
	require.Error(t, err)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECORDS_BACKEND_SERVER=http://from-file:8080\n"), 0o600))

	t.Setenv(EnvBackendServer, "")
	require.NoError(t, os.Unsetenv(EnvBackendServer))

	cfg, err := Load(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8080", cfg.BackendURL)
}

func TestLoadLocation(t *testing.T) {
	for _, name := range []string{"", "Local", "local"} {
		loc, err := LoadLocation(name)
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}
	loc, err := LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestNewLoggerUsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn"}, &buf, "test")
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.log")
	logger, closer, err := NewFileLogger(&Config{LogLevel: "info"}, path, "")
	require.NoError(t, err)
	logger.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	logger, closer, err = NewFileLogger(nil, "", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
