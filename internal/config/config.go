// Package config builds the runtime configuration from .env files and the environment.
// Components never read the environment themselves; they receive values from Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http/httpproxy"

	"github.com/thesavant42/recordsearch/internal/api"
)

// Environment keys
const (
	EnvBackendServer  = "RECORDS_BACKEND_SERVER"
	EnvHTTPTimeout    = "RECORDS_HTTP_TIMEOUT"
	EnvLogLevel       = "RECORDS_LOG_LEVEL"
	EnvLogFile        = "RECORDS_LOG_FILE"
	EnvListen         = "RECORDS_LISTEN"
	EnvTimezone       = "RECORDS_TZ"
	EnvFilters        = "RECORDS_FILTERS"
	EnvHTTPProxy      = "HTTP_PROXY"
	EnvHTTPSProxy     = "HTTPS_PROXY"
	EnvNoProxy        = "NO_PROXY"
	envLegacyBackend  = "REACT_APP_BACKEND_SERVER"
	envGenericBackend = "BACKEND_SERVER"
)

// Defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogFile     = "recordsearch.log"
	DefaultListen      = ":8080"
)

// Config holds everything the front ends need to build their components
type Config struct {
	BackendURL  string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFile     string
	Listen      string
	Location    *time.Location
	AllowFilter bool
	Proxy       httpproxy.Config
	UserAgent   string
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Load reads the given .env files (default ".env") into the process environment and
// builds a Config from it. Missing files are ignored; variables already set win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function.
// A missing backend URL is not an error here; the viewer reports it when a fetch is attempted.
func FromLookup(lookup LookupFunc) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		BackendURL:  firstNonEmpty(get(EnvBackendServer), get(envLegacyBackend), get(envGenericBackend)),
		HTTPTimeout: DefaultHTTPTimeout,
		LogLevel:    DefaultLogLevel,
		LogFile:     DefaultLogFile,
		Listen:      DefaultListen,
		Location:    time.Local,
		AllowFilter: true,
		Proxy: httpproxy.Config{
			HTTPProxy:  firstNonEmpty(get(EnvHTTPProxy), get(strings.ToLower(EnvHTTPProxy))),
			HTTPSProxy: firstNonEmpty(get(EnvHTTPSProxy), get(strings.ToLower(EnvHTTPSProxy))),
			NoProxy:    firstNonEmpty(get(EnvNoProxy), get(strings.ToLower(EnvNoProxy))),
		},
	}

	if v := get(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive, got %s", EnvHTTPTimeout, v)
		}
		cfg.HTTPTimeout = d
	}

	if v := get(EnvLogLevel); v != "" {
		if _, err := ParseLevel(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = v
	}

	if v, ok := lookup(EnvLogFile); ok {
		// set but empty disables the TUI log file
		cfg.LogFile = strings.TrimSpace(v)
	}

	if v := get(EnvListen); v != "" {
		cfg.Listen = v
	}

	if v := get(EnvTimezone); v != "" {
		loc, err := LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimezone, err)
		}
		cfg.Location = loc
	}

	if v := get(EnvFilters); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFilters, err)
		}
		cfg.AllowFilter = b
	}

	return cfg, nil
}

// LoadLocation resolves a zone name; "Local" and "" mean the system zone
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// ClientConfig returns the injected settings for the backend client
func (c *Config) ClientConfig() api.ClientConfig {
	return api.ClientConfig{
		BaseURL:   c.BackendURL,
		Timeout:   c.HTTPTimeout,
		Proxy:     c.Proxy,
		UserAgent: c.UserAgent,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
