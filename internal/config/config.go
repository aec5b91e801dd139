// Package config loads the client configuration once at startup.
//
// Configuration is read from, in increasing precedence: built-in defaults,
// an optional config file (~/.jot/config.yaml or ./config.yaml), JOT_-prefixed
// environment variables, and command-line flags bound by the CLI. Absent
// backend settings mean "operate fully offline".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the client reads at startup. It is not re-read.
type Config struct {
	// BackendURL is the remote host, e.g. "https://notes.example.com".
	// Empty means no backend is configured.
	BackendURL string

	// APIPath is the path prefix under the backend host.
	APIPath string

	// RequestTimeout bounds each remote request.
	RequestTimeout time.Duration

	// QuietInterval is the autosave debounce window.
	QuietInterval time.Duration

	// StorageBackend selects the durable store: file, sqlite, bolt or
	// memory.
	StorageBackend string

	// DataDir holds the durable store.
	DataDir string

	// LogFile, when set, routes logs through a rotating file instead of
	// stderr.
	LogFile string

	// HideEmpty excludes notes with no title and no content from list
	// views.
	HideEmpty bool
}

// BaseURL returns the full remote base (host + API path), or "" when no
// backend is configured.
func (c Config) BaseURL() string {
	if c.BackendURL == "" {
		return ""
	}
	return strings.TrimRight(c.BackendURL, "/") + c.APIPath
}

// Load reads configuration from defaults, config file, and environment.
func Load() (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".jot")

	v.SetDefault("backend.url", "")
	v.SetDefault("backend.api_path", "/api")
	v.SetDefault("backend.timeout_ms", 8000)
	v.SetDefault("autosave.quiet_ms", 450)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.data_dir", defaultDataDir)
	v.SetDefault("log.file", "")
	v.SetDefault("view.hide_empty", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultDataDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("JOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is the normal case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		BackendURL:     v.GetString("backend.url"),
		APIPath:        v.GetString("backend.api_path"),
		RequestTimeout: time.Duration(v.GetInt("backend.timeout_ms")) * time.Millisecond,
		QuietInterval:  time.Duration(v.GetInt("autosave.quiet_ms")) * time.Millisecond,
		StorageBackend: v.GetString("storage.backend"),
		DataDir:        v.GetString("storage.data_dir"),
		LogFile:        v.GetString("log.file"),
		HideEmpty:      v.GetBool("view.hide_empty"),
	}

	if !strings.HasPrefix(cfg.APIPath, "/") {
		cfg.APIPath = "/" + cfg.APIPath
	}
	return cfg, nil
}
