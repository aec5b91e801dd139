package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir and home so a developer's config.yaml is not
	// picked up.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackendURL != "" {
		t.Errorf("BackendURL = %q, want empty by default", cfg.BackendURL)
	}
	if cfg.APIPath != "/api" {
		t.Errorf("APIPath = %q, want /api", cfg.APIPath)
	}
	if cfg.RequestTimeout != 8*time.Second {
		t.Errorf("RequestTimeout = %v, want 8s", cfg.RequestTimeout)
	}
	if cfg.QuietInterval != 450*time.Millisecond {
		t.Errorf("QuietInterval = %v, want 450ms", cfg.QuietInterval)
	}
	if cfg.StorageBackend != "file" {
		t.Errorf("StorageBackend = %q, want file", cfg.StorageBackend)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JOT_BACKEND_URL", "https://notes.example.com")
	t.Setenv("JOT_AUTOSAVE_QUIET_MS", "200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackendURL != "https://notes.example.com" {
		t.Errorf("BackendURL = %q, want the env value", cfg.BackendURL)
	}
	if cfg.QuietInterval != 200*time.Millisecond {
		t.Errorf("QuietInterval = %v, want 200ms", cfg.QuietInterval)
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no backend", Config{APIPath: "/api"}, ""},
		{"plain", Config{BackendURL: "https://x.test", APIPath: "/api"}, "https://x.test/api"},
		{"trailing slash", Config{BackendURL: "https://x.test/", APIPath: "/api"}, "https://x.test/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
