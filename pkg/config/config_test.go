package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Site.BaseURL != "https://qipedc.moet.gov.vn/dictionary" {
		t.Errorf("Unexpected default base URL: %s", config.Site.BaseURL)
	}

	if config.Download.Workers != 5 {
		t.Errorf("Expected default worker count to be 5, got %d", config.Download.Workers)
	}

	if config.Browser.WaitTimeout != 25*time.Second {
		t.Errorf("Expected default wait timeout to be 25s, got %v", config.Browser.WaitTimeout)
	}

	if !config.Browser.Headless {
		t.Error("Expected headless to default to true")
	}

	if config.Output.VideoDir != filepath.Join("Dataset", "Videos") {
		t.Errorf("Unexpected default video dir: %s", config.Output.VideoDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("SIGNSCRAPER_BASE_URL", "https://example.com/dict")
	os.Setenv("SIGNSCRAPER_VIDEO_DIR", "/tmp/videos")
	os.Setenv("SIGNSCRAPER_WORKERS", "8")
	os.Setenv("SIGNSCRAPER_WAIT_SECONDS", "10")
	os.Setenv("SIGNSCRAPER_LOG_LEVEL", "debug")
	os.Setenv("SCRAPER_HEADLESS", "0")

	defer func() {
		os.Unsetenv("SIGNSCRAPER_BASE_URL")
		os.Unsetenv("SIGNSCRAPER_VIDEO_DIR")
		os.Unsetenv("SIGNSCRAPER_WORKERS")
		os.Unsetenv("SIGNSCRAPER_WAIT_SECONDS")
		os.Unsetenv("SIGNSCRAPER_LOG_LEVEL")
		os.Unsetenv("SCRAPER_HEADLESS")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Site.BaseURL != "https://example.com/dict" {
		t.Errorf("Expected base URL override, got %s", config.Site.BaseURL)
	}
	if config.Output.VideoDir != "/tmp/videos" {
		t.Errorf("Expected video dir override, got %s", config.Output.VideoDir)
	}
	if config.Download.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", config.Download.Workers)
	}
	if config.Browser.WaitTimeout != 10*time.Second {
		t.Errorf("Expected 10s wait timeout, got %v", config.Browser.WaitTimeout)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", config.Logging.Level)
	}
	if config.Browser.Headless {
		t.Error("Expected SCRAPER_HEADLESS=0 to disable headless mode")
	}
}

func TestHeadlessEnvDefault(t *testing.T) {
	os.Setenv("SCRAPER_HEADLESS", "1")
	defer os.Unsetenv("SCRAPER_HEADLESS")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if !config.Browser.Headless {
		t.Error("Expected SCRAPER_HEADLESS=1 to keep headless mode")
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `
site:
  base_url: https://example.com/dictionary
  items_per_page: 40
download:
  workers: 3
  download_timeout: 30s
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Site.BaseURL != "https://example.com/dictionary" {
		t.Errorf("Expected base URL from file, got %s", config.Site.BaseURL)
	}
	if config.Site.ItemsPerPage != 40 {
		t.Errorf("Expected 40 items per page, got %d", config.Site.ItemsPerPage)
	}
	if config.Download.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", config.Download.Workers)
	}
	if config.Download.DownloadTimeout != 30*time.Second {
		t.Errorf("Expected 30s download timeout, got %v", config.Download.DownloadTimeout)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected warn log level, got %s", config.Logging.Level)
	}

	// Defaults survive for fields the file doesn't set
	if config.Output.LabelPath != filepath.Join("Dataset", "Text", "label.csv") {
		t.Errorf("Expected default label path, got %s", config.Output.LabelPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty base URL", func(c *Config) { c.Site.BaseURL = "" }, true},
		{"relative base URL", func(c *Config) { c.Site.BaseURL = "qipedc.moet.gov.vn" }, true},
		{"zero workers", func(c *Config) { c.Download.Workers = 0 }, true},
		{"too many workers", func(c *Config) { c.Download.Workers = 50 }, true},
		{"zero wait timeout", func(c *Config) { c.Browser.WaitTimeout = 0 }, true},
		{"empty video dir", func(c *Config) { c.Output.VideoDir = "" }, true},
		{"empty label path", func(c *Config) { c.Output.LabelPath = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"base-url":   "https://example.com/d",
		"video-dir":  "/data/videos",
		"label-path": "/data/label.csv",
		"workers":    2,
		"wait":       5,
		"log-level":  "error",
	})

	if config.Site.BaseURL != "https://example.com/d" {
		t.Errorf("Expected flag base URL, got %s", config.Site.BaseURL)
	}
	if config.Output.VideoDir != "/data/videos" {
		t.Errorf("Expected flag video dir, got %s", config.Output.VideoDir)
	}
	if config.Download.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", config.Download.Workers)
	}
	if config.Browser.WaitTimeout != 5*time.Second {
		t.Errorf("Expected 5s wait timeout, got %v", config.Browser.WaitTimeout)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected error log level, got %s", config.Logging.Level)
	}
}
