package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the dictionary scraper
type Config struct {
	// Target site settings
	Site SiteConfig `yaml:"site" json:"site"`

	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Output locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SiteConfig holds settings for the dictionary site being scraped
type SiteConfig struct {
	BaseURL      string `yaml:"base_url" json:"base_url"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
	ItemsPerPage int    `yaml:"items_per_page" json:"items_per_page"`
}

// BrowserConfig holds settings for the chromedp session
type BrowserConfig struct {
	// Headless mirrors the SCRAPER_HEADLESS env flag: "1" (default) runs
	// the browser headless, "0" shows the window.
	Headless        bool          `yaml:"headless" json:"headless"`
	WaitTimeout     time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	PageLoadTimeout time.Duration `yaml:"page_load_timeout" json:"page_load_timeout"`
	WindowWidth     int           `yaml:"window_width" json:"window_width"`
	WindowHeight    int           `yaml:"window_height" json:"window_height"`
}

// OutputConfig holds output path configuration
type OutputConfig struct {
	VideoDir  string `yaml:"video_dir" json:"video_dir"`
	LabelPath string `yaml:"label_path" json:"label_path"`
	DebugDir  string `yaml:"debug_dir" json:"debug_dir"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Workers           int           `yaml:"workers" json:"workers"`
	DownloadTimeout   time.Duration `yaml:"download_timeout" json:"download_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:      "https://qipedc.moet.gov.vn/dictionary",
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36",
			ItemsPerPage: 80,
		},
		Browser: BrowserConfig{
			Headless:        true,
			WaitTimeout:     25 * time.Second,
			PageLoadTimeout: 30 * time.Second,
			WindowWidth:     1920,
			WindowHeight:    1080,
		},
		Output: OutputConfig{
			VideoDir:  filepath.Join("Dataset", "Videos"),
			LabelPath: filepath.Join("Dataset", "Text", "label.csv"),
			DebugDir:  filepath.Join("scraped_hand_data", "debug"),
		},
		Download: DownloadConfig{
			Workers:           5,
			DownloadTimeout:   60 * time.Second,
			RequestsPerMinute: 120,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("SIGNSCRAPER_BASE_URL"); baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if userAgent := os.Getenv("SIGNSCRAPER_USER_AGENT"); userAgent != "" {
		c.Site.UserAgent = userAgent
	}

	// SCRAPER_HEADLESS is the historical toggle: "1" = headless, "0" = visible
	if headless := os.Getenv("SCRAPER_HEADLESS"); headless != "" {
		c.Browser.Headless = headless != "0"
	}

	if videoDir := os.Getenv("SIGNSCRAPER_VIDEO_DIR"); videoDir != "" {
		c.Output.VideoDir = videoDir
	}
	if labelPath := os.Getenv("SIGNSCRAPER_LABEL_PATH"); labelPath != "" {
		c.Output.LabelPath = labelPath
	}
	if debugDir := os.Getenv("SIGNSCRAPER_DEBUG_DIR"); debugDir != "" {
		c.Output.DebugDir = debugDir
	}

	if workers := os.Getenv("SIGNSCRAPER_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Download.Workers = val
		}
	}

	if wait := os.Getenv("SIGNSCRAPER_WAIT_SECONDS"); wait != "" {
		var val int
		fmt.Sscanf(wait, "%d", &val)
		if val > 0 {
			c.Browser.WaitTimeout = time.Duration(val) * time.Second
		}
	}

	if logLevel := os.Getenv("SIGNSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".signscraper.yaml",
		".signscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "signscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "signscraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		errs = append(errs, errors.New("base URL must be absolute"))
	}

	if c.Download.Workers <= 0 {
		errs = append(errs, errors.New("worker count must be positive"))
	}
	if c.Download.Workers > 20 {
		errs = append(errs, errors.New("worker count should not exceed 20"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Browser.WaitTimeout <= 0 {
		errs = append(errs, errors.New("wait timeout must be positive"))
	}

	if c.Output.VideoDir == "" {
		errs = append(errs, errors.New("video directory is required"))
	}
	if c.Output.LabelPath == "" {
		errs = append(errs, errors.New("label file path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if videoDir, ok := flags["video-dir"].(string); ok && videoDir != "" {
		c.Output.VideoDir = videoDir
	}
	if labelPath, ok := flags["label-path"].(string); ok && labelPath != "" {
		c.Output.LabelPath = labelPath
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Download.Workers = workers
	}
	if wait, ok := flags["wait"].(int); ok && wait > 0 {
		c.Browser.WaitTimeout = time.Duration(wait) * time.Second
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".signscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
