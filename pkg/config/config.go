package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the JSON config written and read by default. The
// flat JSON shape is kept compatible with the original tool's config file.
const DefaultConfigFile = "imgur_delete_config.json"

// Config holds all configuration options for the purge tool
type Config struct {
	// Run holds the deletion run parameters
	Run RunConfig `yaml:"run" json:"run"`

	// Browser holds browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Pacing throttles interactions with the site
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RunConfig holds the parameters of a single deletion run
type RunConfig struct {
	Username    string `yaml:"username" json:"username"`
	StorageFile string `yaml:"storage_file" json:"storage_file"`
	DryRun      bool   `yaml:"dry_run" json:"dry_run"`
	MaxItems    int    `yaml:"max_items" json:"max_items"`
}

// BrowserConfig holds browser session settings
type BrowserConfig struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	NavTimeout     time.Duration `yaml:"nav_timeout" json:"nav_timeout"`
	SettleDelay    time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

// PacingConfig throttles how fast posts are processed
type PacingConfig struct {
	// ActionsPerMinute bounds post mutations per minute (token bucket)
	ActionsPerMinute int `yaml:"actions_per_minute" json:"actions_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// legacyConfig is the flat JSON document written by earlier versions of the
// tool; it round-trips through Save for compatibility. The booleans are
// pointers: a hand-edited file that omits dry_run must keep the safe
// default instead of silently flipping into deletion mode.
type legacyConfig struct {
	Username    string `json:"username"`
	StorageFile string `json:"storage_file"`
	DryRun      *bool  `json:"dry_run"`
	MaxItems    int    `json:"max_items"`
	Headless    *bool  `json:"headless"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			StorageFile: "imgur_storage_state.json",
			DryRun:      true,
			MaxItems:    10,
		},
		Browser: BrowserConfig{
			Headless:       false,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			NavTimeout:     30 * time.Second,
			SettleDelay:    400 * time.Millisecond,
		},
		Pacing: PacingConfig{
			ActionsPerMinute: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if username := os.Getenv("IMGURPURGE_USERNAME"); username != "" {
		c.Run.Username = username
	}
	if storageFile := os.Getenv("IMGURPURGE_STORAGE_FILE"); storageFile != "" {
		c.Run.StorageFile = storageFile
	}
	if dryRun := os.Getenv("IMGURPURGE_DRY_RUN"); dryRun != "" {
		c.Run.DryRun = strings.ToLower(dryRun) == "true"
	}
	if maxItems := os.Getenv("IMGURPURGE_MAX_ITEMS"); maxItems != "" {
		if val, err := strconv.Atoi(maxItems); err == nil && val > 0 {
			c.Run.MaxItems = val
		}
	}
	if headless := os.Getenv("IMGURPURGE_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if userAgent := os.Getenv("IMGURPURGE_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}
	if apm := os.Getenv("IMGURPURGE_ACTIONS_PER_MINUTE"); apm != "" {
		if val, err := strconv.Atoi(apm); err == nil && val > 0 {
			c.Pacing.ActionsPerMinute = val
		}
	}
	if logLevel := os.Getenv("IMGURPURGE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file. JSON files use
// the flat legacy shape; YAML files use the full nested schema.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // no config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var legacy legacyConfig
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		c.applyLegacy(&legacy)
		return nil
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyLegacy(legacy *legacyConfig) {
	if legacy.Username != "" {
		c.Run.Username = legacy.Username
	}
	if legacy.StorageFile != "" {
		c.Run.StorageFile = legacy.StorageFile
	}
	if legacy.DryRun != nil {
		c.Run.DryRun = *legacy.DryRun
	}
	if legacy.MaxItems > 0 {
		c.Run.MaxItems = legacy.MaxItems
	}
	if legacy.Headless != nil {
		c.Browser.Headless = *legacy.Headless
	}
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		DefaultConfigFile,
		".imgurpurge.yaml",
		".imgurpurge.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "imgurpurge", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".imgurpurge.yaml"),
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks if the configuration is complete enough to run
func (c *Config) Validate() error {
	var errs []error

	if c.Run.Username == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if c.Run.StorageFile == "" {
		errs = append(errs, errors.New("storage file is required"))
	}
	if c.Run.MaxItems < 1 {
		errs = append(errs, errors.New("max items must be at least 1"))
	}
	if c.Pacing.ActionsPerMinute <= 0 {
		errs = append(errs, errors.New("actions per minute must be positive"))
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errs = append(errs, errors.New("viewport dimensions must be positive"))
	}
	if c.Browser.NavTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
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

// Save saves the configuration to a file. JSON paths get the flat legacy
// shape, everything else the full YAML schema.
func (c *Config) Save(path string) error {
	var data []byte
	var err error

	if strings.EqualFold(filepath.Ext(path), ".json") {
		legacy := legacyConfig{
			Username:    c.Run.Username,
			StorageFile: c.Run.StorageFile,
			DryRun:      &c.Run.DryRun,
			MaxItems:    c.Run.MaxItems,
			Headless:    &c.Browser.Headless,
		}
		data, err = json.MarshalIndent(&legacy, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if username, ok := flags["username"].(string); ok && username != "" {
		c.Run.Username = username
	}
	if storageFile, ok := flags["storage-file"].(string); ok && storageFile != "" {
		c.Run.StorageFile = storageFile
	}
	if dryRun, ok := flags["dry-run"].(bool); ok {
		c.Run.DryRun = dryRun
	}
	if maxItems, ok := flags["max-items"].(int); ok && maxItems > 0 {
		c.Run.MaxItems = maxItems
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".imgurpurge.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	config.MergeCommandLineFlags(flags)

	return config, nil
}
