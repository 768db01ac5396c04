package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Dry run must be the out-of-the-box behavior
	if !config.Run.DryRun {
		t.Error("Expected default to be a dry run")
	}

	if config.Run.MaxItems != 10 {
		t.Errorf("Expected default max items to be 10, got %d", config.Run.MaxItems)
	}

	if config.Run.StorageFile != "imgur_storage_state.json" {
		t.Errorf("Expected default storage file, got %s", config.Run.StorageFile)
	}

	if config.Pacing.ActionsPerMinute != 30 {
		t.Errorf("Expected default actions per minute to be 30, got %d", config.Pacing.ActionsPerMinute)
	}

	if config.Browser.NavTimeout != 30*time.Second {
		t.Errorf("Expected default nav timeout to be 30s, got %v", config.Browser.NavTimeout)
	}

	if err := config.Validate(); err == nil {
		t.Error("Expected default config to fail validation without a username")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IMGURPURGE_USERNAME", "envuser")
	t.Setenv("IMGURPURGE_STORAGE_FILE", "env_storage.json")
	t.Setenv("IMGURPURGE_DRY_RUN", "false")
	t.Setenv("IMGURPURGE_MAX_ITEMS", "42")
	t.Setenv("IMGURPURGE_HEADLESS", "true")
	t.Setenv("IMGURPURGE_ACTIONS_PER_MINUTE", "15")
	t.Setenv("IMGURPURGE_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Run.Username != "envuser" {
		t.Errorf("Expected username envuser, got %s", config.Run.Username)
	}
	if config.Run.StorageFile != "env_storage.json" {
		t.Errorf("Expected storage file env_storage.json, got %s", config.Run.StorageFile)
	}
	if config.Run.DryRun {
		t.Error("Expected dry run to be disabled")
	}
	if config.Run.MaxItems != 42 {
		t.Errorf("Expected max items 42, got %d", config.Run.MaxItems)
	}
	if !config.Browser.Headless {
		t.Error("Expected headless to be enabled")
	}
	if config.Pacing.ActionsPerMinute != 15 {
		t.Errorf("Expected 15 actions per minute, got %d", config.Pacing.ActionsPerMinute)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidValuesIgnored(t *testing.T) {
	t.Setenv("IMGURPURGE_MAX_ITEMS", "not-a-number")
	t.Setenv("IMGURPURGE_ACTIONS_PER_MINUTE", "-5")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Run.MaxItems != 10 {
		t.Errorf("Expected invalid max items to keep default 10, got %d", config.Run.MaxItems)
	}
	if config.Pacing.ActionsPerMinute != 30 {
		t.Errorf("Expected invalid rate to keep default 30, got %d", config.Pacing.ActionsPerMinute)
	}
}

func TestLoadFromFileLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imgur_delete_config.json")
	content := `{
  "username": "fileuser",
  "storage_file": "file_storage.json",
  "dry_run": false,
  "max_items": 7,
  "headless": true
}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Run.Username != "fileuser" {
		t.Errorf("Expected username fileuser, got %s", config.Run.Username)
	}
	if config.Run.StorageFile != "file_storage.json" {
		t.Errorf("Expected storage file file_storage.json, got %s", config.Run.StorageFile)
	}
	if config.Run.DryRun {
		t.Error("Expected dry run disabled")
	}
	if config.Run.MaxItems != 7 {
		t.Errorf("Expected max items 7, got %d", config.Run.MaxItems)
	}
	if !config.Browser.Headless {
		t.Error("Expected headless enabled")
	}
}

func TestLoadFromFileLegacyJSONMissingKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imgur_delete_config.json")
	// a hand-edited config without the boolean keys
	content := `{"username": "fileuser", "storage_file": "s.json", "max_items": 5}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	// an absent dry_run must never flip the run into deletion mode
	if !config.Run.DryRun {
		t.Error("Expected missing dry_run key to keep the dry-run default")
	}
	if config.Browser.Headless {
		t.Error("Expected missing headless key to keep the default")
	}
	if config.Run.MaxItems != 5 {
		t.Errorf("Expected max items 5, got %d", config.Run.MaxItems)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
run:
  username: yamluser
  max_items: 3
pacing:
  actions_per_minute: 12
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Run.Username != "yamluser" {
		t.Errorf("Expected username yamluser, got %s", config.Run.Username)
	}
	if config.Run.MaxItems != 3 {
		t.Errorf("Expected max items 3, got %d", config.Run.MaxItems)
	}
	if config.Pacing.ActionsPerMinute != 12 {
		t.Errorf("Expected 12 actions per minute, got %d", config.Pacing.ActionsPerMinute)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected warn log level, got %s", config.Logging.Level)
	}
}

func TestSaveLegacyJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.json")

	config := DefaultConfig()
	config.Run.Username = "saveduser"
	config.Run.DryRun = false
	config.Run.MaxItems = 99
	config.Browser.Headless = true

	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// the JSON file keeps the flat legacy shape
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved config is not valid JSON: %v", err)
	}
	if raw["username"] != "saveduser" {
		t.Errorf("Expected flat username key, got %v", raw["username"])
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Run.Username != "saveduser" || reloaded.Run.DryRun || reloaded.Run.MaxItems != 99 || !reloaded.Browser.Headless {
		t.Errorf("Round trip lost values: %+v", reloaded.Run)
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	config.Run.Username = "someone"

	if err := config.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	config.Run.MaxItems = 0
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for zero max items")
	}

	config = DefaultConfig()
	config.Run.Username = "someone"
	config.Logging.Level = "loud"
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for bad log level")
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"username":     "flaguser",
		"storage-file": "flag_storage.json",
		"dry-run":      false,
		"max-items":    5,
		"headless":     true,
		"log-level":    "debug",
	})

	if config.Run.Username != "flaguser" {
		t.Errorf("Expected username flaguser, got %s", config.Run.Username)
	}
	if config.Run.StorageFile != "flag_storage.json" {
		t.Errorf("Expected storage file flag_storage.json, got %s", config.Run.StorageFile)
	}
	if config.Run.DryRun {
		t.Error("Expected dry run disabled")
	}
	if config.Run.MaxItems != 5 {
		t.Errorf("Expected max items 5, got %d", config.Run.MaxItems)
	}
	if !config.Browser.Headless {
		t.Error("Expected headless enabled")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", config.Logging.Level)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"username": "fileuser", "dry_run": true, "max_items": 2}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("IMGURPURGE_USERNAME", "envuser")

	config, err := Load(path, map[string]interface{}{"username": "flaguser"})
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// flags beat env, env beats file
	if config.Run.Username != "flaguser" {
		t.Errorf("Expected flag to win precedence, got %s", config.Run.Username)
	}
	if config.Run.MaxItems != 2 {
		t.Errorf("Expected file max items to survive, got %d", config.Run.MaxItems)
	}
}
