// Package config handles Lorekeeper configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./lorekeeper.yaml, ~/.config/lorekeeper/config.yaml,
// /etc/lorekeeper/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"lorekeeper.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lorekeeper", "config.yaml"))
	}

	paths = append(paths, "/etc/lorekeeper/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Lorekeeper configuration.
type Config struct {
	Listen        ListenConfig        `yaml:"listen"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	PromptArchive PromptArchiveConfig `yaml:"prompt_archive"`
	DataDir       string              `yaml:"data_dir"`
	LogLevel      string              `yaml:"log_level"`
}

// ListenConfig defines the web server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// GeminiConfig defines the generation backend settings.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // Override for testing; default is the public API
	// TimeoutSec bounds each generation call (default 60).
	TimeoutSec int `yaml:"timeout_sec"`
}

// Timeout returns the generation call timeout as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(g.TimeoutSec) * time.Second
}

// PipelineConfig tunes the conversation pipeline thresholds.
type PipelineConfig struct {
	// TitleMilestone is the total persisted message count at which the
	// chat title is generated. A successful title fires exactly once per
	// chat.
	TitleMilestone int `yaml:"title_milestone"`
	// CompactionThreshold is the uncompressed message count above which
	// a compaction round runs.
	CompactionThreshold int `yaml:"compaction_threshold"`
	// CompactionFold is how many of the oldest uncompressed messages a
	// single compaction round folds into one summary.
	CompactionFold int `yaml:"compaction_fold"`
}

// PromptArchiveConfig controls verbatim archiving of assembled prompts.
// Purely observational; the pipeline never reads archived prompts back.
type PromptArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8080},
		Gemini: GeminiConfig{
			Model:      "gemini-2.0-flash",
			TimeoutSec: 60,
		},
		Pipeline: PipelineConfig{
			TitleMilestone:      6,
			CompactionThreshold: 50,
			CompactionFold:      20,
		},
		DataDir: ".",
	}
}
