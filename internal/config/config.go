// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format           string `yaml:"format"`
		ConfidenceLevels string `yaml:"confidence_levels"`
		Verbose          bool   `yaml:"verbose"`
		Debug            bool   `yaml:"debug"`
		NoColor          bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Matching engine settings
	Matcher MatcherConfig `yaml:"matcher"`

	// Gazetteer extension word lists
	Gazetteer struct {
		FirstNamesFile string `yaml:"first_names_file"`
		StopWordsFile  string `yaml:"stop_words_file"`
	} `yaml:"gazetteer"`
}

// MatcherConfig holds the scoring parameters for candidate ranking
type MatcherConfig struct {
	Weights struct {
		FullName  float64 `yaml:"full_name"`
		LastName  float64 `yaml:"last_name"`
		FirstName float64 `yaml:"first_name"`
		City      float64 `yaml:"city"`
	} `yaml:"weights"`

	// Candidates whose best full-name score falls below this floor are
	// discarded before combined scoring.
	MinFullNameScore float64 `yaml:"min_full_name_score"`

	// Maximum number of suggestions kept per record.
	TopK int `yaml:"top_k"`

	// Confidence tier boundaries on the combined score.
	Thresholds struct {
		High   float64 `yaml:"high"`
		Medium float64 `yaml:"medium"`
	} `yaml:"thresholds"`

	// Worker count for batch matching. Zero means one worker per CPU.
	Workers int `yaml:"workers"`
}

// DefaultMatcherConfig returns the matcher parameters used when no
// config file overrides them.
func DefaultMatcherConfig() MatcherConfig {
	var mc MatcherConfig
	mc.Weights.FullName = 0.5
	mc.Weights.LastName = 0.25
	mc.Weights.FirstName = 0.15
	mc.Weights.City = 0.10
	mc.MinFullNameScore = 40
	mc.TopK = 5
	mc.Thresholds.High = 85
	mc.Thresholds.Medium = 65
	mc.Workers = 0
	return mc
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.ConfidenceLevels = "all"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Matcher = DefaultMatcherConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore defaults for numeric fields the file left unset. YAML
	// unmarshaling zeroes absent fields, and a zero weight vector or
	// zero top_k is never a usable configuration.
	if !containsField(data, "matcher", "weights") {
		config.Matcher.Weights = DefaultMatcherConfig().Weights
	}
	if !containsField(data, "matcher", "min_full_name_score") {
		config.Matcher.MinFullNameScore = DefaultMatcherConfig().MinFullNameScore
	}
	if !containsField(data, "matcher", "top_k") {
		config.Matcher.TopK = DefaultMatcherConfig().TopK
	}
	if !containsField(data, "matcher", "thresholds") {
		config.Matcher.Thresholds = DefaultMatcherConfig().Thresholds
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("name-resolve.yaml") {
		return "name-resolve.yaml"
	}
	if fileExists("name-resolve.yml") {
		return "name-resolve.yml"
	}

	// Check for project-specific dotfile
	if fileExists(".name-resolve.yaml") {
		return ".name-resolve.yaml"
	}
	if fileExists(".name-resolve.yml") {
		return ".name-resolve.yml"
	}

	// Check XDG config directory
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "name-resolve", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "name-resolve", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it
// returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Fall back to defaults — callers should not crash on a missing/bad config file.
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// ValidateConfig validates the scoring parameters
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	m := config.Matcher
	weights := []struct {
		name  string
		value float64
	}{
		{"full_name", m.Weights.FullName},
		{"last_name", m.Weights.LastName},
		{"first_name", m.Weights.FirstName},
		{"city", m.Weights.City},
	}
	sum := 0.0
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("weight %s must not be negative, got %g", w.name, w.value)
		}
		sum += w.value
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %g", sum)
	}

	if m.MinFullNameScore < 0 || m.MinFullNameScore > 100 {
		return fmt.Errorf("min_full_name_score must be in [0, 100], got %g", m.MinFullNameScore)
	}
	if m.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", m.TopK)
	}
	if m.Thresholds.Medium < 0 || m.Thresholds.High > 100 || m.Thresholds.Medium > m.Thresholds.High {
		return fmt.Errorf("thresholds must satisfy 0 <= medium <= high <= 100, got medium=%g high=%g",
			m.Thresholds.Medium, m.Thresholds.High)
	}
	if m.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", m.Workers)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory. Any stat
// failure, not just absence, counts as missing.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			// Last key - check if it exists
			_, exists := current[key]
			return exists
		}
		// Intermediate key - navigate deeper
		if next, ok := current[key].(map[string]interface{}); ok {
			current = next
		} else {
			return false
		}
	}
	return false
}
