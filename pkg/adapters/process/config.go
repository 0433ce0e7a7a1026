package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CheckerConfig describes an external solution checker.
type CheckerConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of checkers.yaml
type ConfigFile struct {
	Checkers []CheckerConfig `yaml:"checkers" json:"checkers"`
}

// LoadCheckers reads a configuration file (YAML or JSON) and returns a map of checker names to configs.
// A missing file yields an empty map.
func LoadCheckers(path string) (map[string]CheckerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]CheckerConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read checkers config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	checkers := make(map[string]CheckerConfig)
	for _, c := range cfg.Checkers {
		if c.Name == "" {
			continue
		}
		if c.Command == "" {
			return nil, fmt.Errorf("checker %s: command is required", c.Name)
		}
		checkers[c.Name] = c
	}
	return checkers, nil
}
