package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Init writes the Study Knots configuration to configPath. A .toml extension selects TOML.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := Marshal(StudyKnots(), formatFor(configPath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes cfg in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if format != FormatTOML {
		return data, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert config: %w", err)
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal toml: %w", err)
	}
	return out, nil
}
