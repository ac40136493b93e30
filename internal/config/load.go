package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// Load reads, expands, defaults, normalizes and validates the configuration at configPath.
// Files ending in .toml are decoded as TOML; everything else is YAML.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data, formatFor(configPath))
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").
			WithContext("path", configPath).
			Fatal().
			UserAction().
			Build()
	}
	return cfg, nil
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes raw configuration bytes after environment expansion and runs the
// defaulting, normalization and validation passes.
func Parse(data []byte, format Format) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	if format == FormatTOML {
		converted, err := tomlToYAML(expanded)
		if err != nil {
			return nil, err
		}
		expanded = converted
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize applies defaults, normalizes enums and validates cfg in place.
func Finalize(cfg *Config) error {
	res, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		slog.Warn("config normalization", "detail", w)
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return err
	}
	return Validate(cfg)
}

// tomlToYAML re-encodes a TOML document as YAML so a single set of struct tags covers
// both syntaxes. TOML tables are unordered, so sidebars come out sorted by name.
func tomlToYAML(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal toml: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert toml: %w", err)
	}
	return out, nil
}

// loadEnvFiles loads .env then .env.local from the working directory and from dir.
// Variables already present in the environment win.
func loadEnvFiles(dir string) {
	seen := map[string]bool{}
	for _, base := range []string{".", dir} {
		for _, name := range []string{".env", ".env.local"} {
			path := filepath.Clean(filepath.Join(base, name))
			if seen[path] {
				continue
			}
			seen[path] = true
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := godotenv.Load(path); err != nil {
				slog.Warn("failed to load env file", "path", path, "error", err)
				continue
			}
			slog.Debug("loaded environment variables", "path", path)
		}
	}
}
