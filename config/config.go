package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/upgradenotes/domain"
)

const defaultTimeoutSeconds = 10

// Config is the top-level configuration for upgradenotes.
type Config struct {
	Manager    string           `yaml:"manager"` // package manager binary, default "npm"
	Fetch      FetchConfig      `yaml:"fetch"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Report     ReportConfig     `yaml:"report"`
}

// FetchConfig controls the note-fetching sources.
type FetchConfig struct {
	GitHubToken    string `yaml:"github_token"` // Inline, ${ENV_VAR}, or file path
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EnrichmentConfig controls the optional AI summarization step.
type EnrichmentConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Provider        string   `yaml:"provider"` // "auto" (default), "openai", "anthropic"
	OpenAIAPIKey    string   `yaml:"openai_api_key"`
	AnthropicAPIKey string   `yaml:"anthropic_api_key"`
	FocusAreas      []string `yaml:"focus_areas"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables and resolving credential file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Fetch.GitHubToken = resolveToken(cfg.Fetch.GitHubToken)
	cfg.Enrichment.OpenAIAPIKey = resolveToken(cfg.Enrichment.OpenAIAPIKey)
	cfg.Enrichment.AnthropicAPIKey = resolveToken(cfg.Enrichment.AnthropicAPIKey)

	applyDefaults(&cfg)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// Default returns a configuration with defaults applied, used when no
// config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".upgradenotes.yaml",
		".upgradenotes.yml",
		"upgradenotes.yaml",
		"upgradenotes.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if
// the resulting string is a path to an existing file, reads the token
// from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func applyDefaults(cfg *Config) {
	if cfg.Manager == "" {
		cfg.Manager = "npm"
	}
	if cfg.Fetch.TimeoutSeconds <= 0 {
		cfg.Fetch.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Enrichment.Provider == "" {
		cfg.Enrichment.Provider = "auto"
	}
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "reports"
	}
}

// validate checks enumerated configuration values.
func validate(cfg *Config) error {
	switch cfg.Enrichment.Provider {
	case "auto", "openai", "anthropic":
	default:
		return fmt.Errorf(
			"enrichment.provider must be one of auto, openai, anthropic; got %q",
			cfg.Enrichment.Provider,
		)
	}

	for _, area := range cfg.Enrichment.FocusAreas {
		if _, ok := domain.FocusAreaCategory(area); !ok {
			return fmt.Errorf(
				"enrichment.focus_areas contains unknown area %q "+
					"(allowed: breaking, security, deprecation, performance, migration)",
				area,
			)
		}
	}

	return nil
}

// EnrichmentOptions converts the enrichment section into the domain
// options consumed by the pipeline.
func (c *Config) EnrichmentOptions() domain.EnrichmentOptions {
	areas := make([]domain.Category, 0, len(c.Enrichment.FocusAreas))
	for _, name := range c.Enrichment.FocusAreas {
		if cat, ok := domain.FocusAreaCategory(name); ok {
			areas = append(areas, cat)
		}
	}
	return domain.EnrichmentOptions{
		Enabled:    c.Enrichment.Enabled,
		Provider:   c.Enrichment.Provider,
		FocusAreas: areas,
	}
}
