// Package config loads and validates the docpublish configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

// Config represents the application configuration.
type Config struct {
	Repo            string          `yaml:"repo"`              // path to the git repository to operate on
	Branch          string          `yaml:"branch"`            // publish branch name
	Remote          string          `yaml:"remote"`            // remote consulted during branch resolution
	LatestDir       string          `yaml:"latest_dir"`        // reserved latest-pointer entry name
	CustomDocsDir   string          `yaml:"custom_docs_dir"`   // optional custom root content in the source tree
	SiteConfigEntry string          `yaml:"site_config_entry"` // preserved root passthrough entry
	SiteTitle       string          `yaml:"site_title"`        // landing page title
	Generator       GeneratorConfig `yaml:"generator"`
}

// GeneratorConfig describes the external documentation generator invocation.
type GeneratorConfig struct {
	// Command is the generator argv. The output directory and version label
	// are exported as DOCPUB_OUTPUT_DIR and DOCPUB_VERSION.
	Command []string `yaml:"command"`
	// Installer is an optional dependency-install argv, run once before the
	// generator.
	Installer []string `yaml:"installer,omitempty"`
	// Timeout in seconds. Zero means none; no timeout is currently enforced.
	Timeout int `yaml:"timeout,omitempty"`
}

// Load loads configuration from the specified file, expanding environment
// variables in the YAML content after sourcing an optional .env file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigError("failed to unmarshal config").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Repo == "" {
		c.Repo = "."
	}
	if c.Branch == "" {
		c.Branch = "docs-site"
	}
	if c.Remote == "" {
		c.Remote = "origin"
	}
	if c.LatestDir == "" {
		c.LatestDir = "latest"
	}
	if c.SiteTitle == "" {
		c.SiteTitle = "Documentation"
	}
}

// Validate checks invariants the publish run relies on.
func (c *Config) Validate() error {
	if len(c.Generator.Command) == 0 {
		return errors.ConfigError("generator.command must not be empty").Build()
	}
	// The latest pointer shares the namespace with version directories.
	if version.IsCanonical(c.LatestDir) {
		return errors.ConfigError("latest_dir must not be a version label").
			WithContext("latest_dir", c.LatestDir).
			Build()
	}
	if c.SiteConfigEntry != "" && version.IsCanonical(c.SiteConfigEntry) {
		return errors.ConfigError("site_config_entry must not be a version label").
			WithContext("site_config_entry", c.SiteConfigEntry).
			Build()
	}
	return nil
}

const exampleConfig = `# docpublish configuration
repo: .
branch: docs-site
remote: origin
latest_dir: latest
# custom_docs_dir: docs/site
# site_config_entry: _config.yml
site_title: Documentation

generator:
  command: [make, docs]
  # installer: [npm, ci]
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return errors.FileSystemError("failed to write configuration file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
