package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the remote server connection and import/export settings.
type Config struct {
	URL              string `yaml:"url"                   mapstructure:"url"`
	Username         string `yaml:"username"              mapstructure:"username"`
	Password         string `yaml:"password,omitempty"    mapstructure:"password"`
	RememberPassword bool   `yaml:"rememberPassword"      mapstructure:"rememberPassword"`
	Project          int    `yaml:"project,omitempty"     mapstructure:"project"`
	StripRichText    bool   `yaml:"stripRichText"         mapstructure:"stripRichText"`
	TestRunDate      string `yaml:"testRunDate,omitempty" mapstructure:"testRunDate"`
}

// DefaultPath returns the default config file path (~/.sheet-sync.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheet-sync.yaml"
	}
	return filepath.Join(home, ".sheet-sync.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Env var overrides
	v.BindEnv("url", "SHEETSYNC_URL")
	v.BindEnv("username", "SHEETSYNC_USERNAME")
	v.BindEnv("password", "SHEETSYNC_PASSWORD")
	v.BindEnv("project", "SHEETSYNC_PROJECT")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only ignore file-not-found; other errors (e.g. parse) are real
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("server URL is required (set in config file or SHEETSYNC_URL env var)")
	}
	if c.Username == "" {
		return fmt.Errorf("username is required (set in config file or SHEETSYNC_USERNAME env var)")
	}
	if c.TestRunDate != "" {
		if _, err := time.Parse("2006-01-02", c.TestRunDate); err != nil {
			return fmt.Errorf("testRunDate must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// RunDate returns the configured test-run execution date, or now if unset.
func (c Config) RunDate() time.Time {
	if c.TestRunDate == "" {
		return time.Now()
	}
	t, err := time.Parse("2006-01-02", c.TestRunDate)
	if err != nil {
		return time.Now()
	}
	return t
}

// Save writes the config to the given path (or default path if empty).
// The password is persisted only when RememberPassword is set.
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	if !cfg.RememberPassword {
		cfg.Password = ""
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
