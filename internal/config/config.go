package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the persisted local configuration under ~/.orbit/config.toml.
// Every field can be overridden per invocation by flag or environment.
type Config struct {
	Server    string `mapstructure:"server" json:"server" yaml:"server"`
	APIKey    string `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	Tenant    string `mapstructure:"tenant" json:"tenant" yaml:"tenant"`
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	Output    string `mapstructure:"output" json:"output" yaml:"output"`
}

// Path returns the config file location inside the user's home directory.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".orbit", "config.toml"), nil
}

// Load reads the config file. A missing file is not an error: it yields the
// zero config so first runs work without any setup.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the config file, creating ~/.orbit if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server", c.Server)
	v.Set("api_key", c.APIKey)
	v.Set("tenant", c.Tenant)
	v.Set("namespace", c.Namespace)
	v.Set("output", c.Output)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Set updates a single key, rejecting unknown keys with the valid list.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "api_key", "api-key":
		c.APIKey = value
	case "tenant":
		c.Tenant = value
	case "namespace":
		c.Namespace = value
	case "output":
		c.Output = value
	default:
		return fmt.Errorf("unknown key %q: valid keys are server, api_key, tenant, namespace, output", key)
	}
	return nil
}
