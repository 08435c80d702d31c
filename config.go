package main

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yml"

// AppConfig is the contents of config.yml.
type AppConfig struct {
	ConfigVersion int `yaml:"config_version"`

	// Devices to read. Empty means auto-detect a single keyboard.
	Devices []string `yaml:"devices"`

	// File is the output path template, see ResolveLogPath.
	File string `yaml:"file"`

	Echo  bool `yaml:"echo"`
	Debug bool `yaml:"debug"`
	Sync  bool `yaml:"sync"`
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		ConfigVersion: latestConfigVersion,
		File:          "keys.log",
	}
}

// LoadAppConfig reads dir/config.yml over the defaults.
// A missing file is not an error.
func LoadAppConfig(dir string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Annotatef(err, "read %s", path)
	}

	// absent config_version means a file written before versioning
	cfg.ConfigVersion = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Annotatef(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Annotatef(err, "config %s", path)
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.File == "" {
		return errors.NotValidf("empty file")
	}
	for _, d := range c.Devices {
		if d == "" {
			return errors.NotValidf("empty device path")
		}
	}
	return nil
}

// Outdated reports whether config.yml needs `keylog migrate`.
func (c *AppConfig) Outdated() bool { return c.ConfigVersion < latestConfigVersion }
