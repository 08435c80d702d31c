package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

//go:embed defaults/config.yml
var defaultConfigs embed.FS

// initConfig creates the config directory and writes the embedded default
// config.yml unless one already exists.
func initConfig(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Annotate(err, "create config dir")
	}

	dst := filepath.Join(dir, configFileName)
	if _, err := os.Stat(dst); err == nil {
		fmt.Printf("  skip %s (already exists)\n", configFileName)
		return nil
	}

	data, err := defaultConfigs.ReadFile("defaults/" + configFileName)
	if err != nil {
		return errors.Annotate(err, "read embedded defaults")
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return errors.Annotatef(err, "write %s", dst)
	}
	fmt.Printf("  created %s\n", configFileName)
	return nil
}
