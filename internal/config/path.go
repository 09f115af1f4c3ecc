package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultPath returns $XDG_CONFIG_HOME/audioctl/config.json, falling back to
// the working directory when the config home cannot be created.
func DefaultPath() string {
	if p, err := xdg.ConfigFile(filepath.Join("audioctl", "config.json")); err == nil {
		return p
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "audioctl-config.json")
}
