package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that relocate tsr's files.
const (
	EnvConfigPath = "TSR_CONFIG_PATH"
	EnvHome       = "TSR_HOME"
)

// Defaults are the locations tsr uses when the config does not say otherwise.
type Defaults struct {
	ConfigPath string // $TSR_CONFIG_PATH or ~/.config/tsr.toml
	BaseDir    string // $TSR_HOME or ~/.local/share/tsr
	LogDir     string // <BaseDir>/log
}

// GetDefaults resolves Defaults from the environment and the home directory.
// The home directory is only looked up when a variable is unset.
func GetDefaults() (Defaults, error) {
	var d Defaults
	var err error

	if d.ConfigPath, err = fromEnvOrHome(EnvConfigPath, ".config", "tsr.toml"); err != nil {
		return Defaults{}, err
	}
	if d.BaseDir, err = fromEnvOrHome(EnvHome, ".local", "share", "tsr"); err != nil {
		return Defaults{}, err
	}
	d.LogDir = filepath.Join(d.BaseDir, "log")
	return d, nil
}

func fromEnvOrHome(env string, elem ...string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}
