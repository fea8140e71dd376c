package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	base := filepath.Join(homeDir, ".local", "share", "tsr")

	tests := []struct {
		name       string
		configPath string
		home       string
		want       Defaults
	}{
		{
			name:       "uses env vars when set",
			configPath: "/custom/config.toml",
			home:       "/custom/tsr",
			want: Defaults{
				ConfigPath: "/custom/config.toml",
				BaseDir:    "/custom/tsr",
				LogDir:     "/custom/tsr/log",
			},
		},
		{
			name: "falls back to home dir defaults",
			want: Defaults{
				ConfigPath: filepath.Join(homeDir, ".config", "tsr.toml"),
				BaseDir:    base,
				LogDir:     filepath.Join(base, "log"),
			},
		},
		{
			name: "mixes env and home",
			home: "/srv/tsr",
			want: Defaults{
				ConfigPath: filepath.Join(homeDir, ".config", "tsr.toml"),
				BaseDir:    "/srv/tsr",
				LogDir:     "/srv/tsr/log",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, tt.configPath)
			t.Setenv(EnvHome, tt.home)

			got, err := GetDefaults()
			if err != nil {
				t.Fatalf("GetDefaults() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
