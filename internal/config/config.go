package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"tsr-go/internal/tsr"
)

// Config represents the main configuration for tsr.
type Config struct {
	BaseDir     string            `toml:"base_dir"`
	LogDir      string            `toml:"log_dir"`
	Rename      RenameConfig      `toml:"rename"`
	Filesystem  FilesystemConfig  `toml:"filesystem"`
	Database    DatabaseConfig    `toml:"database"`
	Destination DestinationConfig `toml:"destination"`
}

// RenameConfig holds the default naming options. Command-line flags
// override them per invocation.
type RenameConfig struct {
	Prefix      string `toml:"prefix"`
	StartNumber string `toml:"start_number" validate:"startnumber"`
	IncludeDate bool   `toml:"include_date"`
	SortMode    string `toml:"sort_mode" validate:"omitempty,oneof=date name"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore        []string `toml:"ignore"`
	OutputDirName string   `toml:"output_dir_name" validate:"required,excludesall=/\\"`
}

// DatabaseConfig represents configuration for the batch journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type" validate:"omitempty,oneof=none memory sqlite"`
	DataDir string `toml:"data_dir,omitempty" validate:"required_if=Type sqlite"` // only used for type=sqlite
}

// DestinationConfig selects where renamed copies are written.
type DestinationConfig struct {
	Type string `toml:"type" validate:"omitempty,oneof=filesystem memory"` // "filesystem" (default) or "memory"
}

// NewConfig creates a new Config with default naming options and paths
// under baseDir. The journal and log file stay off until configured.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		Rename: RenameConfig{
			Prefix:      "A",
			StartNumber: "0001",
			IncludeDate: true,
			SortMode:    "date",
		},
		Filesystem: FilesystemConfig{
			OutputDirName: "changed",
		},
		Database: DatabaseConfig{
			Type:    "none",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Destination: DestinationConfig{
			Type: "filesystem",
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("toml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("startnumber", validStartNumber)
}

// validStartNumber applies the sequencer's own parsing rule.
func validStartNumber(fl validator.FieldLevel) bool {
	return tsr.ValidStartNumber(fl.Field().String())
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("invalid config: field %s, %q is invalid", verrs[0].Namespace(), verrs[0].Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys missing from the
// input keep the values of NewConfig(baseDir).
func (m *Manager) Read(r io.Reader, baseDir string) (*Config, error) {
	cfg := NewConfig(baseDir)
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path, baseDir string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path, falling back to NewConfig(baseDir) when
// no file exists there.
func Load(path, baseDir string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewConfig(baseDir), nil
	}
	return ReadFromFile(path, baseDir)
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
