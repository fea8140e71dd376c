package main

import (
	"fmt"
	"os"
	"path/filepath"

	"tsr-go/internal/app"
	"tsr-go/internal/config"
	"tsr-go/internal/database"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// A written config turns on the journal and the log file; without
		// one the tool writes nothing but its output folder.
		cfg := config.NewConfig(defaults.BaseDir)
		cfg.LogDir = defaults.LogDir
		cfg.Database.Type = "sqlite"

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		source := defaults.ConfigPath
		if _, err := os.Stat(source); err != nil {
			source = "built-in defaults"
		}

		fmt.Printf("Configuration from %s:\n\n", source)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", orNone(cfg.LogDir))
		fmt.Printf("Prefix:        %s\n", cfg.Rename.Prefix)
		fmt.Printf("Start Number:  %s\n", cfg.Rename.StartNumber)
		fmt.Printf("Include Date:  %t\n", cfg.Rename.IncludeDate)
		fmt.Printf("Sort Mode:     %s\n", cfg.Rename.SortMode)
		fmt.Printf("Output Folder: %s\n", cfg.Filesystem.OutputDirName)
		fmt.Printf("Ignore:        %v\n", cfg.Filesystem.Ignore)
		fmt.Printf("Journal:       %s\n", journalDescription(cfg.Database))
		fmt.Printf("Destination:   %s\n", orDefault(cfg.Destination.Type, "filesystem"))
		return nil
	},
}

func journalDescription(db config.DatabaseConfig) string {
	switch db.Type {
	case "", "none":
		return "none"
	case "sqlite":
		return "sqlite (" + filepath.Join(db.DataDir, database.JournalFile) + ")"
	default:
		return db.Type
	}
}

func orNone(s string) string {
	return orDefault(s, "none")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
