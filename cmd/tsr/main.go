package main

import (
	"fmt"
	"os"

	"tsr-go/internal/app"
	"tsr-go/internal/config"
	"tsr-go/internal/tsr"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, or the defaults when there is none.
func loadConfig() (*config.Config, app.Defaults, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, defaults, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults.ConfigPath, defaults.BaseDir)
	if err != nil {
		return nil, defaults, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates a TSRApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "preview", "run").
func newApp(cmd *cobra.Command, command string, args []string) (*app.TSRApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewTSRApp(cfg, command, args, app.Options{
		Console: cmd.ErrOrStderr(),
		Verbose: verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// renameOptions returns the configured naming options with any flags the
// user set applied on top.
func renameOptions(cmd *cobra.Command, a *app.TSRApp) (tsr.RenameOptions, error) {
	opts, err := a.RenameOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("prefix") {
		opts.Prefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("start") {
		opts.StartNumber, _ = flags.GetString("start")
	}
	if flags.Changed("no-date") {
		noDate, _ := flags.GetBool("no-date")
		opts.IncludeDate = !noDate
	}
	if flags.Changed("sort") {
		s, _ := flags.GetString("sort")
		if opts.SortMode, err = tsr.ParseSortMode(s); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

var rootCmd = &cobra.Command{
	Use:   "tsr",
	Short: "Copy files into a sequentially renamed, date-ordered set",
	Long: `tsr copies the files of one or more folders into a "changed" folder next
to them, renamed as [DATE_][PREFIX_]NUMBER.ext in capture-date order.

The date of each file is taken from its EXIF capture time, a YYYYMMDD or
YYYYMM run in its name, or its modification time, in that order. Originals
are never modified.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug logging")

	for _, c := range []*cobra.Command{previewCmd, runCmd} {
		c.Flags().StringP("prefix", "p", "", "Name prefix (overrides config)")
		c.Flags().StringP("start", "s", "", "Start number; its width sets the zero padding (overrides config)")
		c.Flags().Bool("no-date", false, "Leave the date out of the new names")
		c.Flags().String("sort", "", `Sort order: "date" or "name" (overrides config)`)
	}

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of batches to show")
}
