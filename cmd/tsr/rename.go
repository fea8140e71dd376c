package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tsr-go/internal/app"
	"tsr-go/internal/tsr"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	green  = color.New(color.FgHiGreen).SprintfFunc()
	yellow = color.New(color.FgHiYellow).SprintfFunc()
	red    = color.New(color.FgHiRed).SprintfFunc()
)

var previewCmd = &cobra.Command{
	Use:   "preview PATH...",
	Short: "Show the new names without copying anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "preview", args)
		if err != nil {
			return err
		}
		defer a.Close()

		opts, err := renameOptions(cmd, a)
		if err != nil {
			return err
		}

		scan, records, err := scanAndArrange(cmd.Context(), a, args, opts)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		fmt.Printf("Sample name: %s\n", tsr.SampleName(opts, time.Now()))
		fmt.Printf("Output:      %s\n\n", a.OutputDir(scan))
		renderPreview(os.Stdout, records)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run PATH...",
	Short: "Copy the files under their new names",
	Long: `Copy the files under their new names into the output folder.

Interrupting with Ctrl-C stops after the file being copied; the files
already copied stay in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupts)

		a, err := newApp(cmd, "run", args)
		if err != nil {
			return err
		}
		defer a.Close()

		opts, err := renameOptions(cmd, a)
		if err != nil {
			return err
		}

		s := a.NewSession()
		bar := newProgressBar(os.Stderr, "Scanning")
		p, err := s.StartScan(cmd.Context(), args, bar.Update)
		if err != nil {
			return err
		}
		err = awaitPhase(p, interrupts)
		bar.Finish()
		if errors.Is(err, context.Canceled) {
			fmt.Println(yellow("Cancelled before copying"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("scanning: %w", err)
		}
		printWarnings(s.Scan())

		rows, named, err := s.Rearrange(opts)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No files found.")
			return nil
		}
		if !named {
			return fmt.Errorf("start number %q is not a number", opts.StartNumber)
		}

		bar = newProgressBar(os.Stderr, "Copying ")
		p, err = s.StartExecute(cmd.Context(), bar.Update)
		if err != nil {
			return err
		}
		err = awaitPhase(p, interrupts)
		bar.Finish()

		outcome := p.Outcome()
		if err != nil {
			if outcome == nil {
				return err
			}
			var copyErr *tsr.CopyError
			if errors.As(err, &copyErr) {
				fmt.Fprintln(os.Stderr, red("failed: %s", copyErr.Name))
			}
			return fmt.Errorf("copy stopped after %d of %d files: %w", outcome.Completed, outcome.Total, err)
		}

		if outcome.Cancelled {
			fmt.Println(yellow("Cancelled: %d of %d files copied to %s", outcome.Completed, outcome.Total, outcome.Destination))
			return nil
		}
		fmt.Println(green("Copied %d files (%s) to %s", outcome.Completed, humanize.Bytes(uint64(outcome.Bytes)), outcome.Destination))
		return nil
	},
}

// phase is the part of *app.Phase the CLI waits on.
type phase interface {
	Cancel()
	Done() <-chan struct{}
	Wait() error
}

// awaitPhase waits for p to finish. The first interrupt cancels it; the
// phase still completes the file it is working on.
func awaitPhase(p phase, interrupts <-chan os.Signal) error {
	select {
	case <-p.Done():
	case <-interrupts:
		p.Cancel()
	}
	return p.Wait()
}

// scanAndArrange scans roots and names the result with opts. Unreadable
// roots are reported and skipped.
func scanAndArrange(ctx context.Context, a *app.TSRApp, roots []string, opts tsr.RenameOptions) (*tsr.ScanResult, []*tsr.FileRecord, error) {
	bar := newProgressBar(os.Stderr, "Scanning")
	scan, err := a.Scan(ctx, roots, bar.Update)
	bar.Finish()
	if err != nil {
		return nil, nil, fmt.Errorf("scanning: %w", err)
	}

	printWarnings(scan)

	records, named := a.Arrange(scan.Records, opts)
	if !named {
		return nil, nil, fmt.Errorf("start number %q is not a number", opts.StartNumber)
	}
	return scan, records, nil
}

// printWarnings reports the roots a scan could not read.
func printWarnings(scan *tsr.ScanResult) {
	for _, w := range scan.Warnings {
		fmt.Fprintln(os.Stderr, yellow("skipped %s: %v", w.Root, w.Err))
	}
}

func renderPreview(w io.Writer, records []*tsr.FileRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Original", "New name", "Date"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, rec := range records {
		date := rec.DisplayDate
		if date == "" {
			date = "-"
		}
		table.Append([]string{fmt.Sprint(i + 1), rec.OriginalName, rec.ComputedName, date})
	}
	table.Render()
}
