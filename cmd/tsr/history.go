package main

import (
	"fmt"

	"tsr-go/internal/tsr"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View copied batches",
	Long:  `View copied batches. Batches are only recorded when the journal is enabled (database.type = "sqlite").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "history", args)
		if err != nil {
			return err
		}
		defer a.Close()

		batches, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(batches) == 0 {
			fmt.Println("No batches recorded.")
			return nil
		}

		for _, b := range batches {
			fmt.Printf("%s  %-16s  %s  %5d/%-5d  %-8s  %s\n",
				shortID(b.ID),
				humanize.Time(b.StartedAt),
				statusLabel(b.Status),
				b.Completed,
				b.Total,
				humanize.Bytes(uint64(b.Bytes)),
				b.Destination,
			)
			if b.Error != "" {
				fmt.Printf("          %s\n", red("%s", b.Error))
			}
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(s tsr.BatchStatus) string {
	label := fmt.Sprintf("%-9s", s)
	switch s {
	case tsr.BatchSuccess:
		return green("%s", label)
	case tsr.BatchCancelled:
		return yellow("%s", label)
	default:
		return red("%s", label)
	}
}
