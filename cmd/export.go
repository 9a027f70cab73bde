package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/morgenstille/bethere/internal/calendar"
	"github.com/morgenstille/bethere/internal/config"
	"github.com/morgenstille/bethere/internal/ics"
)

func newExportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export calendar events to an iCalendar file",
		Long: `Fetch all events from the calendar backend and write them as an
iCalendar (.ics) document, suitable for import into other calendar
applications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runExport(cfg, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cfg *config.Config, outputFile string) error {
	ctx := context.Background()

	client := calendar.NewClient(cfg.Calendar.BaseURL)
	events, err := client.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	document := ics.Export(events, time.Now())

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(document), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d events to: %s\n", len(events), outputFile)
	} else {
		fmt.Print(document)
	}

	return nil
}
