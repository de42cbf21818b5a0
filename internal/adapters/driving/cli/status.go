package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show synchronisation state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.ValidateCheckpoint(); err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := openApp(ctx, settings)
	if err != nil {
		return err
	}
	defer closeApp(app)

	if app.Status == nil {
		return errors.New("status service not configured")
	}

	status, err := app.Status.Status(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Checkpoint store: %s (%s)\n", settings.Checkpoint.Driver.Description(), settings.Checkpoint.DSN)
	cmd.Printf("Issues synced:    %d\n", status.Records)
	cmd.Printf("Watermark:        %s\n", formatWatermark(status.Watermark))

	if status.LastRun == nil {
		cmd.Println("Last run:         never")
		return nil
	}

	run := status.LastRun
	cmd.Printf("Last run:         %s (%s)\n", run.ID, run.Status)
	cmd.Printf("  started:        %s\n", run.StartedAt.Format(time.RFC3339))
	if !run.FinishedAt.IsZero() {
		cmd.Printf("  finished:       %s\n", run.FinishedAt.Format(time.RFC3339))
	}
	cmd.Printf("  issues:         %d\n", run.Items)
	if run.Error != "" {
		cmd.Printf("  error:          %s\n", run.Error)
	}
	return nil
}
