package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

var skipIndexSetup bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise issues into the search index",
	Long: `Fetches every issue updated since the last committed one, with its
comments, and writes it to the search index and the checkpoint store.
The first failure aborts the run; running sync again resumes from the
last committed issue.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&skipIndexSetup, "skip-index-setup", false, "do not create or configure the index")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := openApp(ctx, settings)
	if err != nil {
		return err
	}
	defer closeApp(app)

	if app.Synchronizer == nil {
		return errors.New("sync service not configured")
	}

	if !skipIndexSetup && app.Index != nil {
		if err := app.Index.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("preparing index %s: %w", settings.Search.Index, err)
		}
	}

	cmd.Printf("Synchronising %s/%s into %s...\n",
		settings.Tracker.Owner, settings.Tracker.Repo, settings.Search.Index)

	report, err := app.Synchronizer.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", describe(err))
	}

	cmd.Printf("Synchronised %d issues in %s.\n", report.Items, report.Duration.Round(time.Millisecond))
	cmd.Printf("Watermark: %s\n", formatWatermark(report.NewWatermark))
	return nil
}

// describe adds a hint to failures that need operator action.
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamProtocolViolation):
		return fmt.Errorf("%w (the tracker returned inconsistent pages; re-run to resume)", err)
	case errors.Is(err, domain.ErrSinkRejected):
		return fmt.Errorf("%w (the search index refused the document)", err)
	default:
		return err
	}
}

func formatWatermark(t time.Time) string {
	if t.Equal(domain.BeginningOfTime) {
		return "none (nothing synced yet)"
	}
	return t.Format(time.RFC3339)
}
