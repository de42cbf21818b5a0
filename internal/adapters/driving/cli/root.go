// Package cli implements the issuesync command line.
//
// Commands resolve settings from defaults, the config file, the environment
// and flags, then ask the injected AppFactory for the services they drive.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/issuesync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driving"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// App bundles the services a command drives.
type App struct {
	Synchronizer driving.Synchronizer
	Status       driving.StatusReader
	Index        driving.IndexSetup

	// Close releases the stores and clients. May be nil.
	Close func() error
}

// AppFactory builds an App from resolved settings.
type AppFactory func(ctx context.Context, settings domain.AppSettings) (*App, error)

var newApp AppFactory

// SetAppFactory injects the dependency constructor. It must be called
// before Execute.
func SetAppFactory(f AppFactory) {
	newApp = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Flags shared by every command.
var (
	configPath string
	verbose    bool
	envFile    = ".env"

	owner            string
	repo             string
	searchURL        string
	index            string
	checkpointDriver string
	checkpointDSN    string
	requestDelay     time.Duration
	includePRs       bool
)

var rootCmd = &cobra.Command{
	Use:   "issuesync",
	Short: "Mirror GitHub issues into a Meilisearch index",
	Long: `issuesync copies the issues of one GitHub repository, with their
comments, into a Meilisearch index. Each run resumes from the most recent
update it has already committed, so repeated runs only transfer changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.issuesync/config.toml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&owner, "owner", "", "repository owner")
	pf.StringVar(&repo, "repo", "", "repository name")
	pf.StringVar(&searchURL, "search-url", "", "Meilisearch URL")
	pf.StringVar(&index, "index", "", "Meilisearch index uid")
	pf.StringVar(&checkpointDriver, "checkpoint-driver", "", "checkpoint store: sqlite or postgres")
	pf.StringVar(&checkpointDSN, "checkpoint-dsn", "", "SQLite file or PostgreSQL connection string")
	pf.DurationVar(&requestDelay, "request-delay", 0, "pause before every GitHub request")
	pf.BoolVar(&includePRs, "include-pull-requests", true, "also mirror pull request conversations")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveSettings layers flags over the file and environment settings.
func resolveSettings(cmd *cobra.Command) (domain.AppSettings, error) {
	path := configPath
	required := path != ""
	if path == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return domain.AppSettings{}, err
		}
		path = p
	}

	loader := &file.Loader{Path: path, Required: required, EnvFile: envFile}
	settings, err := loader.Load()
	if err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	setIfChanged := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setIfChanged("owner", &settings.Tracker.Owner, owner)
	setIfChanged("repo", &settings.Tracker.Repo, repo)
	setIfChanged("search-url", &settings.Search.URL, searchURL)
	setIfChanged("index", &settings.Search.Index, index)
	setIfChanged("checkpoint-dsn", &settings.Checkpoint.DSN, checkpointDSN)
	if flags.Changed("checkpoint-driver") {
		settings.Checkpoint.Driver = domain.CheckpointDriver(checkpointDriver)
	}
	if flags.Changed("request-delay") {
		settings.Tracker.RequestDelay = requestDelay
	}
	if flags.Changed("include-pull-requests") {
		settings.Tracker.IncludePullRequests = includePRs
	}
	if verbose {
		settings.Verbose = true
	}
	logger.SetVerbose(settings.Verbose)

	return settings, nil
}

// openApp builds the services for settings.
func openApp(ctx context.Context, settings domain.AppSettings) (*App, error) {
	if newApp == nil {
		return nil, errors.New("application not configured")
	}
	app, err := newApp(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("initialising: %w", err)
	}
	return app, nil
}

func closeApp(app *App) {
	if app.Close == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("Closing resources: %v", err)
	}
}
