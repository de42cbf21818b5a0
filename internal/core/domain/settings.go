package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// CheckpointDriver selects the checkpoint store backend.
type CheckpointDriver string

// Available checkpoint drivers.
const (
	// CheckpointDriverSQLite stores checkpoints in a local SQLite file.
	CheckpointDriverSQLite CheckpointDriver = "sqlite"

	// CheckpointDriverPostgres stores checkpoints in a PostgreSQL database.
	CheckpointDriverPostgres CheckpointDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d CheckpointDriver) IsValid() bool {
	switch d {
	case CheckpointDriverSQLite, CheckpointDriverPostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d CheckpointDriver) String() string {
	return string(d)
}

// Description returns a human-readable description of the driver.
func (d CheckpointDriver) Description() string {
	switch d {
	case CheckpointDriverSQLite:
		return "SQLite (local file)"
	case CheckpointDriverPostgres:
		return "PostgreSQL (server)"
	default:
		return unknownDescription
	}
}

// TrackerSettings configures access to the issue tracker.
type TrackerSettings struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Repo is the repository name.
	Repo string

	// Token is the personal access token used for authentication.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise). Empty for github.com.
	BaseURL string

	// RequestDelay is the fixed pause before every tracker request.
	RequestDelay time.Duration

	// PerPage is the listing page size.
	PerPage int

	// IncludePullRequests keeps pull request conversations in the mirror.
	IncludePullRequests bool
}

// SearchSettings configures the search sink.
type SearchSettings struct {
	// URL is the Meilisearch endpoint.
	URL string

	// APIKey is the Meilisearch master key. Optional.
	APIKey string

	// Index is the index uid documents are written to.
	Index string

	// TaskTimeout bounds how long a write task is awaited.
	TaskTimeout time.Duration
}

// CheckpointSettings configures the checkpoint store.
type CheckpointSettings struct {
	// Driver selects the backend.
	Driver CheckpointDriver

	// DSN is the SQLite file path or the PostgreSQL connection string.
	DSN string
}

// AppSettings is the resolved process configuration.
type AppSettings struct {
	Tracker    TrackerSettings
	Search     SearchSettings
	Checkpoint CheckpointSettings
	Verbose    bool
}

// Defaults for AppSettings.
const (
	DefaultRequestDelay  = 200 * time.Millisecond
	DefaultPerPage       = 100
	DefaultSearchURL     = "http://localhost:7700"
	DefaultIndex         = "issues"
	DefaultTaskTimeout   = 20 * time.Second
	DefaultCheckpointDSN = "download_log.sqlite"
)

// DefaultAppSettings returns settings with every default applied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Tracker: TrackerSettings{
			RequestDelay:        DefaultRequestDelay,
			PerPage:             DefaultPerPage,
			IncludePullRequests: true,
		},
		Search: SearchSettings{
			URL:         DefaultSearchURL,
			Index:       DefaultIndex,
			TaskTimeout: DefaultTaskTimeout,
		},
		Checkpoint: CheckpointSettings{
			Driver: CheckpointDriverSQLite,
			DSN:    DefaultCheckpointDSN,
		},
	}
}

// Validate checks that the settings can drive a run.
func (s AppSettings) Validate() error {
	if s.Tracker.Owner == "" {
		return fmt.Errorf("%w: repository owner is required", ErrInvalidInput)
	}
	if s.Tracker.Repo == "" {
		return fmt.Errorf("%w: repository name is required", ErrInvalidInput)
	}
	if s.Tracker.Token == "" {
		return fmt.Errorf("%w: GitHub token is required", ErrInvalidInput)
	}
	if s.Tracker.PerPage < 1 || s.Tracker.PerPage > 100 {
		return fmt.Errorf("%w: per_page must be between 1 and 100", ErrInvalidInput)
	}
	if s.Tracker.RequestDelay < 0 {
		return fmt.Errorf("%w: request_delay must not be negative", ErrInvalidInput)
	}
	if s.Search.URL == "" || s.Search.Index == "" {
		return fmt.Errorf("%w: search url and index are required", ErrInvalidInput)
	}
	return s.ValidateCheckpoint()
}

// ValidateCheckpoint checks only the checkpoint settings. Commands that
// read state without syncing need nothing else.
func (s AppSettings) ValidateCheckpoint() error {
	if !s.Checkpoint.Driver.IsValid() {
		return fmt.Errorf("%w: checkpoint driver %q", ErrUnsupportedType, s.Checkpoint.Driver)
	}
	if s.Checkpoint.DSN == "" {
		return fmt.Errorf("%w: checkpoint dsn is required", ErrInvalidInput)
	}
	return nil
}
