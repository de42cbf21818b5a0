package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// Environment variables read by Load.
const (
	EnvOwner            = "OWNER"
	EnvRepo             = "REPO"
	EnvToken            = "GITHUB_PAT"
	EnvSearchURL        = "MEILI_URL"
	EnvSearchKey        = "MEILI_MASTER_KEY"
	EnvCheckpointDriver = "ISSUESYNC_CHECKPOINT_DRIVER"
	EnvCheckpointDSN    = "ISSUESYNC_CHECKPOINT_DSN"
)

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.toml"

// fileSettings mirrors the TOML layout. Pointer fields distinguish an
// absent key from a zero value; durations are Go duration strings.
type fileSettings struct {
	Tracker struct {
		Owner               *string `toml:"owner,omitempty"`
		Repo                *string `toml:"repo,omitempty"`
		Token               *string `toml:"token,omitempty"`
		BaseURL             *string `toml:"base_url,omitempty"`
		RequestDelay        *string `toml:"request_delay,omitempty"`
		PerPage             *int    `toml:"per_page,omitempty"`
		IncludePullRequests *bool   `toml:"include_pull_requests,omitempty"`
	} `toml:"tracker"`
	Search struct {
		URL         *string `toml:"url,omitempty"`
		APIKey      *string `toml:"api_key,omitempty"`
		Index       *string `toml:"index,omitempty"`
		TaskTimeout *string `toml:"task_timeout,omitempty"`
	} `toml:"search"`
	Checkpoint struct {
		Driver *string `toml:"driver,omitempty"`
		DSN    *string `toml:"dsn,omitempty"`
	} `toml:"checkpoint"`
	Verbose *bool `toml:"verbose,omitempty"`
}

// DefaultPath returns ~/.issuesync/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".issuesync", DefaultFileName), nil
}

// Loader resolves AppSettings.
type Loader struct {
	// Path is the TOML file. A missing file is an error only when
	// Required is set.
	Path     string
	Required bool

	// EnvFile is the dotenv file loaded before reading the environment.
	// Empty disables dotenv loading.
	EnvFile string

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load applies defaults, the config file, the dotenv file and the
// environment, in that order. The result is not validated.
func (l *Loader) Load() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if l.Path != "" {
		if err := l.applyFile(&settings); err != nil {
			return settings, err
		}
	}

	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return settings, fmt.Errorf("loading %s: %w", l.EnvFile, err)
		}
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	applyEnv(&settings, lookup)

	return settings, nil
}

func (l *Loader) applyFile(settings *domain.AppSettings) error {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) && !l.Required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", l.Path, err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("%w: parsing config %s: %w", domain.ErrInvalidInput, l.Path, err)
	}
	return fs.apply(settings)
}

func (fs *fileSettings) apply(s *domain.AppSettings) error {
	setString(&s.Tracker.Owner, fs.Tracker.Owner)
	setString(&s.Tracker.Repo, fs.Tracker.Repo)
	setString(&s.Tracker.Token, fs.Tracker.Token)
	setString(&s.Tracker.BaseURL, fs.Tracker.BaseURL)
	if fs.Tracker.PerPage != nil {
		s.Tracker.PerPage = *fs.Tracker.PerPage
	}
	if fs.Tracker.IncludePullRequests != nil {
		s.Tracker.IncludePullRequests = *fs.Tracker.IncludePullRequests
	}
	if err := setDuration(&s.Tracker.RequestDelay, fs.Tracker.RequestDelay, "tracker.request_delay"); err != nil {
		return err
	}

	setString(&s.Search.URL, fs.Search.URL)
	setString(&s.Search.APIKey, fs.Search.APIKey)
	setString(&s.Search.Index, fs.Search.Index)
	if err := setDuration(&s.Search.TaskTimeout, fs.Search.TaskTimeout, "search.task_timeout"); err != nil {
		return err
	}

	if fs.Checkpoint.Driver != nil {
		s.Checkpoint.Driver = domain.CheckpointDriver(*fs.Checkpoint.Driver)
	}
	setString(&s.Checkpoint.DSN, fs.Checkpoint.DSN)

	if fs.Verbose != nil {
		s.Verbose = *fs.Verbose
	}
	return nil
}

func applyEnv(s *domain.AppSettings, lookup func(string) (string, bool)) {
	env := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	env(EnvOwner, &s.Tracker.Owner)
	env(EnvRepo, &s.Tracker.Repo)
	env(EnvToken, &s.Tracker.Token)
	env(EnvSearchURL, &s.Search.URL)
	env(EnvSearchKey, &s.Search.APIKey)
	env(EnvCheckpointDSN, &s.Checkpoint.DSN)

	var driver string
	env(EnvCheckpointDriver, &driver)
	if driver != "" {
		s.Checkpoint.Driver = domain.CheckpointDriver(driver)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		// Bare integers are milliseconds.
		ms, convErr := strconv.Atoi(*v)
		if convErr != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		d = time.Duration(ms) * time.Millisecond
	}
	*dst = d
	return nil
}

// WriteTemplate writes a commented starter config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", domain.ErrInvalidInput, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	d := domain.DefaultAppSettings()
	var fs fileSettings
	owner, repo := "", ""
	delay, timeout := d.Tracker.RequestDelay.String(), d.Search.TaskTimeout.String()
	driver := d.Checkpoint.Driver.String()
	fs.Tracker.Owner = &owner
	fs.Tracker.Repo = &repo
	fs.Tracker.RequestDelay = &delay
	fs.Tracker.PerPage = &d.Tracker.PerPage
	fs.Tracker.IncludePullRequests = &d.Tracker.IncludePullRequests
	fs.Search.URL = &d.Search.URL
	fs.Search.Index = &d.Search.Index
	fs.Search.TaskTimeout = &timeout
	fs.Checkpoint.Driver = &driver
	fs.Checkpoint.DSN = &d.Checkpoint.DSN

	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	header := "# issuesync configuration.\n# The token is best supplied through GITHUB_PAT.\n\n"
	// Write with restricted permissions
	return os.WriteFile(path, append([]byte(header), data...), 0o600)
}
