package github

import (
	"fmt"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// MaxPerPage is the largest page size the issues endpoint accepts.
const MaxPerPage = 100

// Config holds the connection settings for one repository.
type Config struct {
	Owner string
	Repo  string

	// BaseURL overrides the API root. Empty means api.github.com.
	BaseURL string

	// PerPage is the listing page size.
	PerPage int

	// RequestDelay is slept before every API call.
	RequestDelay time.Duration
}

// ConfigFromSettings builds a Config from tracker settings.
func ConfigFromSettings(s domain.TrackerSettings) (*Config, error) {
	cfg := &Config{
		Owner:        s.Owner,
		Repo:         s.Repo,
		BaseURL:      s.BaseURL,
		PerPage:      s.PerPage,
		RequestDelay: s.RequestDelay,
	}
	if cfg.PerPage == 0 {
		cfg.PerPage = MaxPerPage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return ErrRepoRequired
	}
	if c.PerPage < 1 || c.PerPage > MaxPerPage {
		return fmt.Errorf("%w: per_page %d", ErrConfigInvalid, c.PerPage)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("%w: negative request delay", ErrConfigInvalid)
	}
	return nil
}

// FullName returns "owner/repo".
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}
