package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader := &Loader{LookupEnv: envMap(nil)}

	settings, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestLoader_File(t *testing.T) {
	path := writeConfig(t, `
verbose = true

[tracker]
owner = "octo"
repo = "hello"
request_delay = "500ms"
per_page = 50
include_pull_requests = false

[search]
url = "http://search:7700"
index = "tickets"
task_timeout = "1m"

[checkpoint]
driver = "postgres"
dsn = "postgres://localhost/issuesync"
`)
	loader := &Loader{Path: path, LookupEnv: envMap(nil)}

	settings, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "octo", settings.Tracker.Owner)
	assert.Equal(t, "hello", settings.Tracker.Repo)
	assert.Equal(t, 500*time.Millisecond, settings.Tracker.RequestDelay)
	assert.Equal(t, 50, settings.Tracker.PerPage)
	assert.False(t, settings.Tracker.IncludePullRequests)
	assert.Equal(t, "http://search:7700", settings.Search.URL)
	assert.Equal(t, "tickets", settings.Search.Index)
	assert.Equal(t, time.Minute, settings.Search.TaskTimeout)
	assert.Equal(t, domain.CheckpointDriverPostgres, settings.Checkpoint.Driver)
	assert.Equal(t, "postgres://localhost/issuesync", settings.Checkpoint.DSN)
	assert.True(t, settings.Verbose)
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[tracker]\nowner = \"octo\"\n")
	loader := &Loader{Path: path, LookupEnv: envMap(nil)}

	settings, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "octo", settings.Tracker.Owner)
	assert.True(t, settings.Tracker.IncludePullRequests)
	assert.Equal(t, domain.DefaultRequestDelay, settings.Tracker.RequestDelay)
	assert.Equal(t, domain.DefaultCheckpointDSN, settings.Checkpoint.DSN)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[tracker]\nowner = \"file-owner\"\nrepo = \"file-repo\"\n")
	loader := &Loader{Path: path, LookupEnv: envMap(map[string]string{
		EnvOwner:            "env-owner",
		EnvToken:            "ghp_secret",
		EnvSearchURL:        "http://meili:7700",
		EnvSearchKey:        "master",
		EnvCheckpointDriver: "postgres",
		EnvCheckpointDSN:    "postgres://db/issuesync",
		EnvRepo:             "",
	})}

	settings, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "env-owner", settings.Tracker.Owner)
	assert.Equal(t, "file-repo", settings.Tracker.Repo)
	assert.Equal(t, "ghp_secret", settings.Tracker.Token)
	assert.Equal(t, "http://meili:7700", settings.Search.URL)
	assert.Equal(t, "master", settings.Search.APIKey)
	assert.Equal(t, domain.CheckpointDriverPostgres, settings.Checkpoint.Driver)
	assert.Equal(t, "postgres://db/issuesync", settings.Checkpoint.DSN)
}

func TestLoader_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := (&Loader{Path: missing, LookupEnv: envMap(nil)}).Load()
	require.NoError(t, err)

	_, err = (&Loader{Path: missing, Required: true, LookupEnv: envMap(nil)}).Load()
	require.Error(t, err)
}

func TestLoader_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[tracker\nowner = 1"},
		{"duration", "[tracker]\nrequest_delay = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := (&Loader{Path: path, LookupEnv: envMap(nil)}).Load()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoader_MillisecondDuration(t *testing.T) {
	path := writeConfig(t, "[tracker]\nrequest_delay = \"250\"\n")

	settings, err := (&Loader{Path: path, LookupEnv: envMap(nil)}).Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, settings.Tracker.RequestDelay)
}

func TestLoader_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ISSUESYNC_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ISSUESYNC_TEST_DOTENV") })

	_, err := (&Loader{EnvFile: envFile}).Load()
	require.NoError(t, err)
	assert.Equal(t, "loaded", os.Getenv("ISSUESYNC_TEST_DOTENV"))

	_, err = (&Loader{EnvFile: filepath.Join(t.TempDir(), "missing.env")}).Load()
	assert.NoError(t, err)
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	require.NoError(t, WriteTemplate(path))

	settings, err := (&Loader{Path: path, Required: true, LookupEnv: envMap(nil)}).Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)

	assert.Error(t, WriteTemplate(path))
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".issuesync", "config.toml"), path)
}
