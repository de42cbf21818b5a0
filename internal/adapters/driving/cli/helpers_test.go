package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/issuesync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driving"
)

type mockSynchronizer struct {
	report *domain.SyncReport
	err    error
	calls  int
}

func (m *mockSynchronizer) Run(_ context.Context) (*domain.SyncReport, error) {
	m.calls++
	return m.report, m.err
}

type mockStatus struct {
	status *driving.SyncStatus
	err    error
}

func (m *mockStatus) Status(_ context.Context) (*driving.SyncStatus, error) {
	return m.status, m.err
}

type mockIndex struct {
	err   error
	calls int
}

func (m *mockIndex) EnsureIndex(_ context.Context) error {
	m.calls++
	return m.err
}

// harness captures the settings handed to the factory.
type harness struct {
	app      *App
	settings domain.AppSettings
	closed   bool
}

func setupCLITest(t *testing.T, app *App) *harness {
	t.Helper()

	for _, key := range []string{
		file.EnvOwner, file.EnvRepo, file.EnvToken, file.EnvSearchURL,
		file.EnvSearchKey, file.EnvCheckpointDriver, file.EnvCheckpointDSN,
	} {
		t.Setenv(key, "")
	}

	t.Setenv("HOME", t.TempDir())

	h := &harness{app: app}
	oldFactory, oldEnvFile := newApp, envFile
	newApp = func(_ context.Context, s domain.AppSettings) (*App, error) {
		h.settings = s
		if h.app.Close == nil {
			h.app.Close = func() error {
				h.closed = true
				return nil
			}
		}
		return h.app, nil
	}
	envFile = ""

	t.Cleanup(func() {
		newApp, envFile = oldFactory, oldEnvFile
		resetFlags(rootCmd.PersistentFlags())
		resetFlags(syncCmd.Flags())
		rootCmd.SetArgs(nil)
	})
	return h
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
