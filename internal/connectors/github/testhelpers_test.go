package github

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// newTestServer starts an API stub and a client pointed at it.
func newTestServer(t *testing.T, mux *http.ServeMux) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(driven.StaticTokenProvider{Token: "test-token"}, server.URL, 0)
	return server, client
}

func testConfig() *Config {
	return &Config{Owner: "octo", Repo: "hello", PerPage: 2}
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}
