package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/movehq/moveboard/internal/upstream"
)

// NewUpstreamClient starts an httptest server around handler and returns an
// upstream client pointed at it. The server shuts down via t.Cleanup.
func NewUpstreamClient(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return upstream.New(upstream.Config{
		BaseURL: srv.URL,
		APIKey:  "test-api-key",
		Timeout: 5 * time.Second,
	})
}

// UpstreamJSON replies with a fixed JSON body. Useful for routes a test
// does not care about beyond returning well-formed data.
func UpstreamJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
