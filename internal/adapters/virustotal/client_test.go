package virustotal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{APIKey: "k"})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://vt.example"})
	require.Error(t, err)
}

func TestClient_Submit(t *testing.T) {
	t.Run("returns scan id on success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/file/scan", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "test-key", r.FormValue("apikey"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer func() { _ = file.Close() }()
			assert.Equal(t, "mod.rmod", header.Filename)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"response_code": 1,
				"scan_id":       "abc123-1700000000",
			})
		})

		id, err := c.Submit(context.Background(), []byte("archive"), "mod.rmod")
		require.NoError(t, err)
		assert.Equal(t, "abc123-1700000000", id)
	})

	t.Run("rejected submission is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response_code": 0,
				"verbose_msg":   "invalid file",
			})
		})

		_, err := c.Submit(context.Background(), []byte("x"), "mod.rmod")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid file")
	})

	t.Run("rate limit response is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		_, err := c.Submit(context.Background(), []byte("x"), "mod.rmod")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit")
	})
}

func TestClient_Report(t *testing.T) {
	t.Run("ready report carries sanitized result", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/file/report", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
			assert.Equal(t, "abc123", r.URL.Query().Get("resource"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"response_code": 1,
				"positives":     2,
				"total":         61,
				"permalink":     "https://vt.example/report/abc123",
				"scans":         map[string]any{"EngineA": map[string]any{"detected": true}},
			})
		})

		outcome, err := c.Report(context.Background(), "abc123")
		require.NoError(t, err)
		require.True(t, outcome.Ready)
		assert.Equal(t, 2, outcome.Report.Positives)
		assert.Equal(t, 61, outcome.Report.Total)
		assert.Equal(t, "https://vt.example/report/abc123", outcome.Report.Permalink)

		// Per-engine details never make it into the stored raw payload.
		assert.NotContains(t, string(outcome.Report.Raw), "EngineA")
	})

	t.Run("queued analysis is not ready", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response_code": -2,
				"verbose_msg":   "Your resource is queued for analysis",
			})
		})

		outcome, err := c.Report(context.Background(), "abc123")
		require.NoError(t, err)
		assert.False(t, outcome.Ready)
	})

	t.Run("server error surfaces as error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.Report(context.Background(), "abc123")
		require.Error(t, err)
	})
}
