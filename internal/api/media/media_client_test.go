package media

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPollinationsClient_ImageFor(t *testing.T) {
	ctx := context.Background()

	t.Run("composes prompt URL without probing", func(t *testing.T) {
		client := NewPollinationsClient("https://image.example", false, time.Second, newTestLogger())

		url, err := client.ImageFor(ctx, "Brunei Museum", "destination")

		require.NoError(t, err)
		assert.Equal(t, "https://image.example/prompt/Brunei%20Museum%20destination", url)
	})

	t.Run("omits empty category hint", func(t *testing.T) {
		client := NewPollinationsClient("https://image.example", false, time.Second, newTestLogger())

		url, err := client.ImageFor(ctx, "Gadong Night Market", "")

		require.NoError(t, err)
		assert.Equal(t, "https://image.example/prompt/Gadong%20Night%20Market", url)
	})

	t.Run("empty name is an error", func(t *testing.T) {
		client := NewPollinationsClient("https://image.example", false, time.Second, newTestLogger())

		_, err := client.ImageFor(ctx, "  ", "destination")

		assert.Error(t, err)
	})

	t.Run("trims trailing slash and defaults base URL", func(t *testing.T) {
		client := NewPollinationsClient("https://image.example/", false, time.Second, newTestLogger())
		url, err := client.ImageFor(ctx, "Park", "")
		require.NoError(t, err)
		assert.Equal(t, "https://image.example/prompt/Park", url)

		defaulted := NewPollinationsClient("", false, time.Second, newTestLogger())
		url, err = defaulted.ImageFor(ctx, "Park", "")
		require.NoError(t, err)
		assert.Equal(t, "https://image.pollinations.ai/prompt/Park", url)
	})

	t.Run("verify probes with HEAD", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewPollinationsClient(server.URL, true, time.Second, newTestLogger())

		url, err := client.ImageFor(ctx, "Brunei Museum", "destination")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/prompt/Brunei%20Museum%20destination", url)
		assert.Equal(t, http.MethodHead, gotMethod)
		assert.Equal(t, "/prompt/Brunei Museum destination", gotPath)
	})

	t.Run("verify rejects error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewPollinationsClient(server.URL, true, time.Second, newTestLogger())

		_, err := client.ImageFor(ctx, "Brunei Museum", "destination")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("verify fails on unreachable service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewPollinationsClient(server.URL, true, time.Second, newTestLogger())

		_, err := client.ImageFor(ctx, "Brunei Museum", "destination")

		assert.Error(t, err)
	})
}
