package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/siteport"
	sphttp "github.com/fwojciec/siteport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		browser := sphttp.NewBrowser()
		defer browser.Close()
		ctx := context.Background()

		page, err := browser.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		require.NoError(t, page.Navigate(ctx, server.URL))
		require.NoError(t, page.WaitReady(ctx))
		html, err := page.HTML(ctx)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		browser := sphttp.NewBrowser(sphttp.WithTimeout(10 * time.Millisecond))
		page, err := browser.NewPage(context.Background())
		require.NoError(t, err)

		err = page.Navigate(context.Background(), server.URL)
		assert.Equal(t, siteport.ENAVIGATION, siteport.ErrorCode(err))
	})

	t.Run("returns navigation error for non-200 status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html>404 Not Found</html>"))
		}))
		defer server.Close()

		browser := sphttp.NewBrowser()
		ctx := context.Background()
		page, err := browser.NewPage(ctx)
		require.NoError(t, err)

		err = page.Navigate(ctx, server.URL)
		require.Error(t, err)
		assert.Equal(t, siteport.ENAVIGATION, siteport.ErrorCode(err))
		assert.Contains(t, siteport.ErrorMessage(err), "404")

		// The error page stays available for diagnostics
		html, err := page.HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, "404 Not Found")
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		browser := sphttp.NewBrowser(sphttp.WithTimeout(100 * time.Millisecond))
		page, err := browser.NewPage(context.Background())
		require.NoError(t, err)

		err = page.Navigate(context.Background(), "http://non-existent-host.invalid/page")
		assert.Equal(t, siteport.ENAVIGATION, siteport.ErrorCode(err))
	})
}

func TestPage_ScreenshotUnsupported(t *testing.T) {
	t.Parallel()

	page, err := sphttp.NewBrowser().NewPage(context.Background())
	require.NoError(t, err)

	_, err = page.Screenshot(context.Background())

	assert.Error(t, err)
}
