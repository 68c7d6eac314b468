package fs_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestAuditLog_AppendsOneLinePerOutcome(t *testing.T) {
	t.Parallel()

	// Given an audit log
	dir := filepath.Join(t.TempDir(), "logs")
	log := fs.NewAuditLog(dir)
	ctx := context.Background()

	// When two failures and one success are appended
	require.NoError(t, log.AppendFailure(ctx, &siteport.FailureEntry{
		URL: "https://example.com/a", Reason: "timeout", HTMLPath: "html/a.html", ScreenshotPath: "screenshots/a.png",
	}))
	require.NoError(t, log.AppendFailure(ctx, &siteport.FailureEntry{URL: "https://example.com/a", Reason: "again"}))
	require.NoError(t, log.AppendSuccess(ctx, successRecord("https://example.com/b", "b")))

	// Then history is kept in order
	failures := readLines(t, filepath.Join(dir, fs.FailureLogName))
	require.Len(t, failures, 2)
	assert.Equal(t, "https://example.com/a", failures[0]["url"])
	assert.Equal(t, "timeout", failures[0]["reason"])
	assert.Equal(t, "html/a.html", failures[0]["htmlPath"])
	assert.Equal(t, "screenshots/a.png", failures[0]["screenshotPath"])
	assert.Equal(t, "again", failures[1]["reason"])

	successes := readLines(t, filepath.Join(dir, fs.SuccessLogName))
	require.Len(t, successes, 1)
	assert.Equal(t, "success", successes[0]["status"])
	assert.Equal(t, "b", successes[0]["slug"])
}

func TestDiagnostics_WritesArtifactsAtPaths(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	d := fs.NewDiagnostics(filepath.Join(base, "html"), filepath.Join(base, "screenshots"))
	ctx := context.Background()

	require.NoError(t, d.WriteHTML(ctx, "about", "<html></html>"))
	require.NoError(t, d.WriteScreenshot(ctx, "about", []byte{0x89, 'P', 'N', 'G'}))

	htmlPath, shotPath := d.Paths("about")
	assert.Equal(t, filepath.Join(base, "html", "about.html"), htmlPath)
	assert.Equal(t, filepath.Join(base, "screenshots", "about.png"), shotPath)

	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
	_, err = os.Stat(shotPath)
	require.NoError(t, err)
}

func TestURLList_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "urls.json")
	urls := []string{"https://example.com/a", "https://example.com/b"}

	require.NoError(t, fs.WriteURLs(path, urls))
	got, err := fs.ReadURLs(path)

	require.NoError(t, err)
	assert.Equal(t, urls, got)
}

func TestURLList_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := fs.ReadURLs(filepath.Join(t.TempDir(), "urls.json"))

	assert.Equal(t, siteport.ENOTFOUND, siteport.ErrorCode(err))
}
