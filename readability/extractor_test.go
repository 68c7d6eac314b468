package readability_test

import (
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, siteport.ENOCONTENT, siteport.ErrorCode(err))
	assert.True(t, siteport.IsExtractionFailed(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>Content</p></article></body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "Page Title", result.Title)
}

func TestExtractor_RemovesNavigation(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article><p>This is the main article content that should be preserved in the output.</p></article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.HTML, "main article content")
	assert.NotContains(t, result.HTML, "Home Nav Link")
}

func TestExtractor_PreservesTables(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Offices</title></head>
<body>
<article>
<p>Our offices and their opening hours are listed below for reference.</p>
<table>
<tr><th>City</th><th>Hours</th></tr>
<tr><td>Osaka</td><td>9-17</td></tr>
</table>
</article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.HTML, "<table")
	assert.Contains(t, result.HTML, "Osaka")
}
