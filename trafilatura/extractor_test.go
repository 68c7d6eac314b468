package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts content from pages without a content root", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Company History - Example Corp</title></head>
<body>
<div class="header-nav"><a href="/">Home</a> <a href="/about">About</a></div>
<div class="wrap">
<h2>Our history</h2>
<p>Example Corp was founded in 1987 as a small workshop and has since grown into a regional manufacturer of precision parts.</p>
<p>Today the company employs more than two hundred people across three production sites and exports to twelve countries.</p>
</div>
<div class="copyright">Copyright 2025 Example Corp</div>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.HTML, "founded in 1987")
		assert.Contains(t, result.HTML, "three production sites")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Press release</h1>
<p>The new plant opens in spring and will add forty jobs to the local economy over the coming year.</p>
</article>
<footer>
<p>Copyright 2025 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.HTML, "new plant opens")
		assert.NotContains(t, result.HTML, "Copyright 2025 Example Corp")
	})

	t.Run("empty input is ENOCONTENT", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, siteport.ENOCONTENT, siteport.ErrorCode(err))
	})
}
