package siteport_test

import (
	"testing"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete document", func(t *testing.T) {
		t.Parallel()

		doc := &siteport.Document{
			Title:      "Hello",
			Slug:       "blog-hello",
			SourceURL:  "https://example.com/blog/hello",
			ImportedAt: time.Now(),
			Collection: siteport.CollectionPosts,
		}

		require.NoError(t, doc.Validate())
	})

	t.Run("requires slug, source URL and a known collection", func(t *testing.T) {
		t.Parallel()

		for _, doc := range []*siteport.Document{
			{SourceURL: "https://example.com/a", Collection: siteport.CollectionPages},
			{Slug: "a", Collection: siteport.CollectionPages},
			{Slug: "a", SourceURL: "https://example.com/a", Collection: "drafts"},
		} {
			err := doc.Validate()
			require.Error(t, err)
			assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
		}
	})
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("success record needs url, slug and status", func(t *testing.T) {
		t.Parallel()

		rec := &siteport.Record{URL: "https://example.com/a", Slug: "a", Status: siteport.StatusSuccess}
		require.NoError(t, rec.Validate())
	})

	t.Run("failed record needs a reason", func(t *testing.T) {
		t.Parallel()

		rec := &siteport.Record{URL: "https://example.com/a", Slug: "a", Status: siteport.StatusFailed}
		err := rec.Validate()

		require.Error(t, err)
		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		rec := &siteport.Record{URL: "https://example.com/a", Slug: "a", Status: "pending"}
		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(rec.Validate()))
	})
}
