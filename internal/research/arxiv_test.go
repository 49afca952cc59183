package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Sparse attention for long-context transformers</title>
    <summary>
      We study sparse attention patterns that scale to long documents.
    </summary>
    <published>2026-07-01T00:00:00Z</published>
    <link href="http://arxiv.org/abs/2607.00001v1" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/2607.00001v1" rel="related" type="application/pdf"/>
    <author><name>Ada Chen</name></author>
    <author><name>Luis Ortega</name></author>
  </entry>
  <entry>
    <title>Benchmarking retrieval pipelines</title>
    <summary>A benchmark suite for dense and sparse retrievers.</summary>
    <published>2026-06-15T00:00:00Z</published>
    <link href="http://arxiv.org/pdf/2606.00002v1" rel="related" type="application/pdf"/>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	var gotSearch, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search_query")
		gotMax = r.URL.Query().Get("max_results")
		w.Write([]byte(arxivFixture))
	}))
	defer srv.Close()

	src := NewArxivSource(WithArxivBaseURL(srv.URL))

	docs, err := src.Fetch(context.Background(), "sparse attention", 3)
	require.NoError(t, err)

	assert.Equal(t, "all:sparse attention", gotSearch)
	assert.Equal(t, "3", gotMax)

	require.Len(t, docs, 2)
	first := docs[0]
	assert.Equal(t, "arxiv", first.SourceID)
	assert.Equal(t, "Sparse attention for long-context transformers", first.Title)
	assert.Equal(t, "We study sparse attention patterns that scale to long documents.", first.Summary)
	assert.Equal(t, first.Summary, first.BodyText)
	assert.Equal(t, "http://arxiv.org/abs/2607.00001v1", first.URL)
	assert.Equal(t, []string{"Ada Chen", "Luis Ortega"}, first.Authors)

	// Without an alternate link, fall back to the first one available.
	assert.Equal(t, "http://arxiv.org/pdf/2606.00002v1", docs[1].URL)
	assert.Empty(t, docs[1].Authors)
}

func TestArxivFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewArxivSource(WithArxivBaseURL(srv.URL))

	_, err := src.Fetch(context.Background(), "anything", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestArxivFetchMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not xml"))
	}))
	defer srv.Close()

	src := NewArxivSource(WithArxivBaseURL(srv.URL))

	_, err := src.Fetch(context.Background(), "anything", 3)
	require.Error(t, err)
}
