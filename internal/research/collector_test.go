package research

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/insight-engine/pkg/models"
)

type fakeSource struct {
	name  string
	docs  []models.Document
	err   error
	delay time.Duration
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context, query string, limit int) ([]models.Document, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.docs) {
		return s.docs[:limit], nil
	}
	return s.docs, nil
}

func sourceDocs(name string, n int) []models.Document {
	docs := make([]models.Document, n)
	for i := range docs {
		docs[i] = models.Document{
			SourceID: name,
			Title:    fmt.Sprintf("%s article %d", name, i),
		}
	}
	return docs
}

func testCollectorConfig() CollectorConfig {
	cfg := DefaultCollectorConfig()
	cfg.MaxJitter = 0
	cfg.SourceTimeout = time.Second
	return cfg
}

func TestFetchNoSources(t *testing.T) {
	c := NewCollector(nil, testCollectorConfig(), nil)

	_, err := c.Fetch(context.Background(), "anything", 10)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestFetchMergesInSourceOrder(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "newsapi", docs: sourceDocs("newsapi", 2), delay: 30 * time.Millisecond},
		&fakeSource{name: "arxiv", docs: sourceDocs("arxiv", 2)},
	}
	c := NewCollector(sources, testCollectorConfig(), nil)

	docs, err := c.Fetch(context.Background(), "robotics", 10)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	// Registration order wins regardless of which source answered first.
	assert.Equal(t, "newsapi", docs[0].SourceID)
	assert.Equal(t, "newsapi", docs[1].SourceID)
	assert.Equal(t, "arxiv", docs[2].SourceID)
	assert.Equal(t, "arxiv", docs[3].SourceID)
}

func TestFetchPartialSourceFailure(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "newsapi", err: errors.New("rate limited")},
		&fakeSource{name: "arxiv", docs: sourceDocs("arxiv", 3)},
	}
	c := NewCollector(sources, testCollectorConfig(), nil)

	docs, err := c.Fetch(context.Background(), "robotics", 10)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestFetchAllSourcesFailing(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "newsapi", err: errors.New("down")},
		&fakeSource{name: "arxiv", err: errors.New("down")},
	}
	c := NewCollector(sources, testCollectorConfig(), nil)

	// An empty corpus is not a fetch error; insufficiency is judged
	// downstream.
	docs, err := c.Fetch(context.Background(), "robotics", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFetchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []Source{&fakeSource{name: "arxiv", docs: sourceDocs("arxiv", 1)}}
	c := NewCollector(sources, testCollectorConfig(), nil)

	_, err := c.Fetch(ctx, "robotics", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchSlowSourceTimesOut(t *testing.T) {
	cfg := testCollectorConfig()
	cfg.SourceTimeout = 20 * time.Millisecond

	sources := []Source{
		&fakeSource{name: "slow", docs: sourceDocs("slow", 2), delay: 500 * time.Millisecond},
		&fakeSource{name: "fast", docs: sourceDocs("fast", 2)},
	}
	c := NewCollector(sources, cfg, nil)

	docs, err := c.Fetch(context.Background(), "robotics", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "fast", docs[0].SourceID)
}

func TestFetchDefaultCount(t *testing.T) {
	cfg := testCollectorConfig()
	cfg.PerSourceLimit = 2

	sources := []Source{&fakeSource{name: "arxiv", docs: sourceDocs("arxiv", 5)}}
	c := NewCollector(sources, cfg, nil)

	docs, err := c.Fetch(context.Background(), "robotics", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestPerSourceShare(t *testing.T) {
	tests := []struct {
		count, sources, maxPerSource, expected int
	}{
		{10, 2, 5, 5},
		{10, 3, 5, 4},
		{10, 2, 3, 3},
		{1, 4, 5, 1},
		{0, 2, 5, 1},
	}

	for _, tt := range tests {
		got := perSourceShare(tt.count, tt.sources, tt.maxPerSource)
		if got != tt.expected {
			t.Errorf("perSourceShare(%d, %d, %d) = %d, want %d",
				tt.count, tt.sources, tt.maxPerSource, got, tt.expected)
		}
	}
}
