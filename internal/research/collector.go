package research

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/todmy/insight-engine/pkg/models"
)

// ErrNoSources means the collector has nothing to fetch from.
var ErrNoSources = errors.New("no document sources configured")

// Source pulls documents for a query from one external provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]models.Document, error)
}

// Collector fans a query out over all configured sources and merges the
// results by concatenation. A failing source shrinks the corpus instead
// of failing the fetch; callers decide whether the remainder is usable.
type Collector struct {
	sources        []Source
	perSourceLimit int
	sourceTimeout  time.Duration
	maxJitter      time.Duration
	logger         *slog.Logger
}

// CollectorConfig holds collector configuration
type CollectorConfig struct {
	PerSourceLimit int
	SourceTimeout  time.Duration
	MaxJitter      time.Duration
}

// DefaultCollectorConfig returns default configuration
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		PerSourceLimit: 5,
		SourceTimeout:  20 * time.Second,
		MaxJitter:      1500 * time.Millisecond,
	}
}

// NewCollector creates a collector over the given sources
func NewCollector(sources []Source, config CollectorConfig, logger *slog.Logger) *Collector {
	def := DefaultCollectorConfig()
	if config.PerSourceLimit <= 0 {
		config.PerSourceLimit = def.PerSourceLimit
	}
	if config.SourceTimeout <= 0 {
		config.SourceTimeout = def.SourceTimeout
	}
	if config.MaxJitter < 0 {
		config.MaxJitter = def.MaxJitter
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{
		sources:        sources,
		perSourceLimit: config.PerSourceLimit,
		sourceTimeout:  config.SourceTimeout,
		maxJitter:      config.MaxJitter,
		logger:         logger,
	}
}

// Fetch gathers up to count documents for the query, fanning out over
// all sources concurrently. Each source call gets its own deadline and
// a small random pre-call delay to respect upstream rate limits. The
// merged result follows source registration order, so identical source
// responses produce an identically ordered corpus. Fetch only errors
// when the caller's context is done; source failures are logged and
// yield a partial (possibly empty) corpus.
func (c *Collector) Fetch(ctx context.Context, query string, count int) ([]models.Document, error) {
	if len(c.sources) == 0 {
		return nil, ErrNoSources
	}
	if count <= 0 {
		count = c.perSourceLimit * len(c.sources)
	}

	limit := perSourceShare(count, len(c.sources), c.perSourceLimit)

	// One result slot per source keeps merge order stable; no state is
	// shared between the fetch goroutines.
	results := make([][]models.Document, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(idx int, src Source) {
			defer wg.Done()

			if !c.sleepJitter(ctx) {
				return
			}

			fetchCtx, cancel := context.WithTimeout(ctx, c.sourceTimeout)
			defer cancel()

			docs, err := src.Fetch(fetchCtx, query, limit)
			if err != nil {
				// Partial failure: the corpus continues without this source.
				c.logger.Warn("source fetch failed",
					"source", src.Name(), "query", query, "error", err)
				return
			}

			c.logger.Info("source fetch complete",
				"source", src.Name(), "documents", len(docs), "requested", limit)
			results[idx] = docs
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []models.Document
	for _, docs := range results {
		merged = append(merged, docs...)
	}

	c.logger.Info("collection finished",
		"query", query, "documents", len(merged), "sources", len(c.sources))

	return merged, nil
}

// sleepJitter waits a random sub-maxJitter interval, returning false if
// the context is cancelled while waiting.
func (c *Collector) sleepJitter(ctx context.Context) bool {
	if c.maxJitter <= 0 {
		return ctx.Err() == nil
	}

	delay := time.Duration(rand.Int63n(int64(c.maxJitter)))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// perSourceShare splits the requested count evenly across sources,
// bounded by the per-source cap and never below one.
func perSourceShare(count, sources, maxPerSource int) int {
	share := (count + sources - 1) / sources
	if share > maxPerSource {
		share = maxPerSource
	}
	if share < 1 {
		share = 1
	}
	return share
}
