package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/todmy/insight-engine/internal/analysis"
	"github.com/todmy/insight-engine/pkg/models"
)

// Collector fetches documents for a query from the configured external
// sources. Source-specific failures surface as a smaller corpus, not as
// an error; only a collector-level failure (e.g. cancellation) errors.
type Collector interface {
	Fetch(ctx context.Context, query string, count int) ([]models.Document, error)
}

// Analyzer runs one corpus analysis pass.
type Analyzer interface {
	Analyze(docs []models.Document) (*analysis.Result, error)
}

// Config holds refinement loop configuration
type Config struct {
	Threshold        float64 // accept when quality score reaches this
	MaxIterations    int     // refinement passes allowed beyond the first
	RefinementSuffix string  // appended to the query on each refinement
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Threshold:        0.8,
		MaxIterations:    1,
		RefinementSuffix: "more details on gaps and specific sub-topics",
	}
}

// Request is the orchestration entry point. CreativityLevel is carried
// through for the downstream idea generator and ignored here.
type Request struct {
	Query           string
	DocumentCount   int
	CreativityLevel string
}

// Outcome is what one orchestration run hands to the caller.
type Outcome struct {
	Insights       []models.Insight
	Clusters       []models.ThemeCluster
	IterationsUsed int
	QualityScore   float64
	FinalQuery     string
}

// refinementState lives only for the duration of one Run call.
type refinementState struct {
	iteration     int
	originalQuery string
	currentQuery  string
	accumulated   []models.Insight
	clusters      []models.ThemeCluster
}

type phase string

const (
	phaseAnalyzing phase = "analyzing"
	phaseRefining  phase = "refining"
	phaseAccepted  phase = "accepted"
)

// Orchestrator runs the analysis pipeline and decides, based on the
// quality score, whether to accept the insight set or re-run the
// analysis against a refined query. Refinement is the retry strategy;
// the orchestrator never retries a failed pass in place.
type Orchestrator struct {
	collector Collector
	analyzer  Analyzer
	config    Config
	logger    *slog.Logger
}

// NewOrchestrator creates a new refinement orchestrator
func NewOrchestrator(collector Collector, analyzer Analyzer, config Config, logger *slog.Logger) *Orchestrator {
	if config.Threshold <= 0 || config.Threshold >= 1 {
		config.Threshold = DefaultConfig().Threshold
	}
	if config.MaxIterations < 0 {
		config.MaxIterations = DefaultConfig().MaxIterations
	}
	if config.RefinementSuffix == "" {
		config.RefinementSuffix = DefaultConfig().RefinementSuffix
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		collector: collector,
		analyzer:  analyzer,
		config:    config,
		logger:    logger,
	}
}

// Run executes the bounded refinement loop for one request. Each call
// owns its own state; the orchestrator is re-entrant across concurrent
// requests. Insights accumulate across iterations and are never
// replaced. A pipeline failure on a non-final iteration degrades to a
// zero quality score and triggers refinement; on the final permitted
// iteration it propagates to the caller.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	st := &refinementState{originalQuery: req.Query, currentQuery: req.Query}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		final := st.iteration >= o.config.MaxIterations

		o.logger.Info("running analysis pass",
			"phase", phaseAnalyzing,
			"iteration", st.iteration,
			"query", st.currentQuery,
			"final", final)

		result, err := o.analyzeOnce(ctx, st.currentQuery, req.DocumentCount)
		if err != nil {
			if final {
				return nil, fmt.Errorf("iteration %d: %w", st.iteration, err)
			}
			// Degrade instead of aborting: a failed pass scores zero
			// and the loop refines.
			o.logger.Warn("analysis pass failed, refining",
				"iteration", st.iteration, "error", err)
			o.refine(st)
			continue
		}

		// Append-only accumulation across iterations
		st.accumulated = append(st.accumulated, result.Insights...)
		st.clusters = result.Clusters

		if result.QualityScore >= o.config.Threshold || final {
			o.logger.Info("insights accepted",
				"phase", phaseAccepted,
				"iterations_used", st.iteration+1,
				"quality_score", result.QualityScore)

			return &Outcome{
				Insights:       st.accumulated,
				Clusters:       st.clusters,
				IterationsUsed: st.iteration + 1,
				QualityScore:   result.QualityScore,
				FinalQuery:     st.currentQuery,
			}, nil
		}

		o.logger.Info("quality below threshold, refining query",
			"phase", phaseRefining,
			"iteration", st.iteration,
			"quality_score", result.QualityScore,
			"threshold", o.config.Threshold)
		o.refine(st)
	}
}

// refine derives the next query from the original one and advances the
// iteration counter. The suffix is appended to the original query, not
// the previous refined one, so suffixes do not stack.
func (o *Orchestrator) refine(st *refinementState) {
	st.currentQuery = st.originalQuery + " " + o.config.RefinementSuffix
	st.iteration++
}

func (o *Orchestrator) analyzeOnce(ctx context.Context, query string, count int) (*analysis.Result, error) {
	docs, err := o.collector.Fetch(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	result, err := o.analyzer.Analyze(docs)
	if err != nil {
		return nil, fmt.Errorf("analyze corpus: %w", err)
	}

	return result, nil
}
