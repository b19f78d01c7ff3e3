package traditional

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain/category"
	"github.com/kailas-cloud/archsearch/internal/domain/event"
	"github.com/kailas-cloud/archsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/archsearch/internal/domain/search/request"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
)

// SearchType labels results of this pipeline.
const SearchType = "traditional_hybrid"

// Options selects the index and ranking for the search call.
type Options struct {
	Index          string
	SemanticConfig string
	Top            int
}

// Result is the outcome of one traditional run.
type Result struct {
	Query      string
	Categories category.Set
	Tier       category.Tier
	// Filter is empty when no category filter applied.
	Filter     string
	Documents  []result.Document
	TotalCount int64
	// ExecutionTime covers categorization, search and processing, not answer generation.
	ExecutionTime time.Duration
	Answer        string
}

// ResultCount is the number of documents returned.
func (r *Result) ResultCount() int { return len(r.Documents) }

// HasAnswer reports whether an answer was generated.
func (r *Result) HasAnswer() bool { return r.Answer != "" }

// Service runs categorize, filter, search and answer in sequence.
type Service struct {
	resolver CategoryResolver
	searcher Searcher
	answerer Answerer
	opts     Options
	logger   *zap.Logger
}

// New creates a traditional pipeline.
func New(resolver CategoryResolver, searcher Searcher, answerer Answerer, opts Options, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		searcher: searcher,
		answerer: answerer,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes the pipeline, reporting progress to sink.
// Only a search failure fails the run.
func (s *Service) Run(ctx context.Context, query string, sink event.Sink) (*Result, error) {
	logger := logpkg.FromContextOr(ctx, s.logger)
	if sink == nil {
		sink = event.Discard
	}
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	start := time.Now()

	event.Step(sink, 1, "LLM-powered category detection...")
	res := s.resolver.Resolve(ctx, query)
	if res.Tier == category.TierKeyword {
		event.Warn(sink, "LLM categorization unavailable, using keyword fallback")
	}
	event.Info(sink, fmt.Sprintf("Detected categories: %s", res.Categories))

	event.Step(sink, 2, "Building manual filter...")
	expr, ok := filter.Categories(res.Categories)
	if ok {
		event.Info(sink, "Filter expression: "+expr)
	} else {
		event.Info(sink, "Filter expression: None")
	}

	event.Step(sink, 3, "Executing hybrid search...")
	req, err := request.New(s.opts.Index, query, expr, s.opts.SemanticConfig, s.opts.Top)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	page, err := s.searcher.Search(ctx, req)
	if err != nil {
		logger.Error("Traditional search failed", zap.String("index", s.opts.Index), zap.Error(err))
		return nil, fmt.Errorf("traditional search: %w", err)
	}

	event.Step(sink, 4, "Processing results...")
	out := &Result{
		Query:         query,
		Categories:    res.Categories,
		Tier:          res.Tier,
		Filter:        expr,
		Documents:     page.Documents,
		TotalCount:    page.TotalCount,
		ExecutionTime: time.Since(start),
	}

	if len(out.Documents) > 0 {
		event.Step(sink, 5, "Generating natural language answer...")
		out.Answer = s.answerer.FromDocuments(ctx, query, out.Documents)
		event.Info(sink, fmt.Sprintf("Generated natural language answer (%d characters)", len(out.Answer)))
	}

	logger.Info("Traditional search completed",
		zap.Strings("categories", res.Categories.Sorted()),
		zap.String("tier", string(res.Tier)),
		zap.Int("results", out.ResultCount()),
		zap.Duration("execution_time", out.ExecutionTime),
	)
	return out, nil
}
