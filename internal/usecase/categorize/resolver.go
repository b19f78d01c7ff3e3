package categorize

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain/category"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
	"github.com/kailas-cloud/archsearch/internal/metrics"
)

// Resolver turns a query into a category set. It never fails: any primary
// error falls back to keyword matching.
type Resolver struct {
	primary category.Categorizer
	logger  *zap.Logger
}

// NewResolver creates a resolver. primary can be nil, in which case only
// keyword matching runs.
func NewResolver(primary category.Categorizer, logger *zap.Logger) *Resolver {
	return &Resolver{primary: primary, logger: logger}
}

// Resolve returns a non-empty category set and the tier that produced it.
func (r *Resolver) Resolve(ctx context.Context, query string) category.Resolution {
	if r.primary != nil {
		res, err := r.primary.Categorize(ctx, query)
		if err == nil && !res.Categories.IsEmpty() {
			record(res.Tier)
			return res
		}
		if err != nil {
			logpkg.FromContextOr(ctx, r.logger).Warn("Language model categorization failed, using keyword fallback", zap.Error(err))
		}
	}

	res := category.Resolution{
		Categories: category.FromKeywords(query),
		Tier:       category.TierKeyword,
	}
	record(res.Tier)
	return res
}

func record(tier category.Tier) {
	metrics.CategorizationsTotal.WithLabelValues(string(tier)).Inc()
}
