package traditional

import (
	"context"

	"github.com/kailas-cloud/archsearch/internal/domain/category"
	"github.com/kailas-cloud/archsearch/internal/domain/search/request"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
)

// CategoryResolver maps a query to categories without failing.
type CategoryResolver interface {
	Resolve(ctx context.Context, query string) category.Resolution
}

// Searcher runs one search call.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Page, error)
}

// Answerer synthesizes an answer from documents without failing.
type Answerer interface {
	FromDocuments(ctx context.Context, query string, docs []result.Document) string
}
