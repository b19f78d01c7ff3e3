package health

import "context"

// IndexChecker checks that the search service serves an index.
type IndexChecker interface {
	CheckIndex(ctx context.Context, index string) error
}

// CachePinger checks category cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
