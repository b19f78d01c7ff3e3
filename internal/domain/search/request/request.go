package request

import (
	"fmt"
	"slices"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTop     = 10
	MaxTop         = 1000
)

// QueryTypeSemantic enables semantic ranking on the service.
const QueryTypeSemantic = "semantic"

// DefaultSelect lists the index fields returned to the pipeline.
var DefaultSelect = []string{"chunk_id", "chunk_title", "content", "category", "url"}

// Request is a validated search query against one index.
type Request struct {
	index          string
	text           string
	filter         string
	queryType      string
	semanticConfig string
	top            int
	selectFields   []string
	includeCount   bool
}

// New validates and normalizes search parameters.
// Defaults: top=10, select=DefaultSelect, count included.
func New(index, text, filter, semanticConfig string, top int) (Request, error) {
	if index == "" {
		return Request{}, fmt.Errorf("index is required")
	}
	if text == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if top <= 0 {
		top = DefaultTop
	}
	if top > MaxTop {
		return Request{}, fmt.Errorf("top must be <= %d, got %d", MaxTop, top)
	}

	r := Request{
		index:          index,
		text:           text,
		filter:         filter,
		top:            top,
		selectFields:   slices.Clone(DefaultSelect),
		includeCount:   true,
		semanticConfig: semanticConfig,
	}
	if semanticConfig != "" {
		r.queryType = QueryTypeSemantic
	}
	return r, nil
}

// Index returns the target index name.
func (r *Request) Index() string { return r.index }

// Text returns the search text.
func (r *Request) Text() string { return r.text }

// Filter returns the OData filter, empty when none applies.
func (r *Request) Filter() string { return r.filter }

// QueryType returns "semantic" or empty for simple queries.
func (r *Request) QueryType() string { return r.queryType }

// SemanticConfiguration returns the semantic configuration name.
func (r *Request) SemanticConfiguration() string { return r.semanticConfig }

// Top returns the result-size cap.
func (r *Request) Top() int { return r.top }

// Select returns the fields to retrieve.
func (r *Request) Select() []string { return r.selectFields }

// IncludeCount reports whether the total count is requested.
func (r *Request) IncludeCount() bool { return r.includeCount }
