package answer

import (
	"context"

	"github.com/kailas-cloud/archsearch/internal/domain"
)

// Completer runs one chat completion.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}
