package agentic

import (
	"context"

	"github.com/kailas-cloud/archsearch/internal/domain/agent"
)

// AgentClient manages and queries knowledge agents on the search service.
type AgentClient interface {
	CreateOrUpdateAgent(ctx context.Context, def agent.Definition) error
	Retrieve(ctx context.Context, name string, req agent.RetrievalRequest) (agent.RetrievalResult, error)
}

// Answerer synthesizes an answer from agent references.
type Answerer interface {
	FromReferences(ctx context.Context, query string, refs []agent.Reference) (string, error)
}
