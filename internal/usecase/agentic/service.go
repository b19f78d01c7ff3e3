package agentic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/event"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
)

// SearchType labels results of this pipeline.
const SearchType = "agentic_retrieval"

// Instructions frame the conversation. The retrieve API accepts no system
// turns, so they are kept locally and stripped before sending.
const Instructions = `You are an intelligent search assistant specializing in Azure architecture and best practices.
When processing queries, analyze the user's intent and provide comprehensive information
covering security, architecture, networking, and operational considerations.`

// Result is the outcome of one agentic run.
type Result struct {
	Query string
	// Response is the agent's unified result text.
	Response   string
	References []agent.Reference
	Activities []agent.Activity
	// ExecutionTime covers agent setup and retrieval.
	ExecutionTime time.Duration
	// Answer is empty when generation failed.
	Answer string
}

// ResultCount is the number of references returned.
func (r *Result) ResultCount() int { return len(r.References) }

// HasAnswer reports whether an answer was generated.
func (r *Result) HasAnswer() bool { return r.Answer != "" }

// Service delegates planning and retrieval to a knowledge agent.
type Service struct {
	client   AgentClient
	answerer Answerer
	def      agent.Definition
	logger   *zap.Logger
}

// New creates an agentic pipeline for the given agent definition.
func New(client AgentClient, answerer Answerer, def agent.Definition, logger *zap.Logger) *Service {
	return &Service{client: client, answerer: answerer, def: def, logger: logger}
}

// Run executes the pipeline, reporting progress to sink.
// Agent setup and retrieval failures fail the run; answer failures do not.
func (s *Service) Run(ctx context.Context, query string, sink event.Sink) (*Result, error) {
	logger := logpkg.FromContextOr(ctx, s.logger)
	if sink == nil {
		sink = event.Discard
	}
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	start := time.Now()

	event.Step(sink, 1, "Setting up knowledge agent...")
	if err := s.client.CreateOrUpdateAgent(ctx, s.def); err != nil {
		logger.Error("Knowledge agent setup failed", zap.String("agent", s.def.Name), zap.Error(err))
		return nil, fmt.Errorf("setup knowledge agent: %w", err)
	}
	event.Info(sink, fmt.Sprintf("Knowledge agent '%s' created or updated successfully", s.def.Name))

	event.Step(sink, 2, "Creating agent client for retrieval...")
	event.Info(sink, fmt.Sprintf("Agent '%s' on index '%s'", s.def.Name, s.def.TargetIndex))

	event.Step(sink, 3, "Preparing conversation messages...")
	msgs := sendable(conversation(query))

	event.Step(sink, 4, "Executing agentic retrieval...")
	event.Info(sink, "LLM analyzing query and planning subqueries...")
	rr, err := s.client.Retrieve(ctx, s.def.Name, agent.RetrievalRequest{
		Messages: msgs,
		Indexes: []agent.IndexParams{{
			IndexName:         s.def.TargetIndex,
			RerankerThreshold: s.def.DefaultRerankerThreshold,
		}},
	})
	if err != nil {
		logger.Error("Agentic retrieval failed", zap.String("agent", s.def.Name), zap.Error(err))
		return nil, fmt.Errorf("agentic retrieval: %w", err)
	}
	elapsed := time.Since(start)

	event.Step(sink, 5, "Processing agentic results...")
	out := &Result{
		Query:         query,
		Response:      rr.Response,
		References:    rr.References,
		Activities:    rr.Activities,
		ExecutionTime: elapsed,
	}

	event.Step(sink, 6, "Generating natural language answer...")
	answer, err := s.answerer.FromReferences(ctx, query, rr.References)
	if err != nil {
		logger.Warn("Agentic answer generation failed", zap.Error(err))
		event.Warn(sink, "Natural language answer generation failed")
	} else {
		out.Answer = answer
	}

	logger.Info("Agentic search completed",
		zap.Int("activities", len(out.Activities)),
		zap.Int("references", out.ResultCount()),
		zap.Duration("execution_time", out.ExecutionTime),
	)
	return out, nil
}

func conversation(query string) []agent.Message {
	return []agent.Message{
		{Role: domain.RoleSystem, Text: Instructions},
		{Role: domain.RoleUser, Text: query},
	}
}

// sendable drops system turns.
func sendable(msgs []agent.Message) []agent.Message {
	out := make([]agent.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != domain.RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
