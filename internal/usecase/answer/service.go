package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
)

// Completion parameters per answer style.
const (
	temperature             = 0.3
	documentsMaxTokens      = 1500
	referencesMaxTokens     = 3000
	insufficientInformation = "I apologize, but I couldn't find sufficient relevant information to answer your question based on the search results."
)

// Service turns retrieved material into a natural language answer.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// New creates an answer service.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Apology is returned when answer generation fails for n retrieved documents.
func Apology(n int) string {
	return fmt.Sprintf("I found %d relevant results for your query, but encountered an issue "+
		"generating a comprehensive answer. Please review the search results above for detailed information.", n)
}

// FromDocuments answers from search documents. It never fails: without documents
// it reports insufficient information, and on model errors it returns Apology.
func (s *Service) FromDocuments(ctx context.Context, query string, docs []result.Document) string {
	refs := documentsContext(docs)
	if strings.TrimSpace(refs) == "" {
		return insufficientInformation
	}

	res, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: documentsSystemPrompt()},
			{Role: domain.RoleUser, Content: userPrompt(query, refs,
				" Reference the specific sources that support your recommendations.")},
		},
		MaxTokens:   documentsMaxTokens,
		Temperature: temperature,
	})
	logger := logpkg.FromContextOr(ctx, s.logger)
	if err != nil {
		logger.Warn("Answer generation failed", zap.Int("documents", len(docs)), zap.Error(err))
		return Apology(len(docs))
	}

	logger.Debug("Answer generated",
		zap.Int("chars", len(res.Content)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res.Content
}

// FromReferences answers from agent references. Unlike FromDocuments it reports
// failures so callers can omit the answer.
func (s *Service) FromReferences(ctx context.Context, query string, refs []agent.Reference) (string, error) {
	res, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: referencesSystemPrompt()},
			{Role: domain.RoleUser, Content: userPrompt(query, referencesContext(refs), "")},
		},
		MaxTokens:   referencesMaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return res.Content, nil
}
