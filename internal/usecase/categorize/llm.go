package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/domain/category"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
)

// Chat parameters for categorization.
const (
	maxTokens   = 800
	temperature = 0.3
	topP        = 0.95
)

// LLMCategorizer asks a chat model to label a query with vocabulary categories.
type LLMCategorizer struct {
	completer Completer
	prompt    string
	logger    *zap.Logger
}

// NewLLM creates a language model categorizer.
func NewLLM(completer Completer, logger *zap.Logger) *LLMCategorizer {
	return &LLMCategorizer{
		completer: completer,
		prompt:    systemPrompt(),
		logger:    logger,
	}
}

// Categorize implements category.Categorizer.
// Labels outside the vocabulary are dropped; an empty answer yields Miscellaneous.
func (c *LLMCategorizer) Categorize(ctx context.Context, query string) (category.Resolution, error) {
	res, err := c.completer.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: c.prompt},
			{Role: domain.RoleUser, Content: "Categorize this search query: " + query},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
		JSONMode:    true,
	})
	if err != nil {
		return category.Resolution{}, fmt.Errorf("categorization completion: %w", err)
	}

	set, err := parseCategories(res.Content)
	if err != nil {
		logpkg.FromContextOr(ctx, c.logger).Debug("Unparseable categorization response",
			zap.String("content", res.Content),
			zap.Error(err),
		)
		return category.Resolution{}, err
	}
	return category.Resolution{Categories: set, Tier: category.TierLLM}, nil
}

// parseCategories decodes {"categories": [...]} and keeps known labels only.
func parseCategories(content string) (category.Set, error) {
	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCategories, err)
	}

	set := category.NewSet()
	for _, l := range payload.Categories {
		l = strings.TrimSpace(l)
		if category.IsValid(l) {
			set.Add(l)
		}
	}
	if set.IsEmpty() {
		return category.Default(), nil
	}
	return set, nil
}

func systemPrompt() string {
	return `You are an expert at categorizing Azure architecture and technology content.
You will be given a search query and you must return the most relevant categories.

IMPORTANT: Only return relevant categories, nothing else except the categories in the form of a JSON Array of Strings
IMPORTANT: When identifying categories, try to suggest as few categories as possible, keeping the relevancy high.
IMPORTANT: Only add the Miscellaneous category if the content does not fit into any of the other categories.
IMPORTANT: Do not add any other text or explanation, always return the categories in the form of a JSON Array of Strings in this structure:
{"categories": ["category1", "category2", "category3"]}

Select only from the categories below:

` + strings.Join(category.Vocabulary(), ", ")
}
