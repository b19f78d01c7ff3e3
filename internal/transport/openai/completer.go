package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/metrics"
)

// DefaultAPIVersion is the Azure OpenAI data-plane version used when none is configured.
const DefaultAPIVersion = "2024-12-01-preview"

// CognitiveServicesScope is the token scope for Azure OpenAI with ambient identity.
const CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

// Completer is a chat completion provider backed by an Azure OpenAI deployment.
type Completer struct {
	client     *openai.Client
	deployment string
	logger     *zap.Logger
}

// Config holds the Azure OpenAI settings.
// Exactly one of APIKey or Credential authenticates requests; APIKey wins when both are set.
type Config struct {
	Endpoint   string
	APIKey     string
	Credential azcore.TokenCredential
	APIVersion string
	Deployment string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewCompleter creates an Azure OpenAI chat completion provider.
func NewCompleter(cfg *Config) (*Completer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("openai endpoint: %w", domain.ErrNotConfigured)
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("openai deployment: %w", domain.ErrNotConfigured)
	}
	if cfg.APIKey == "" && cfg.Credential == nil {
		return nil, fmt.Errorf("openai credentials: %w", domain.ErrNotConfigured)
	}

	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientCfg.APIVersion = cfg.APIVersion
	if clientCfg.APIVersion == "" {
		clientCfg.APIVersion = DefaultAPIVersion
	}
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	clientCfg.HTTPClient = base
	if cfg.APIKey == "" {
		// Bearer tokens are attached per request so long-lived servers see refreshed tokens.
		clientCfg.APIType = openai.APITypeAzureAD
		clientCfg.HTTPClient = &tokenDoer{
			inner:  base,
			cred:   cfg.Credential,
			scopes: []string{CognitiveServicesScope},
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
		logger:     logger,
	}, nil
}

// Complete sends one chat completion and records transport-level metrics.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	creq := openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	if req.JSONMode {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, creq)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.deployment, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.deployment, "api_error").Inc()
		c.logger.Debug("Chat completion failed",
			zap.String("deployment", c.deployment),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.deployment, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.deployment, "empty_response").Inc()
		return domain.CompletionResult{}, fmt.Errorf("no choices in response: %w", domain.ErrEmptyCompletion)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.deployment, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.deployment).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.deployment, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.deployment, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	c.logger.Debug("Chat completion done",
		zap.String("deployment", c.deployment),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return domain.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCompletionFailed.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionFailed

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	return fmt.Errorf("chat completion request failed: %v: %w", err, wrap)
}

// extractDetail extracts error.message from an Azure error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return ""
}
