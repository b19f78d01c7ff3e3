package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// chatRequest mirrors the fields of the chat completions payload the tests inspect.
type chatRequest struct {
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
	}
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt-4o/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if v := r.URL.Query().Get("api-version"); v != DefaultAPIVersion {
			t.Errorf("unexpected api-version: %s", v)
		}
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("unexpected api-key header: %q", r.Header.Get("api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(`{"categories": ["Networking"]}`))
	}))
	defer server.Close()

	c, err := NewCompleter(&Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Deployment: "gpt-4o",
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}

	res, err := c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "sys"},
			{Role: domain.RoleUser, Content: "hi"},
		},
		MaxTokens:   800,
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if res.Content != `{"categories": ["Networking"]}` {
		t.Errorf("unexpected content %q", res.Content)
	}
	if res.TotalTokens != 20 || res.PromptTokens != 12 || res.CompletionTokens != 8 {
		t.Errorf("unexpected usage: %+v", res)
	}
	if got.MaxTokens != 800 || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", got.ResponseFormat)
	}
}

func TestCompleter_NoJSONModeOmitsResponseFormat(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("answer"))
	}))
	defer server.Close()

	c, err := NewCompleter(&Config{Endpoint: server.URL, APIKey: "k", Deployment: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}
	if _, err := c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "q"}},
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, ok := raw["response_format"]; ok {
		t.Error("response_format must be omitted when JSON mode is off")
	}
}

func TestCompleter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"401","message":"Access denied due to invalid subscription key"}}`))
	}))
	defer server.Close()

	c, err := NewCompleter(&Config{Endpoint: server.URL, APIKey: "bad", Deployment: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}
	_, err = c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "q"}},
	})
	if !errors.Is(err, domain.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	c, err := NewCompleter(&Config{Endpoint: server.URL, APIKey: "k", Deployment: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}
	_, err = c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "q"}},
	})
	if !errors.Is(err, domain.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

type fakeCredential struct {
	token  string
	err    error
	scopes []string
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scopes = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return azcore.AccessToken{Token: f.token, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestCompleter_AmbientIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer aad-token" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if r.Header.Get("api-key") != "" {
			t.Error("api-key header must not be sent with ambient identity")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	cred := &fakeCredential{token: "aad-token"}
	c, err := NewCompleter(&Config{Endpoint: server.URL, Credential: cred, Deployment: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}
	if _, err := c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "q"}},
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(cred.scopes) != 1 || cred.scopes[0] != CognitiveServicesScope {
		t.Errorf("unexpected scopes %v", cred.scopes)
	}
}

func TestCompleter_TokenFailure(t *testing.T) {
	cred := &fakeCredential{err: errors.New("no identity available")}
	c, err := NewCompleter(&Config{Endpoint: "http://127.0.0.1:1", Credential: cred, Deployment: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCompleter: %v", err)
	}
	_, err = c.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "q"}},
	})
	if !errors.Is(err, domain.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
}

func TestNewCompleter_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing endpoint", Config{APIKey: "k", Deployment: "d"}},
		{"missing deployment", Config{Endpoint: "https://x", APIKey: "k"}},
		{"missing credentials", Config{Endpoint: "https://x", Deployment: "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCompleter(&tc.cfg)
			if !errors.Is(err, domain.ErrNotConfigured) {
				t.Fatalf("expected ErrNotConfigured, got %v", err)
			}
		})
	}
}
