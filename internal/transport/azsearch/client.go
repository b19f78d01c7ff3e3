package azsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/metrics"
	"github.com/kailas-cloud/archsearch/internal/version"
)

// DefaultAPIVersion is the search data-plane version that exposes knowledge agents.
const DefaultAPIVersion = "2025-05-01-preview"

// SearchScope is the token scope for the search service with ambient identity.
const SearchScope = "https://search.azure.com/.default"

const moduleName = "archsearch/azsearch"

// Client is a REST client for one Azure AI Search service.
type Client struct {
	endpoint   string
	apiVersion string
	pl         runtime.Pipeline
	logger     *zap.Logger
}

// Options configures a Client. The zero value is usable.
type Options struct {
	APIVersion string
	// Transport overrides the HTTP sender, mainly for tests.
	Transport policy.Transporter
	Logger    *zap.Logger
}

// NewClientWithKey creates a client authenticated with an admin or query API key.
func NewClientWithKey(endpoint, key string, opts *Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("search api key: %w", domain.ErrNotConfigured)
	}
	authPolicy := runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(key), "api-key", nil)
	return newClient(endpoint, authPolicy, opts)
}

// NewClient creates a client authenticated with an Azure token credential.
func NewClient(endpoint string, cred azcore.TokenCredential, opts *Options) (*Client, error) {
	if cred == nil {
		return nil, fmt.Errorf("search credential: %w", domain.ErrNotConfigured)
	}
	authPolicy := runtime.NewBearerTokenPolicy(cred, []string{SearchScope}, nil)
	return newClient(endpoint, authPolicy, opts)
}

func newClient(endpoint string, authPolicy policy.Policy, opts *Options) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("search endpoint: %w", domain.ErrNotConfigured)
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}
	if opts == nil {
		opts = &Options{}
	}

	clientOpts := &policy.ClientOptions{
		// Failures surface immediately; callers decide how to degrade.
		Retry: policy.RetryOptions{MaxRetries: -1},
	}
	if opts.Transport != nil {
		clientOpts.Transport = opts.Transport
	}

	pl := runtime.NewPipeline(moduleName, version.Version, runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}, clientOpts)

	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:   endpoint,
		apiVersion: apiVersion,
		pl:         pl,
		logger:     logger,
	}, nil
}

// CheckIndex verifies the service is reachable and the index exists.
func (c *Client) CheckIndex(ctx context.Context, index string) error {
	start := time.Now()
	err := c.checkIndex(ctx, index)
	metrics.ObserveSearch("check_index", time.Since(start).Seconds(), err)
	return err
}

func (c *Client) checkIndex(ctx context.Context, index string) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/indexes/"+url.PathEscape(index))
	if err != nil {
		return fmt.Errorf("build index request: %w", err)
	}
	resp, err := c.pl.Do(req)
	if err != nil {
		return fmt.Errorf("get index %s: %w: %w", index, err, domain.ErrSearchFailed)
	}
	defer resp.Body.Close()
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return fmt.Errorf("get index %s: %w: %w", index, runtime.NewResponseError(resp), domain.ErrSearchFailed)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.endpoint, path))
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by callers
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")
	return req, nil
}
