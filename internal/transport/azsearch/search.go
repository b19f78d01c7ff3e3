package azsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/domain/search/request"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	"github.com/kailas-cloud/archsearch/internal/metrics"
)

// Search runs one query against the request's index.
func (c *Client) Search(ctx context.Context, r request.Request) (result.Page, error) {
	start := time.Now()
	page, err := c.search(ctx, r)
	elapsed := time.Since(start)
	metrics.ObserveSearch("search", elapsed.Seconds(), err)

	if err != nil {
		c.logger.Debug("Search failed",
			zap.String("index", r.Index()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return result.Page{}, err
	}
	c.logger.Debug("Search done",
		zap.String("index", r.Index()),
		zap.Bool("filtered", r.Filter() != ""),
		zap.Int("results", len(page.Documents)),
		zap.Duration("duration", elapsed),
	)
	return page, nil
}

func (c *Client) search(ctx context.Context, r request.Request) (result.Page, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/indexes/"+url.PathEscape(r.Index())+"/docs/search")
	if err != nil {
		return result.Page{}, fmt.Errorf("build search request: %w", err)
	}
	if err := runtime.MarshalAsJSON(req, toSearchBody(r)); err != nil {
		return result.Page{}, fmt.Errorf("encode search request: %w", err)
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return result.Page{}, fmt.Errorf("search index %s: %w: %w", r.Index(), err, domain.ErrSearchFailed)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return result.Page{}, fmt.Errorf("search index %s: %w: %w",
			r.Index(), runtime.NewResponseError(resp), domain.ErrSearchFailed)
	}

	var body searchResponse
	if err := runtime.UnmarshalAsJSON(resp, &body); err != nil {
		return result.Page{}, fmt.Errorf("decode search response: %w: %w", err, domain.ErrSearchFailed)
	}
	return toPage(body), nil
}
