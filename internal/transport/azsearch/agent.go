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
	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/metrics"
)

// CreateOrUpdateAgent upserts a knowledge agent definition.
func (c *Client) CreateOrUpdateAgent(ctx context.Context, def agent.Definition) error {
	start := time.Now()
	err := c.putAgent(ctx, def)
	metrics.ObserveSearch("put_agent", time.Since(start).Seconds(), err)
	if err != nil {
		return err
	}
	c.logger.Info("Knowledge agent ready",
		zap.String("agent", def.Name),
		zap.String("index", def.TargetIndex),
		zap.String("deployment", def.Model.DeploymentName),
	)
	return nil
}

func (c *Client) putAgent(ctx context.Context, def agent.Definition) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/agents/"+url.PathEscape(def.Name))
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}
	req.Raw().Header.Set("Prefer", "return=representation")
	if err := runtime.MarshalAsJSON(req, toAgentBody(def)); err != nil {
		return fmt.Errorf("encode agent definition: %w", err)
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return fmt.Errorf("put agent %s: %w: %w", def.Name, err, domain.ErrAgentFailed)
	}
	defer resp.Body.Close()
	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusCreated, http.StatusNoContent) {
		return fmt.Errorf("put agent %s: %w: %w", def.Name, runtime.NewResponseError(resp), domain.ErrAgentFailed)
	}
	return nil
}

// Retrieve runs agentic retrieval through the named agent.
func (c *Client) Retrieve(ctx context.Context, name string, r agent.RetrievalRequest) (agent.RetrievalResult, error) {
	start := time.Now()
	res, err := c.retrieve(ctx, name, r)
	elapsed := time.Since(start)
	metrics.ObserveSearch("retrieve", elapsed.Seconds(), err)
	if err != nil {
		return agent.RetrievalResult{}, err
	}
	c.logger.Debug("Agentic retrieval done",
		zap.String("agent", name),
		zap.Int("activities", len(res.Activities)),
		zap.Int("references", len(res.References)),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

func (c *Client) retrieve(ctx context.Context, name string, r agent.RetrievalRequest) (agent.RetrievalResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/agents/"+url.PathEscape(name)+"/retrieve")
	if err != nil {
		return agent.RetrievalResult{}, fmt.Errorf("build retrieve request: %w", err)
	}
	if err := runtime.MarshalAsJSON(req, toRetrieveBody(r)); err != nil {
		return agent.RetrievalResult{}, fmt.Errorf("encode retrieve request: %w", err)
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return agent.RetrievalResult{}, fmt.Errorf("retrieve via %s: %w: %w", name, err, domain.ErrAgentFailed)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusPartialContent) {
		return agent.RetrievalResult{}, fmt.Errorf("retrieve via %s: %w: %w",
			name, runtime.NewResponseError(resp), domain.ErrAgentFailed)
	}

	var body retrieveResponse
	if err := runtime.UnmarshalAsJSON(resp, &body); err != nil {
		return agent.RetrievalResult{}, fmt.Errorf("decode retrieve response: %w: %w", err, domain.ErrAgentFailed)
	}
	return toRetrievalResult(body), nil
}
