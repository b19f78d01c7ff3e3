package azsearch

import (
	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/search/request"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
)

// Wire types for the search data plane. Field names follow the REST API.

type searchBody struct {
	Search                string `json:"search"`
	QueryType             string `json:"queryType,omitempty"`
	SemanticConfiguration string `json:"semanticConfiguration,omitempty"`
	Top                   int    `json:"top"`
	Select                string `json:"select,omitempty"`
	Count                 bool   `json:"count"`
	Filter                string `json:"filter,omitempty"`
}

type searchResponse struct {
	Count *int64           `json:"@odata.count"`
	Value []searchDocument `json:"value"`
}

type searchDocument struct {
	Score         float64  `json:"@search.score"`
	RerankerScore *float64 `json:"@search.rerankerScore"`
	ChunkID       string   `json:"chunk_id"`
	ChunkTitle    string   `json:"chunk_title"`
	Content       string   `json:"content"`
	Category      []string `json:"category"`
	URL           string   `json:"url"`
}

type agentBody struct {
	Name          string       `json:"name"`
	TargetIndexes []agentIndex `json:"targetIndexes"`
	Models        []agentModel `json:"models"`
}

type agentIndex struct {
	IndexName                string  `json:"indexName"`
	DefaultRerankerThreshold float64 `json:"defaultRerankerThreshold"`
}

type agentModel struct {
	Kind       string          `json:"kind"`
	Parameters agentModelParam `json:"azureOpenAIParameters"`
}

type agentModelParam struct {
	ResourceURI  string `json:"resourceUri"`
	DeploymentID string `json:"deploymentId"`
	ModelName    string `json:"modelName,omitempty"`
}

type retrieveBody struct {
	Messages          []agentMessage    `json:"messages"`
	TargetIndexParams []agentIndexParam `json:"targetIndexParams,omitempty"`
}

type agentMessage struct {
	Role    string         `json:"role"`
	Content []agentContent `json:"content"`
}

type agentContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type agentIndexParam struct {
	IndexName         string  `json:"indexName"`
	RerankerThreshold float64 `json:"rerankerThreshold"`
}

type retrieveResponse struct {
	Response   []agentMessage  `json:"response"`
	Activity   []agentActivity `json:"activity"`
	References []agentRef      `json:"references"`
}

type agentActivity struct {
	ID           int              `json:"id"`
	Type         string           `json:"type"`
	TargetIndex  string           `json:"targetIndex"`
	Query        *agent.QueryInfo `json:"query"`
	Count        int              `json:"count"`
	ElapsedMs    int              `json:"elapsedMs"`
	InputTokens  int              `json:"inputTokens"`
	OutputTokens int              `json:"outputTokens"`
}

type agentRef struct {
	Type           string         `json:"type"`
	ID             string         `json:"id"`
	ActivitySource int            `json:"activitySource"`
	DocKey         string         `json:"docKey"`
	Content        string         `json:"content"`
	SourceData     map[string]any `json:"sourceData"`
}

func toSearchBody(r request.Request) searchBody {
	body := searchBody{
		Search:                r.Text(),
		QueryType:             r.QueryType(),
		SemanticConfiguration: r.SemanticConfiguration(),
		Top:                   r.Top(),
		Count:                 r.IncludeCount(),
		Filter:                r.Filter(),
	}
	for i, f := range r.Select() {
		if i > 0 {
			body.Select += ","
		}
		body.Select += f
	}
	return body
}

func toPage(resp searchResponse) result.Page {
	page := result.Page{
		Documents:  make([]result.Document, 0, len(resp.Value)),
		TotalCount: -1,
	}
	if resp.Count != nil {
		page.TotalCount = *resp.Count
	}
	for _, d := range resp.Value {
		doc := result.Document{
			ChunkID:       d.ChunkID,
			Title:         d.ChunkTitle,
			Content:       d.Content,
			Categories:    d.Category,
			Score:         d.Score,
			ReferenceLink: d.URL,
		}
		if d.RerankerScore != nil {
			doc.RerankerScore = *d.RerankerScore
		}
		if doc.Categories == nil {
			doc.Categories = []string{}
		}
		page.Documents = append(page.Documents, doc)
	}
	return page
}

func toAgentBody(def agent.Definition) agentBody {
	return agentBody{
		Name: def.Name,
		TargetIndexes: []agentIndex{{
			IndexName:                def.TargetIndex,
			DefaultRerankerThreshold: def.DefaultRerankerThreshold,
		}},
		Models: []agentModel{{
			Kind: "azureOpenAI",
			Parameters: agentModelParam{
				ResourceURI:  def.Model.ResourceURL,
				DeploymentID: def.Model.DeploymentName,
				ModelName:    def.Model.ModelName,
			},
		}},
	}
}

func toRetrieveBody(req agent.RetrievalRequest) retrieveBody {
	body := retrieveBody{Messages: make([]agentMessage, 0, len(req.Messages))}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, agentMessage{
			Role:    m.Role,
			Content: []agentContent{{Type: "text", Text: m.Text}},
		})
	}
	for _, p := range req.Indexes {
		body.TargetIndexParams = append(body.TargetIndexParams, agentIndexParam{
			IndexName:         p.IndexName,
			RerankerThreshold: p.RerankerThreshold,
		})
	}
	return body
}

func toRetrievalResult(resp retrieveResponse) agent.RetrievalResult {
	var out agent.RetrievalResult
	if len(resp.Response) > 0 && len(resp.Response[0].Content) > 0 {
		out.Response = resp.Response[0].Content[0].Text
	}
	for _, a := range resp.Activity {
		out.Activities = append(out.Activities, agent.Activity{
			ID:           a.ID,
			Type:         a.Type,
			TargetIndex:  a.TargetIndex,
			Query:        a.Query,
			Count:        a.Count,
			ElapsedMs:    a.ElapsedMs,
			InputTokens:  a.InputTokens,
			OutputTokens: a.OutputTokens,
		})
	}
	for _, r := range resp.References {
		out.References = append(out.References, agent.Reference{
			ID:             r.ID,
			Type:           r.Type,
			DocKey:         r.DocKey,
			ActivitySource: r.ActivitySource,
			Content:        referenceContent(r),
		})
	}
	return out
}

// referenceContent prefers inline content, then the content field of the source document.
func referenceContent(r agentRef) string {
	if r.Content != "" {
		return r.Content
	}
	if s, ok := r.SourceData["content"].(string); ok {
		return s
	}
	return ""
}
