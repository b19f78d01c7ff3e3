package agent

import "fmt"

// ActivitySearchQuery is the activity type for a sub-query run against an index.
const ActivitySearchQuery = "AzureSearchQuery"

// DefaultRerankerThreshold drops references below this semantic reranker score.
const DefaultRerankerThreshold = 2.5

// Model is the language model the agent uses for query planning.
type Model struct {
	ResourceURL    string
	DeploymentName string
	ModelName      string
}

// Definition describes a knowledge agent bound to one index.
type Definition struct {
	Name                     string
	Model                    Model
	TargetIndex              string
	DefaultRerankerThreshold float64
}

// NewDefinition validates an agent definition.
func NewDefinition(name, index string, model Model) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("agent name is required")
	}
	if index == "" {
		return Definition{}, fmt.Errorf("target index is required")
	}
	if model.ResourceURL == "" || model.DeploymentName == "" {
		return Definition{}, fmt.Errorf("agent model resource url and deployment are required")
	}
	return Definition{
		Name:                     name,
		Model:                    model,
		TargetIndex:              index,
		DefaultRerankerThreshold: DefaultRerankerThreshold,
	}, nil
}

// Message is one conversation turn sent to the agent.
type Message struct {
	Role string
	Text string
}

// IndexParams tunes ranking for one target index.
type IndexParams struct {
	IndexName         string
	RerankerThreshold float64
}

// RetrievalRequest carries conversation messages and per-index parameters.
type RetrievalRequest struct {
	Messages []Message
	Indexes  []IndexParams
}

// QueryInfo is the search issued by a query activity.
type QueryInfo struct {
	Search string `json:"search"`
	Filter string `json:"filter,omitempty"`
}

// Activity is one step of the agent's execution trace.
type Activity struct {
	ID           int        `json:"id"`
	Type         string     `json:"type"`
	TargetIndex  string     `json:"target_index,omitempty"`
	Query        *QueryInfo `json:"query,omitempty"`
	Count        int        `json:"count,omitempty"`
	ElapsedMs    int        `json:"elapsed_ms,omitempty"`
	InputTokens  int        `json:"input_tokens,omitempty"`
	OutputTokens int        `json:"output_tokens,omitempty"`
}

// IsSearchQuery reports whether the activity is an index sub-query.
func (a Activity) IsSearchQuery() bool { return a.Type == ActivitySearchQuery }

// SearchText returns the sub-query text or empty.
func (a Activity) SearchText() string {
	if a.Query == nil {
		return ""
	}
	return a.Query.Search
}

// Reference points at a document grounding the agent response.
type Reference struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	DocKey         string `json:"doc_key"`
	ActivitySource int    `json:"activity_source"`
	Content        string `json:"content,omitempty"`
}

// RetrievalResult is the agent's synthesized text, references and trace.
type RetrievalResult struct {
	Response   string
	References []Reference
	Activities []Activity
}

// SearchQueries returns only the index sub-query activities.
func (r RetrievalResult) SearchQueries() []Activity {
	var out []Activity
	for _, a := range r.Activities {
		if a.IsSearchQuery() {
			out = append(out, a)
		}
	}
	return out
}
