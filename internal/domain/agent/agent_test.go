package agent

import "testing"

func validModel() Model {
	return Model{ResourceURL: "https://aoai.example.com", DeploymentName: "gpt-4o", ModelName: "gpt-4o"}
}

func TestNewDefinition(t *testing.T) {
	d, err := NewDefinition("arch-agent", "index-arch-data", validModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DefaultRerankerThreshold != DefaultRerankerThreshold {
		t.Errorf("expected threshold %v, got %v", DefaultRerankerThreshold, d.DefaultRerankerThreshold)
	}
}

func TestNewDefinition_Validation(t *testing.T) {
	if _, err := NewDefinition("", "idx", validModel()); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := NewDefinition("a", "", validModel()); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := NewDefinition("a", "idx", Model{}); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestRetrievalResult_SearchQueries(t *testing.T) {
	r := RetrievalResult{Activities: []Activity{
		{ID: 0, Type: "ModelQueryPlanning", InputTokens: 100},
		{ID: 1, Type: ActivitySearchQuery, Query: &QueryInfo{Search: "aks hub spoke"}, Count: 4},
		{ID: 2, Type: ActivitySearchQuery},
	}}

	got := r.SearchQueries()
	if len(got) != 2 {
		t.Fatalf("expected 2 search queries, got %d", len(got))
	}
	if got[0].SearchText() != "aks hub spoke" {
		t.Errorf("unexpected search text %q", got[0].SearchText())
	}
	if got[1].SearchText() != "" {
		t.Errorf("expected empty search text, got %q", got[1].SearchText())
	}
}
