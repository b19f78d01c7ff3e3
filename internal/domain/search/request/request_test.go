package request

import (
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("idx", "aks networking", "", "my-semantic-config", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Top() != DefaultTop {
		t.Errorf("expected top=%d, got %d", DefaultTop, r.Top())
	}
	if r.QueryType() != QueryTypeSemantic {
		t.Errorf("expected semantic query type, got %q", r.QueryType())
	}
	if len(r.Select()) != len(DefaultSelect) {
		t.Errorf("unexpected select: %v", r.Select())
	}
	if !r.IncludeCount() {
		t.Error("expected count to be included")
	}
}

func TestNew_NoSemanticConfig(t *testing.T) {
	r, err := New("idx", "q", "category/any(c: c eq 'Web')", "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.QueryType() != "" {
		t.Errorf("expected simple query type, got %q", r.QueryType())
	}
	if r.Filter() == "" || r.Top() != 5 {
		t.Errorf("unexpected request: filter=%q top=%d", r.Filter(), r.Top())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		index string
		text  string
		top   int
	}{
		{"missing index", "", "q", 10},
		{"missing query", "idx", "", 10},
		{"query too long", "idx", strings.Repeat("a", MaxQueryLength+1), 10},
		{"top too large", "idx", "q", MaxTop + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.index, tc.text, "", "", tc.top); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSelect_IsCopy(t *testing.T) {
	r, _ := New("idx", "q", "", "", 1)
	r.Select()[0] = "mutated"
	if DefaultSelect[0] != "chunk_id" {
		t.Error("request must not share DefaultSelect backing array")
	}
}
