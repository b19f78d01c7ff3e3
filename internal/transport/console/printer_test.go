package console

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/category"
	"github.com/kailas-cloud/archsearch/internal/domain/event"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	agenticuc "github.com/kailas-cloud/archsearch/internal/usecase/agentic"
	traditionaluc "github.com/kailas-cloud/archsearch/internal/usecase/traditional"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSink_FormatsEvents(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf).Sink()

	event.Step(s, 1, "Categorizing query")
	event.Info(s, "Detected categories: [Networking]")
	event.Warn(s, "using keyword fallback")

	want := "\n1. Categorizing query\n" +
		"   Detected categories: [Networking]\n" +
		"   Warning: using keyword fallback\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func traditionalResult() *traditionaluc.Result {
	docs := make([]result.Document, 5)
	for i := range docs {
		docs[i] = result.Document{
			Title:      "Doc " + string(rune('A'+i)),
			Content:    "content",
			Categories: []string{"Networking", "Containers"},
			Score:      0.123456,
		}
	}
	return &traditionaluc.Result{
		Query:         "q",
		Categories:    category.NewSet("Networking", "Containers"),
		Tier:          category.TierLLM,
		Documents:     docs,
		ExecutionTime: 1234567 * time.Microsecond,
		Answer:        "AKS needs a subnet.",
	}
}

func TestTraditional_Transcript(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	res := traditionalResult()

	p.Traditional(res)
	p.TraditionalSummary(res)
	out := buf.String()

	for _, want := range []string{
		"Execution time: 1234.57 ms",
		"Total results: 5",
		"Applied categories filter: [Containers, Networking]",
		"=== Natural Language Answer ===\nAKS needs a subnet.",
		"Top 3 results:",
		"1. Doc A",
		"   Score: 0.1235",
		"   Categories: [Networking, Containers]",
		"3. Doc C",
		"Manual filter construction and result processing",
		"using LLM-powered category detection",
		"Generated natural language answer: Yes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Doc D") {
		t.Error("transcript should list only the top 3 documents")
	}
}

func TestTraditional_NoAnswerKeywordTier(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	res := traditionalResult()
	res.Answer = ""
	res.Tier = category.TierKeyword

	p.Traditional(res)
	p.TraditionalSummary(res)
	out := buf.String()

	if strings.Contains(out, "=== Natural Language Answer ===") {
		t.Error("answer section printed without an answer")
	}
	if !strings.Contains(out, "keyword-based category detection") {
		t.Errorf("missing keyword tier label:\n%s", out)
	}
	if !strings.Contains(out, "Generated natural language answer: No") {
		t.Errorf("missing answer flag:\n%s", out)
	}
}

func TestAgentic_Transcript(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	res := &agenticuc.Result{
		Query: "q",
		References: []agent.Reference{
			{ID: "0", DocKey: "doc-1", ActivitySource: 1},
			{ID: "1", ActivitySource: 2},
			{DocKey: "doc-3", ActivitySource: 2},
			{ID: "3", DocKey: "doc-4", ActivitySource: 1},
		},
		Activities: []agent.Activity{
			{ID: 0, Type: "ModelQueryPlanning"},
			{ID: 1, Type: agent.ActivitySearchQuery, Query: &agent.QueryInfo{Search: "AKS networking"}, Count: 7},
			{ID: 2, Type: agent.ActivitySearchQuery, Query: &agent.QueryInfo{Search: "hub spoke"}, Count: 3},
		},
		ExecutionTime: 2500 * time.Millisecond,
		Answer:        "Use a hub and spoke topology.",
	}

	p.Agentic(res)
	p.AgenticSummary(res)
	out := buf.String()

	for _, want := range []string{
		"Execution time: 2500.00 ms",
		"Total references found: 4",
		"Number of activities executed: 3",
		"2. Search Query: \"AKS networking\"",
		"      Results: 7",
		"1. Document: doc-1",
		"2. Document: Unknown",
		"   Reference ID: N/A",
		strings.Repeat("=", RuleWidth) + "\nUse a hub and spoke topology.\n" + strings.Repeat("=", RuleWidth),
		"- \"hub spoke\" -> 3 results",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "doc-4") {
		t.Error("transcript should list only the top 3 references")
	}
	if strings.Contains(out, "Search Query: \"\"") {
		t.Error("non-query activity listed as a search query")
	}
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("networking requirements for   AKS\nclusters ", 30)
	got := Wrap(text, AnswerWidth)

	for _, line := range strings.Split(got, "\n") {
		if len(line) > AnswerWidth {
			t.Errorf("line longer than %d: %q", AnswerWidth, line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != strings.Join(strings.Fields(text), " ") {
		t.Error("wrap changed the words")
	}
	if Wrap("", AnswerWidth) != "" {
		t.Error("empty input should stay empty")
	}
	if got := Wrap("short answer", AnswerWidth); got != "short answer" {
		t.Errorf("got %q", got)
	}
}
