// Package console renders pipeline runs as a terminal transcript.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/goutils"
	"github.com/fatih/color"

	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/category"
	"github.com/kailas-cloud/archsearch/internal/domain/event"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	agenticuc "github.com/kailas-cloud/archsearch/internal/usecase/agentic"
	traditionaluc "github.com/kailas-cloud/archsearch/internal/usecase/traditional"
)

// Layout constants.
const (
	AnswerWidth = 100
	RuleWidth   = 80
	TopResults  = 3
)

var (
	heading = color.New(color.Bold)
	stepFmt = color.New(color.FgCyan)
	warnFmt = color.New(color.FgYellow)
	failFmt = color.New(color.FgRed)
)

// Printer writes transcripts to w.
type Printer struct {
	w io.Writer
}

// New creates a printer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Sink prints progress events as numbered steps with indented details.
func (p *Printer) Sink() event.Sink {
	return event.SinkFunc(func(e event.Event) {
		switch e.Kind {
		case event.KindStep:
			stepFmt.Fprintf(p.w, "\n%d. %s\n", e.Step, e.Message)
		case event.KindWarn:
			warnFmt.Fprintf(p.w, "   Warning: %s\n", e.Message)
		default:
			fmt.Fprintf(p.w, "   %s\n", e.Message)
		}
	})
}

// Banner prints a demo title over a 50-character rule.
func (p *Printer) Banner(title string) {
	heading.Fprintln(p.w, title)
	fmt.Fprintln(p.w, strings.Repeat("=", 50))
}

// Note prints an informational line.
func (p *Printer) Note(msg string) {
	fmt.Fprintf(p.w, "Info: %s\n", msg)
}

// Failure prints a terminal failure line.
func (p *Printer) Failure(msg string) {
	failFmt.Fprintln(p.w, msg)
}

// TraditionalHeader introduces a traditional run.
func (p *Printer) TraditionalHeader(query string) {
	heading.Fprintln(p.w, "\n=== Traditional Hybrid Search Demo ===")
	fmt.Fprintf(p.w, "Query: %s\n", query)
}

// Traditional prints the results of a traditional run.
func (p *Printer) Traditional(res *traditionaluc.Result) {
	heading.Fprintln(p.w, "\n=== Traditional Search Results ===")
	fmt.Fprintf(p.w, "Execution time: %.2f ms\n", ms(res.ExecutionTime.Microseconds()))
	fmt.Fprintf(p.w, "Total results: %d\n", res.ResultCount())
	fmt.Fprintf(p.w, "Applied categories filter: %s\n", res.Categories)
	fmt.Fprintln(p.w, "Search strategy: Single hybrid query (keyword + vector + semantic)")

	if res.HasAnswer() {
		heading.Fprintln(p.w, "\n=== Natural Language Answer ===")
		fmt.Fprintln(p.w, res.Answer)
	}

	top := topDocuments(res.Documents)
	fmt.Fprintf(p.w, "\nTop %d results:\n", len(top))
	for i, d := range top {
		fmt.Fprintf(p.w, "\n%d. %s\n", i+1, d.Title)
		fmt.Fprintf(p.w, "   Score: %.4f\n", d.Score)
		fmt.Fprintf(p.w, "   Categories: [%s]\n", strings.Join(d.Categories, ", "))
		fmt.Fprintf(p.w, "   Content: %s\n", d.Content)
	}

	heading.Fprintln(p.w, "\n=== Traditional Search Limitations (Even with LLM Answer Generation) ===")
	for _, l := range traditionalLimitations {
		fmt.Fprintf(p.w, "- %s\n", l)
	}
}

// TraditionalSummary prints the closing summary of a traditional run.
func (p *Printer) TraditionalSummary(res *traditionaluc.Result) {
	fmt.Fprintf(p.w, "\nTraditional search (with LLM categorization + answer generation) completed in %.2f ms\n",
		ms(res.ExecutionTime.Microseconds()))
	fmt.Fprintf(p.w, "   Found %d results using %s category detection\n", res.ResultCount(), tierLabel(res))
	fmt.Fprintf(p.w, "   Generated natural language answer: %s\n", yesNo(res.HasAnswer()))
	fmt.Fprintln(p.w, "   Note: Requires multiple separate LLM calls + manual search orchestration")
}

// Comparison prints what the traditional approach would need for a multi-intent query.
func (p *Printer) Comparison() {
	heading.Fprintln(p.w, "\n=== Comparison: What Traditional Search Would Require ===")
	fmt.Fprintln(p.w, "Manual Requirements:")
	for _, l := range manualRequirements {
		fmt.Fprintf(p.w, "   - %s\n", l)
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "Agentic Approach:")
	for _, l := range agenticAdvantages {
		fmt.Fprintf(p.w, "   - %s\n", l)
	}
}

// AgenticHeader introduces an agentic run.
func (p *Printer) AgenticHeader(query string) {
	heading.Fprintln(p.w, "\n=== Agentic Search Demo ===")
	fmt.Fprintf(p.w, "Complex Query: %s\n", query)
}

// Agentic prints the results of an agentic run.
func (p *Printer) Agentic(res *agenticuc.Result) {
	heading.Fprintln(p.w, "\n=== Agentic Search Results ===")
	fmt.Fprintf(p.w, "Execution time: %.2f ms\n", ms(res.ExecutionTime.Microseconds()))
	fmt.Fprintf(p.w, "Total references found: %d\n", res.ResultCount())
	fmt.Fprintf(p.w, "Number of activities executed: %d\n", len(res.Activities))

	if len(res.Activities) > 0 {
		fmt.Fprintln(p.w, "\nLLM Query Breakdown & Execution Plan:")
		for i, a := range res.Activities {
			if !a.IsSearchQuery() {
				continue
			}
			fmt.Fprintf(p.w, "   %d. Search Query: %q\n", i+1, a.SearchText())
			fmt.Fprintf(p.w, "      Type: %s\n", a.Type)
			fmt.Fprintf(p.w, "      Results: %d\n", a.Count)
		}
	}

	top := topReferences(res.References)
	fmt.Fprintf(p.w, "\nTop %d references:\n", len(top))
	for i, r := range top {
		fmt.Fprintf(p.w, "\n%d. Document: %s\n", i+1, orDefault(r.DocKey, "Unknown"))
		fmt.Fprintf(p.w, "   Activity Source: %d\n", r.ActivitySource)
		fmt.Fprintf(p.w, "   Reference ID: %s\n", orDefault(r.ID, "N/A"))
	}

	if res.HasAnswer() {
		heading.Fprintln(p.w, "\nNatural Language Answer:")
		fmt.Fprintln(p.w, strings.Repeat("=", RuleWidth))
		fmt.Fprintln(p.w, Wrap(res.Answer, AnswerWidth))
		fmt.Fprintln(p.w, strings.Repeat("=", RuleWidth))
	}

	heading.Fprintln(p.w, "\n=== Agentic Search Advantages Demonstrated ===")
	for _, l := range agenticAdvantagesSummary {
		fmt.Fprintf(p.w, "- %s\n", l)
	}
}

// AgenticSummary prints the closing summary of an agentic run.
func (p *Printer) AgenticSummary(res *agenticuc.Result) {
	fmt.Fprintf(p.w, "\nAgentic search completed in %.2f ms\n", ms(res.ExecutionTime.Microseconds()))
	fmt.Fprintf(p.w, "   Executed %d activities\n", len(res.Activities))
	fmt.Fprintf(p.w, "   Found %d references\n", res.ResultCount())

	queries := agent.RetrievalResult{Activities: res.Activities}.SearchQueries()
	if len(queries) > 0 {
		fmt.Fprintln(p.w, "\nQuery Execution Summary:")
		for _, a := range queries {
			fmt.Fprintf(p.w, "   - %q -> %d results\n", a.SearchText(), a.Count)
		}
	}
}

// Wrap reflows text into lines of at most width columns. Whitespace runs
// collapse to single spaces and words longer than width are kept whole.
func Wrap(text string, width int) string {
	return goutils.WrapCustom(strings.Join(strings.Fields(text), " "), width, "\n", false)
}

func topDocuments(docs []result.Document) []result.Document {
	if len(docs) > TopResults {
		return docs[:TopResults]
	}
	return docs
}

func topReferences(refs []agent.Reference) []agent.Reference {
	if len(refs) > TopResults {
		return refs[:TopResults]
	}
	return refs
}

func tierLabel(res *traditionaluc.Result) string {
	switch res.Tier {
	case category.TierLLM:
		return "LLM-powered"
	case category.TierCache:
		return "cached LLM"
	default:
		return "keyword-based"
	}
}

func ms(micros int64) float64 { return float64(micros) / 1000 }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
