package answer

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
)

// Prompt limits.
const (
	// MaxReferences is how many documents or references feed the prompt.
	MaxReferences = 5
	// ReferenceExcerpt caps agent reference content in the prompt.
	ReferenceExcerpt = 500
)

const systemPromptBase = `You are an expert Azure architect and consultant. Based on the provided search results and references,
provide a comprehensive, well-structured answer to the user's question. Your response should:

1. Directly address the specific question asked
2. Be technically accurate and detailed
3. Include practical implementation guidance%s
4. Cover security, networking, and operational considerations%s
5. Be organized with clear sections and bullet points
6. Include specific Azure service recommendations where appropriate
7. Cite which reference sections inform your answer via the reference_link urls

Format your response in a clear, professional manner suitable for technical stakeholders.`

func documentsSystemPrompt() string {
	return fmt.Sprintf(systemPromptBase, " where applicable", " as relevant") +
		"\nKeep your answer focused and concise while being comprehensive."
}

func referencesSystemPrompt() string {
	return fmt.Sprintf(systemPromptBase, "", "")
}

// documentsContext renders the leading documents as numbered reference blocks.
func documentsContext(docs []result.Document) string {
	var b strings.Builder
	for i, d := range docs {
		if i == MaxReferences {
			break
		}
		content := strings.TrimSuffix(d.Content, "...")
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "\nReference %d - %s:\n", i+1, title)
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(d.Categories, ", "))
		fmt.Fprintf(&b, "Content: %s\n", content)
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}

// referencesContext renders agent references that carry content, truncated.
func referencesContext(refs []agent.Reference) string {
	var b strings.Builder
	for i, r := range refs {
		if i == MaxReferences {
			break
		}
		if r.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "\nReference %d: %s...\n", i+1, truncate(r.Content, ReferenceExcerpt))
	}
	return b.String()
}

func userPrompt(query, references, closing string) string {
	return "Original Question: " + query +
		"\n\nSearch Results and References:\n" + references +
		"\n\nPlease provide a comprehensive answer to the original question based on these search results." +
		closing
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
