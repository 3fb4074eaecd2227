package openai

import (
	"fmt"
	"strings"
)

const synthesisSystemPrompt = `You are a recruiting assistant. Answer the question using ONLY the resume
excerpts provided below. Each excerpt is labelled with its source file.

Rules:
- Ground every claim in the excerpts. Do not invent candidates, skills, or experience.
- When you reference a candidate, name the source file the information came from.
- If the excerpts do not contain enough information to answer, say so plainly.
- Keep the answer concise: a short paragraph, or a short list when comparing candidates.`

// buildSynthesisPrompt assembles the user message from the query and the
// retrieved passages, labelling each passage with its ordinal.
func buildSynthesisPrompt(query string, passages []string) string {
	var b strings.Builder
	b.WriteString("Resume excerpts:\n\n")
	for i, passage := range passages {
		fmt.Fprintf(&b, "--- Excerpt %d ---\n%s\n\n", i+1, passage)
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}
